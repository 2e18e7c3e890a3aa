package identity

import (
	"strings"
	"testing"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/stretchr/testify/assert"
)

func TestValidateTaxID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		country kernel.CountryCode
		want    bool
	}{
		{"rut plain", "12345678-5", "CL", true},
		{"rut dotted", "12.345.678-5", "CL", true},
		{"rut no separators", "123456785", "CL", true},
		{"rut wrong digit", "12345678-4", "CL", false},
		{"rut remainder 10 upper", "10000013-K", "CL", true},
		{"rut remainder 10 lower", "10000013-k", "CL", true},
		{"rut remainder 10 wrong", "10000013-0", "CL", false},
		{"rut remainder 11", "10000004-0", "CL", true},
		{"rut seven digit body", "7.654.321-6", "CL", true},
		{"rut seven digit body K", "1000005-K", "CL", true},
		{"rut too short", "123456-7", "CL", false},
		{"rut non digit body", "1234567A-5", "CL", false},
		{"rut empty", "", "CL", false},

		{"pe dni", "12345678", "PE", true},
		{"pe ruc", "12345678901", "PE", true},
		{"pe with dash", "1234567-8", "PE", true},
		{"pe seven", "1234567", "PE", false},
		{"pe twelve", "123456789012", "PE", false},
		{"pe letters", "1234567A", "PE", false},

		{"co eight", "12345678", "CO", true},
		{"co twelve", "123456789012", "CO", true},
		{"co nit dotted", "900.123.456-7", "CO", true},
		{"co seven", "1234567", "CO", false},
		{"co thirteen", "1234567890123", "CO", false},

		{"fallback four", "ABCD", "AR", false},
		{"fallback five", "ABCDE", "AR", true},
		{"fallback counts after strip", "AB-C.D", "MX", false},
		{"fallback unknown country", "12345", "BR", true},
		{"fallback empty country", "1234", "", false},
		{"fallback empty", "", "US", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateTaxID(tt.raw, tt.country))
		})
	}
}

func TestValidateTaxIDEmptyForEveryCountry(t *testing.T) {
	for _, c := range Countries() {
		assert.False(t, ValidateTaxID("", c.Code), string(c.Code))
	}
}

func TestValidateTaxIDIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.True(t, ValidateTaxID("76.086.428-5", "CL"))
	}
}

func TestRUTFlippedDigitRejected(t *testing.T) {
	valid := "11111111-1"
	assert.True(t, ValidateRUT(valid))

	for _, d := range "023456789K" {
		candidate := strings.TrimSuffix(valid, "1") + string(d)
		assert.False(t, ValidateRUT(candidate), candidate)
	}
}

func TestNormalizeTaxID(t *testing.T) {
	assert.Equal(t, "12345678K", NormalizeTaxID("12.345.678-k"))
	assert.Equal(t, "XAXX010101000", NormalizeTaxID("xaxx010101000"))
}

func TestFormatRUT(t *testing.T) {
	got, ok := FormatRUT("123456785")
	assert.True(t, ok)
	assert.Equal(t, "12.345.678-5", got)

	got, ok = FormatRUT("7654321-6")
	assert.True(t, ok)
	assert.Equal(t, "7.654.321-6", got)

	got, ok = FormatRUT("10000013k")
	assert.True(t, ok)
	assert.Equal(t, "10.000.013-K", got)

	_, ok = FormatRUT("12345678-4")
	assert.False(t, ok)
}

func TestTaxIDError(t *testing.T) {
	err := TaxIDError("PE")
	assert.Equal(t, "DNI/RUC is invalid", err.Message)
	assert.Equal(t, CodeInvalidTaxID, err.Code)

	fallback := TaxIDError("BR")
	assert.Equal(t, "RUT is invalid", fallback.Message)
}
