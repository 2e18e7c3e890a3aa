package identity

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Abraxas-365/intake/pkg/kernel"
)

// MinFallbackTaxIDLength is the only check applied to countries without a
// dedicated rule. It is intentionally weak and kept as-is until product
// decides whether unsupported countries should be rejected instead.
const MinFallbackTaxIDLength = 5

const minRUTLength = 8

// NormalizeTaxID strips '.' and '-' and upper-cases the rest
func NormalizeTaxID(raw string) string {
	return strings.ToUpper(strings.NewReplacer(".", "", "-", "").Replace(raw))
}

// ValidateTaxID reports whether raw is a structurally valid identifier for
// countryCode. It never fails: malformed input is simply invalid.
func ValidateTaxID(raw string, countryCode kernel.CountryCode) bool {
	if raw == "" {
		return false
	}

	normalized := NormalizeTaxID(raw)

	switch countryCode {
	case "CL":
		return ValidateRUT(raw)
	case "PE":
		return isDigitsBetween(normalized, 8, 11)
	case "CO":
		return isDigitsBetween(normalized, 8, 12)
	default:
		return utf8.RuneCountInString(normalized) >= MinFallbackTaxIDLength
	}
}

// ValidateRUT checks a Chilean RUT with the modulo 11 check digit
func ValidateRUT(raw string) bool {
	clean := NormalizeTaxID(raw)
	if len(clean) < minRUTLength {
		return false
	}

	body, dv := clean[:len(clean)-1], clean[len(clean)-1:]
	expected, ok := rutCheckDigit(body)
	if !ok {
		return false
	}
	return dv == expected
}

// rutCheckDigit computes the expected check character for body. Non-digit
// bodies have no check digit.
func rutCheckDigit(body string) (string, bool) {
	if !kernel.IsNumeric(body) {
		return "", false
	}

	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * multiplier
		if multiplier == 7 {
			multiplier = 2
		} else {
			multiplier++
		}
	}

	switch remainder := 11 - sum%11; remainder {
	case 11:
		return "0", true
	case 10:
		return "K", true
	default:
		return strconv.Itoa(remainder), true
	}
}

// FormatRUT renders a valid RUT as 12.345.678-5
func FormatRUT(raw string) (string, bool) {
	if !ValidateRUT(raw) {
		return "", false
	}

	clean := NormalizeTaxID(raw)
	body, dv := clean[:len(clean)-1], clean[len(clean)-1:]

	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte('-')
	b.WriteString(dv)
	return b.String(), true
}

func isDigitsBetween(s string, min, max int) bool {
	return len(s) >= min && len(s) <= max && kernel.IsNumeric(s)
}
