package identity

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactForm struct {
	CountryCode string `validate:"required,country"`
	TaxID       string `validate:"required,taxid=CountryCode"`
	Phone       string `validate:"omitempty,phone=CountryCode"`
}

func TestRegisterValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	t.Run("valid form", func(t *testing.T) {
		err := v.Struct(contactForm{CountryCode: "CL", TaxID: "12.345.678-5", Phone: "912345678"})
		assert.NoError(t, err)
	})

	t.Run("pointer form", func(t *testing.T) {
		err := v.Struct(&contactForm{CountryCode: "PE", TaxID: "12345678"})
		assert.NoError(t, err)
	})

	t.Run("invalid tax id for country", func(t *testing.T) {
		err := v.Struct(contactForm{CountryCode: "CL", TaxID: "12345678"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "taxid", verrs[0].Tag())
	})

	t.Run("unsupported country", func(t *testing.T) {
		err := v.Struct(contactForm{CountryCode: "BR", TaxID: "12345"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "country", verrs[0].Tag())
	})

	t.Run("bad phone", func(t *testing.T) {
		err := v.Struct(contactForm{CountryCode: "CL", TaxID: "12345678-5", Phone: "+51987654321"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "phone", verrs[0].Tag())
	})
}
