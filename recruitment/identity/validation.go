package identity

import (
	"reflect"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the identity tags on v:
//
//	country            the field is a supported country code
//	taxid=CountryCode  the field is a valid tax ID for the sibling country field
//	phone=CountryCode  the field normalizes as a phone for the sibling country field
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("country", validateCountryTag); err != nil {
		return err
	}
	if err := v.RegisterValidation("taxid", validateTaxIDTag); err != nil {
		return err
	}
	return v.RegisterValidation("phone", validatePhoneTag)
}

func validateCountryTag(fl validator.FieldLevel) bool {
	return IsSupported(kernel.CountryCode(fl.Field().String()))
}

func validateTaxIDTag(fl validator.FieldLevel) bool {
	country, ok := siblingCountry(fl)
	if !ok {
		return false
	}
	return ValidateTaxID(fl.Field().String(), country)
}

func validatePhoneTag(fl validator.FieldLevel) bool {
	country, ok := siblingCountry(fl)
	if !ok {
		return false
	}
	_, valid := NormalizePhone(fl.Field().String(), country)
	return valid
}

func siblingCountry(fl validator.FieldLevel) (kernel.CountryCode, bool) {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return "", false
	}
	field := parent.FieldByName(fl.Param())
	if !field.IsValid() || field.Kind() != reflect.String {
		return "", false
	}
	return kernel.CountryCode(field.String()), true
}
