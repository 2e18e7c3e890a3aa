package identity

import (
	"net/http"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/kernel"
)

var ErrRegistry = errx.NewRegistry("IDENTITY")

var (
	CodeInvalidTaxID    = ErrRegistry.Register("INVALID_TAX_ID", errx.TypeValidation, http.StatusBadRequest, "Tax ID is invalid")
	CodeInvalidPhone    = ErrRegistry.Register("INVALID_PHONE", errx.TypeValidation, http.StatusBadRequest, "Phone number is invalid")
	CodeCountryNotFound = ErrRegistry.Register("COUNTRY_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Country not supported")
	CodeMissingCountry  = ErrRegistry.Register("MISSING_COUNTRY", errx.TypeValidation, http.StatusBadRequest, "Country code is required")
)

// TaxIDError builds the user-facing rejection, e.g. "RUT is invalid"
func TaxIDError(countryCode kernel.CountryCode) *errx.Error {
	rule := ResolveCountry(countryCode)
	return ErrRegistry.New(CodeInvalidTaxID).
		WithMessage(rule.TaxIDLabel+" is invalid").
		WithDetail("country_code", countryCode).
		WithDetail("label", rule.TaxIDLabel)
}

func ErrInvalidPhone(countryCode kernel.CountryCode) *errx.Error {
	return ErrRegistry.New(CodeInvalidPhone).WithDetail("country_code", countryCode)
}

func ErrCountryNotFound() *errx.Error {
	return ErrRegistry.New(CodeCountryNotFound)
}

func ErrMissingCountry() *errx.Error {
	return ErrRegistry.New(CodeMissingCountry)
}
