package validatex

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/go-playground/validator/v10"
)

var ErrRegistry = errx.NewRegistry("VALIDATION")

var CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")

// Registration installs custom tags on a validator
type Registration func(*validator.Validate) error

// Validator wraps go-playground/validator and reports failures as errx errors
type Validator struct {
	validate *validator.Validate
}

func New(registrations ...Registration) (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	for _, register := range registrations {
		if err := register(v); err != nil {
			return nil, err
		}
	}
	return &Validator{validate: v}, nil
}

// MustNew panics if a registration fails; registrations are static
func MustNew(registrations ...Registration) *Validator {
	v, err := New(registrations...)
	if err != nil {
		panic(err)
	}
	return v
}

// Struct validates s. Field failures come back as a single
// VALIDATION.INVALID_REQUEST error whose "fields" detail maps the JSON field
// name to the failed tag.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errx.Wrap(err, "Request validation failed", errx.TypeValidation)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return ErrRegistry.New(CodeInvalidRequest).WithDetail("fields", fields)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
