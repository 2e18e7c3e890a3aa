package validatex

import (
	"errors"
	"testing"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name" validate:"required"`
}

type request struct {
	Email string `json:"email" validate:"required,email"`
	Items []item `json:"items" validate:"dive"`
	Code  string `json:"code" validate:"even_len"`
}

func evenLen(v *validator.Validate) error {
	return v.RegisterValidation("even_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String())%2 == 0
	})
}

func TestStruct(t *testing.T) {
	v, err := New(evenLen)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Struct(request{Email: "a@b.cl", Code: "ab"}))
	})

	t.Run("field errors use json names", func(t *testing.T) {
		err := v.Struct(request{Email: "nope", Items: []item{{}}, Code: "abc"})
		require.Error(t, err)

		var e *errx.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, CodeInvalidRequest, e.Code)

		fields := e.Details["fields"].(map[string]string)
		assert.Equal(t, "email", fields["email"])
		assert.Equal(t, "required", fields["items[0].name"])
		assert.Equal(t, "even_len", fields["code"])
	})
}

func TestNewFailsOnBadRegistration(t *testing.T) {
	_, err := New(func(v *validator.Validate) error { return errors.New("nope") })
	assert.Error(t, err)

	assert.Panics(t, func() {
		MustNew(func(v *validator.Validate) error { return errors.New("nope") })
	})
}
