package errx

import (
	"fmt"
	"net/http"
	"sync"
)

// ErrorCode is a registered error template
type ErrorCode struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry holds the error codes of one domain, prefixed with its name
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[string]ErrorCode
}

// NewRegistry creates a registry whose codes are namespaced by prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]ErrorCode),
	}
}

// Register adds a code and returns its fully-qualified name (PREFIX.CODE).
// Registering the same code twice panics; codes are declared at init time.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) string {
	full := r.prefix + "." + code

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[full]; exists {
		panic(fmt.Sprintf("errx: duplicate error code %s", full))
	}

	r.codes[full] = ErrorCode{
		Code:       full,
		Type:       t,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	return full
}

// New instantiates a fresh error for a registered code
func (r *Registry) New(code string) *Error {
	r.mu.RLock()
	ec, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "Unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	return &Error{
		Code:       ec.Code,
		Type:       ec.Type,
		Message:    ec.Message,
		HTTPStatus: ec.HTTPStatus,
	}
}

// NewWithCause instantiates a registered error wrapping err
func (r *Registry) NewWithCause(code string, err error) *Error {
	return r.New(code).WithCause(err)
}

// Codes returns a snapshot of every registered code
func (r *Registry) Codes() []ErrorCode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ErrorCode, 0, len(r.codes))
	for _, ec := range r.codes {
		out = append(out, ec)
	}
	return out
}
