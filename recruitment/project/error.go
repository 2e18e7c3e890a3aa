package project

import (
	"net/http"

	"github.com/Abraxas-365/intake/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("PROJECT")

// Error codes
var (
	CodeProjectNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Project not found")
	CodeProjectAlreadyExists   = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Project already exists")
	CodeProjectArchived        = ErrRegistry.Register("ARCHIVED", errx.TypeBusiness, http.StatusConflict, "Project is archived")
	CodeProjectNotActive       = ErrRegistry.Register("NOT_ACTIVE", errx.TypeBusiness, http.StatusConflict, "Project is not accepting applicants")
	CodeInvalidTransition      = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Project status change not allowed")
	CodeInvalidRequirements    = ErrRegistry.Register("INVALID_REQUIREMENTS", errx.TypeValidation, http.StatusBadRequest, "Position requirements are invalid")
	CodeInvalidProjectData     = ErrRegistry.Register("INVALID_DATA", errx.TypeValidation, http.StatusBadRequest, "Invalid project data")
	CodeInsufficientPermission = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
)

// Helper functions
func ErrProjectNotFound() *errx.Error {
	return ErrRegistry.New(CodeProjectNotFound)
}

func ErrProjectAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeProjectAlreadyExists)
}

func ErrProjectArchived() *errx.Error {
	return ErrRegistry.New(CodeProjectArchived)
}

func ErrProjectNotActive() *errx.Error {
	return ErrRegistry.New(CodeProjectNotActive)
}

func ErrInvalidTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition)
}

func ErrInvalidRequirements() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequirements)
}

func ErrInvalidProjectData() *errx.Error {
	return ErrRegistry.New(CodeInvalidProjectData)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermission)
}
