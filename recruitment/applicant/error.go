package applicant

import (
	"net/http"

	"github.com/Abraxas-365/intake/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICANT")

// Error codes
var (
	CodeApplicantNotFound            = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Applicant not found")
	CodeDuplicateApplicant           = ErrRegistry.Register("DUPLICATE", errx.TypeConflict, http.StatusConflict, "Applicant already registered in this project")
	CodeWaitlistConfirmationRequired = ErrRegistry.Register("WAITLIST_CONFIRMATION_REQUIRED", errx.TypeBusiness, http.StatusConflict, "All locations are full; confirm to join the waitlist")
	CodeNoCapacity                   = ErrRegistry.Register("NO_CAPACITY", errx.TypeBusiness, http.StatusConflict, "No location has remaining capacity")
	CodeInvalidStatus                = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid applicant status")
	CodeInvalidTransition            = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Applicant status change not allowed")
	CodeInvalidApplicantData         = ErrRegistry.Register("INVALID_DATA", errx.TypeValidation, http.StatusBadRequest, "Invalid applicant data")
	CodeAllocationBusy               = ErrRegistry.Register("ALLOCATION_BUSY", errx.TypeExternal, http.StatusServiceUnavailable, "Another registration is being processed, retry shortly")
	CodeExportFailed                 = ErrRegistry.Register("EXPORT_FAILED", errx.TypeExternal, http.StatusBadGateway, "Roster export failed")
	CodeInsufficientPermission       = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
)

// Helper functions
func ErrApplicantNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicantNotFound)
}

func ErrDuplicateApplicant() *errx.Error {
	return ErrRegistry.New(CodeDuplicateApplicant)
}

func ErrWaitlistConfirmationRequired() *errx.Error {
	return ErrRegistry.New(CodeWaitlistConfirmationRequired)
}

func ErrNoCapacity() *errx.Error {
	return ErrRegistry.New(CodeNoCapacity)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition)
}

func ErrInvalidApplicantData() *errx.Error {
	return ErrRegistry.New(CodeInvalidApplicantData)
}

func ErrAllocationBusy() *errx.Error {
	return ErrRegistry.New(CodeAllocationBusy)
}

func ErrExportFailed() *errx.Error {
	return ErrRegistry.New(CodeExportFailed)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermission)
}
