package applicant

import (
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
)

type RegisterApplicantRequest struct {
	ProjectID      kernel.ProjectID    `json:"project_id" validate:"required"`
	Position       kernel.PositionName `json:"position" validate:"required,max=200"`
	FirstName      kernel.FirstName    `json:"first_name" validate:"required,max=100"`
	LastName       kernel.LastName     `json:"last_name" validate:"required,max=100"`
	Email          kernel.Email        `json:"email" validate:"required,email"`
	Phone          string              `json:"phone" validate:"omitempty,phone=CountryCode"`
	CountryCode    kernel.CountryCode  `json:"country_code" validate:"required,country"`
	TaxID          string              `json:"tax_id" validate:"required"`
	AcceptWaitlist bool                `json:"accept_waitlist"`
}

type UpdateStatusRequest struct {
	Status ApplicantStatus `json:"status" validate:"required"`
}

type ListFilter struct {
	TenantID  kernel.TenantID
	ProjectID kernel.ProjectID
	Position  kernel.PositionName
	Status    ApplicantStatus
}

type ListApplicantsRequest struct {
	ProjectID  kernel.ProjectID
	Position   kernel.PositionName
	Status     ApplicantStatus
	Pagination kernel.PaginationOptions
}

type RegisterApplicantResponse struct {
	Applicant  *Applicant         `json:"applicant"`
	Allocation AllocationResponse `json:"allocation"`
}

type AllocationResponse struct {
	ProjectID        kernel.ProjectID    `json:"project_id"`
	Position         kernel.PositionName `json:"position"`
	AssignedLocation kernel.LocationName `json:"assigned_location"`
	IsFullyOccupied  bool                `json:"is_fully_occupied"`
	Outcome          allocation.Outcome  `json:"outcome"`
}

func NewAllocationResponse(projectID kernel.ProjectID, position kernel.PositionName, result allocation.Result) AllocationResponse {
	return AllocationResponse{
		ProjectID:        projectID,
		Position:         position,
		AssignedLocation: result.AssignedLocation,
		IsFullyOccupied:  result.IsFullyOccupied,
		Outcome:          result.Outcome(),
	}
}

type OccupancyResponse struct {
	ProjectID     kernel.ProjectID               `json:"project_id"`
	Position      kernel.PositionName            `json:"position"`
	Unconstrained bool                           `json:"unconstrained"`
	Locations     []allocation.LocationOccupancy `json:"locations"`
	Waitlisted    int                            `json:"waitlisted"`
}

type ExportRosterResponse struct {
	Key  string `json:"key"`
	Rows int    `json:"rows"`
}
