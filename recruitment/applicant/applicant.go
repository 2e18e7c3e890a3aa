package applicant

import (
	"time"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
)

// ApplicantStatus represents where an applicant stands in intake
type ApplicantStatus string

const (
	// Holds a seat at AssignedLocation
	ApplicantStatusRegistered ApplicantStatus = "Registered"
	// Accepted while every location was full; holds no seat
	ApplicantStatusWaitlisted ApplicantStatus = "Waitlisted"
	// Frees the seat
	ApplicantStatusRejected ApplicantStatus = ApplicantStatus(allocation.StatusRejected)
	ApplicantStatusHired    ApplicantStatus = "Hired"
)

func (s ApplicantStatus) IsValid() bool {
	switch s {
	case ApplicantStatusRegistered, ApplicantStatusWaitlisted, ApplicantStatusRejected, ApplicantStatusHired:
		return true
	}
	return false
}

type Applicant struct {
	ID               kernel.ApplicantID  `db:"id" json:"id"`
	TenantID         kernel.TenantID     `db:"tenant_id" json:"tenant_id"`
	ProjectID        kernel.ProjectID    `db:"project_id" json:"project_id"`
	Position         kernel.PositionName `db:"position" json:"position"`
	AssignedLocation kernel.LocationName `db:"assigned_location" json:"assigned_location"`
	Status           ApplicantStatus     `db:"status" json:"status"`
	FirstName        kernel.FirstName    `db:"first_name" json:"first_name"`
	LastName         kernel.LastName     `db:"last_name" json:"last_name"`
	Email            kernel.Email        `db:"email" json:"email"`
	Phone            kernel.Phone        `db:"phone" json:"phone,omitempty"`
	CountryCode      kernel.CountryCode  `db:"country_code" json:"country_code"`
	TaxID            string              `db:"tax_id" json:"tax_id"`
	WaitlistedAt     *time.Time          `db:"waitlisted_at" json:"waitlisted_at,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (a *Applicant) IsWaitlisted() bool {
	return a.Status == ApplicantStatusWaitlisted
}

// IsOccupying reports whether the applicant counts against its location quota
func (a *Applicant) IsOccupying() bool {
	return a.AssignedLocation != "" && allocation.IsOccupying(string(a.Status))
}

func (a *Applicant) ToRecord() allocation.ApplicantRecord {
	return allocation.ApplicantRecord{
		ProjectID:        a.ProjectID,
		Position:         a.Position,
		AssignedLocation: a.AssignedLocation,
		Status:           string(a.Status),
	}
}

// CanTransitionTo checks the status graph. Rejected and Hired are terminal.
func (a *Applicant) CanTransitionTo(next ApplicantStatus) bool {
	validTransitions := map[ApplicantStatus][]ApplicantStatus{
		ApplicantStatusRegistered: {ApplicantStatusRejected, ApplicantStatusHired},
		ApplicantStatusWaitlisted: {ApplicantStatusRegistered, ApplicantStatusRejected},
	}

	for _, allowed := range validTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Promote moves a waitlisted applicant onto a seat
func (a *Applicant) Promote(location kernel.LocationName) error {
	if !a.IsWaitlisted() {
		return ErrInvalidTransition().
			WithDetail("from", a.Status).
			WithDetail("to", ApplicantStatusRegistered)
	}
	a.Status = ApplicantStatusRegistered
	a.AssignedLocation = location
	a.UpdatedAt = time.Now()
	return nil
}

// ChangeStatus applies a transition that needs no seat. Promotion from the
// waitlist goes through Promote.
func (a *Applicant) ChangeStatus(next ApplicantStatus) error {
	if !next.IsValid() {
		return ErrInvalidStatus().WithDetail("status", next)
	}
	if next == ApplicantStatusRegistered || !a.CanTransitionTo(next) {
		return ErrInvalidTransition().
			WithDetail("from", a.Status).
			WithDetail("to", next)
	}
	a.Status = next
	a.UpdatedAt = time.Now()
	return nil
}

// Snapshot converts a roster into the records the allocator reads
func Snapshot(applicants []Applicant) []allocation.ApplicantRecord {
	records := make([]allocation.ApplicantRecord, 0, len(applicants))
	for i := range applicants {
		records = append(records, applicants[i].ToRecord())
	}
	return records
}
