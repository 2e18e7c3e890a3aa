package applicant

import (
	"time"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/google/uuid"
)

type EventType string

const (
	EventApplicantRegistered    EventType = "applicant.registered"
	EventApplicantWaitlisted    EventType = "applicant.waitlisted"
	EventApplicantStatusChanged EventType = "applicant.status_changed"
)

// Event is the message handed to publishers and, eventually, the notifier
type Event struct {
	ID               string              `json:"id"`
	Type             EventType           `json:"type"`
	TenantID         kernel.TenantID     `json:"tenant_id"`
	ApplicantID      kernel.ApplicantID  `json:"applicant_id"`
	ProjectID        kernel.ProjectID    `json:"project_id"`
	Position         kernel.PositionName `json:"position"`
	AssignedLocation kernel.LocationName `json:"assigned_location,omitempty"`
	Status           ApplicantStatus     `json:"status"`
	Email            kernel.Email        `json:"email"`
	FullName         string              `json:"full_name"`
	OccurredAt       time.Time           `json:"occurred_at"`

	// Delivery bookkeeping, owned by the notification worker
	AttemptCount int `json:"attempt_count"`
	MaxAttempts  int `json:"max_attempts"`
}

func NewEvent(eventType EventType, a *Applicant) Event {
	return Event{
		ID:               uuid.NewString(),
		Type:             eventType,
		TenantID:         a.TenantID,
		ApplicantID:      a.ID,
		ProjectID:        a.ProjectID,
		Position:         a.Position,
		AssignedLocation: a.AssignedLocation,
		Status:           a.Status,
		Email:            a.Email,
		FullName:         string(a.FirstName) + " " + string(a.LastName),
		OccurredAt:       time.Now(),
	}
}

// EventTypeFor picks the registration event matching the applicant status
func EventTypeFor(a *Applicant) EventType {
	if a.IsWaitlisted() {
		return EventApplicantWaitlisted
	}
	return EventApplicantRegistered
}
