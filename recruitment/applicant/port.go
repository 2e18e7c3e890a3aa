package applicant

import (
	"context"
	"time"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
)

//go:generate mockgen -source=port.go -destination=mocks/mock_ports.go -package=mocks

type Repository interface {
	// Create creates a new applicant
	Create(ctx context.Context, a *Applicant) error

	// Update persists status, location and timestamps
	Update(ctx context.Context, a *Applicant) error

	// GetByID retrieves an applicant scoped to a tenant
	GetByID(ctx context.Context, id kernel.ApplicantID, tenantID kernel.TenantID) (*Applicant, error)

	// ExistsByTaxID checks for a registration with the same normalized tax ID
	ExistsByTaxID(ctx context.Context, projectID kernel.ProjectID, countryCode kernel.CountryCode, taxID string) (bool, error)

	// Roster returns the allocation snapshot of a position, every status included
	Roster(ctx context.Context, projectID kernel.ProjectID, position kernel.PositionName) ([]allocation.ApplicantRecord, error)

	// ListByProject retrieves applicants of a project with optional filters
	ListByProject(ctx context.Context, filter ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[Applicant], error)

	// ListAllByProject retrieves every applicant of a project, oldest first
	ListAllByProject(ctx context.Context, projectID kernel.ProjectID, tenantID kernel.TenantID) ([]Applicant, error)
}

// Unlock releases a lock obtained from Locker
type Unlock func(ctx context.Context) error

// Locker serializes allocation per project and position
type Locker interface {
	// Acquire blocks until the lock is held or the wait expires
	Acquire(ctx context.Context, key string) (Unlock, error)
}

// EventPublisher delivers applicant events
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Notifier tells the outside world about an event (email, chat, ...)
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// EventQueue is the work queue drained by the notification worker
type EventQueue interface {
	// Dequeue gets an event payload (blocking with timeout); nil when empty
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)

	// EnqueueDelayed schedules an event for a later retry
	EnqueueDelayed(ctx context.Context, event Event, delay time.Duration) error

	// MoveDelayedToReady moves due events back to the main queue
	MoveDelayedToReady(ctx context.Context) (int, error)
}
