package project

import (
	"strings"
	"time"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
)

// ProjectStatus represents the lifecycle of a hiring project
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "ACTIVE"   // Accepting applicants
	ProjectStatusClosed   ProjectStatus = "CLOSED"   // No longer accepting applicants
	ProjectStatusArchived ProjectStatus = "ARCHIVED" // Read-only
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusClosed, ProjectStatusArchived:
		return true
	}
	return false
}

type Project struct {
	ID           kernel.ProjectID                 `db:"id" json:"id"`
	TenantID     kernel.TenantID                  `db:"tenant_id" json:"tenant_id"`
	CompanyID    kernel.CompanyID                 `db:"company_id" json:"company_id"`
	Name         string                           `db:"name" json:"name"`
	Status       ProjectStatus                    `db:"status" json:"status"`
	Requirements []allocation.PositionRequirement `db:"requirements" json:"requirements"`
	ClosedAt     *time.Time                       `db:"closed_at" json:"closed_at,omitempty"`
	ArchivedAt   *time.Time                       `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt    time.Time                        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                        `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}

func (p *Project) IsArchived() bool {
	return p.Status == ProjectStatusArchived
}

// Requirement returns the requirement declared for position, if any
func (p *Project) Requirement(position kernel.PositionName) *allocation.PositionRequirement {
	return allocation.FindRequirement(p.Requirements, position)
}

// ReplaceRequirements swaps the requirement list after validating it
func (p *Project) ReplaceRequirements(reqs []allocation.PositionRequirement) error {
	if p.IsArchived() {
		return ErrProjectArchived().WithDetail("project_id", p.ID.String())
	}
	if err := ValidateRequirements(reqs); err != nil {
		return err
	}

	p.Requirements = reqs
	p.UpdatedAt = time.Now()
	return nil
}

// Close stops intake
func (p *Project) Close() error {
	if !p.IsActive() {
		return ErrInvalidTransition().
			WithDetail("from", p.Status).
			WithDetail("to", ProjectStatusClosed)
	}

	now := time.Now()
	p.Status = ProjectStatusClosed
	p.ClosedAt = &now
	p.UpdatedAt = now
	return nil
}

// Archive makes the project read-only
func (p *Project) Archive() error {
	if p.IsArchived() {
		return ErrProjectArchived().WithDetail("project_id", p.ID.String())
	}

	now := time.Now()
	if p.ClosedAt == nil {
		p.ClosedAt = &now
	}
	p.Status = ProjectStatusArchived
	p.ArchivedAt = &now
	p.UpdatedAt = now
	return nil
}

// ValidateRequirements checks that positions are unique and named, and that
// each position's locations are unique, named and have a non-negative quota.
// Trailing/leading spaces are not trimmed; names are compared as given.
func ValidateRequirements(reqs []allocation.PositionRequirement) error {
	positions := make(map[kernel.PositionName]struct{}, len(reqs))

	for i, req := range reqs {
		if strings.TrimSpace(string(req.Position)) == "" {
			return ErrInvalidRequirements().
				WithDetail("index", i).
				WithDetail("reason", "position is required")
		}
		if _, dup := positions[req.Position]; dup {
			return ErrInvalidRequirements().
				WithDetail("position", req.Position).
				WithDetail("reason", "duplicate position")
		}
		positions[req.Position] = struct{}{}

		locations := make(map[kernel.LocationName]struct{}, len(req.LocationDistribution))
		for j, quota := range req.LocationDistribution {
			if strings.TrimSpace(string(quota.Location)) == "" {
				return ErrInvalidRequirements().
					WithDetail("position", req.Position).
					WithDetail("index", j).
					WithDetail("reason", "location is required")
			}
			if _, dup := locations[quota.Location]; dup {
				return ErrInvalidRequirements().
					WithDetail("position", req.Position).
					WithDetail("location", quota.Location).
					WithDetail("reason", "duplicate location")
			}
			if quota.Quantity < 0 {
				return ErrInvalidRequirements().
					WithDetail("position", req.Position).
					WithDetail("location", quota.Location).
					WithDetail("reason", "quantity must be zero or greater")
			}
			locations[quota.Location] = struct{}{}
		}
	}
	return nil
}

// TotalCapacity sums the quotas of a position; ok is false when the position
// has no distribution (unconstrained).
func (p *Project) TotalCapacity(position kernel.PositionName) (total int, ok bool) {
	req := p.Requirement(position)
	if req == nil || len(req.LocationDistribution) == 0 {
		return 0, false
	}
	for _, q := range req.LocationDistribution {
		total += q.Quantity
	}
	return total, true
}
