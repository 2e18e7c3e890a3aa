package project

import (
	"context"

	"github.com/Abraxas-365/intake/pkg/kernel"
)

//go:generate mockgen -source=port.go -destination=mocks/mock_repository.go -package=mocks

type Repository interface {
	// Create creates a new project
	Create(ctx context.Context, p *Project) error

	// Update persists status, requirements and timestamps
	Update(ctx context.Context, p *Project) error

	// GetByID retrieves a project scoped to a tenant
	GetByID(ctx context.Context, id kernel.ProjectID, tenantID kernel.TenantID) (*Project, error)

	// List retrieves the tenant's projects, optionally filtered by status
	List(ctx context.Context, tenantID kernel.TenantID, status ProjectStatus, pagination kernel.PaginationOptions) (*kernel.Paginated[Project], error)
}
