package projectinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
	"github.com/Abraxas-365/intake/recruitment/project"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresProjectRepository implements project.Repository using PostgreSQL
type PostgresProjectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*PostgresProjectRepository)(nil)

func NewPostgresProjectRepository(db *sqlx.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type projectModel struct {
	ID           string          `db:"id"`
	TenantID     string          `db:"tenant_id"`
	CompanyID    string          `db:"company_id"`
	Name         string          `db:"name"`
	Status       string          `db:"status"`
	Requirements json.RawMessage `db:"requirements"`
	ClosedAt     *time.Time      `db:"closed_at"`
	ArchivedAt   *time.Time      `db:"archived_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (m *projectModel) toEntity() (*project.Project, error) {
	requirements := []allocation.PositionRequirement{}
	if len(m.Requirements) > 0 {
		if err := json.Unmarshal(m.Requirements, &requirements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal requirements: %w", err)
		}
	}

	return &project.Project{
		ID:           kernel.ProjectID(m.ID),
		TenantID:     kernel.TenantID(m.TenantID),
		CompanyID:    kernel.CompanyID(m.CompanyID),
		Name:         m.Name,
		Status:       project.ProjectStatus(m.Status),
		Requirements: requirements,
		ClosedAt:     m.ClosedAt,
		ArchivedAt:   m.ArchivedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func fromEntity(p *project.Project) (*projectModel, error) {
	reqs := p.Requirements
	if reqs == nil {
		reqs = []allocation.PositionRequirement{}
	}
	requirements, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal requirements: %w", err)
	}

	return &projectModel{
		ID:           p.ID.String(),
		TenantID:     p.TenantID.String(),
		CompanyID:    p.CompanyID.String(),
		Name:         p.Name,
		Status:       string(p.Status),
		Requirements: requirements,
		ClosedAt:     p.ClosedAt,
		ArchivedAt:   p.ArchivedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}

// ============================================================================
// Repository Implementation
// ============================================================================

const projectColumns = `id, tenant_id, company_id, name, status, requirements,
	closed_at, archived_at, created_at, updated_at`

func (r *PostgresProjectRepository) Create(ctx context.Context, p *project.Project) error {
	model, err := fromEntity(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (
			id, tenant_id, company_id, name, status, requirements,
			closed_at, archived_at, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :company_id, :name, :status, :requirements,
			:closed_at, :archived_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return project.ErrProjectAlreadyExists().WithDetail("project_id", p.ID.String())
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepository) Update(ctx context.Context, p *project.Project) error {
	model, err := fromEntity(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects SET
			name = :name,
			status = :status,
			requirements = :requirements,
			closed_at = :closed_at,
			archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return project.ErrProjectNotFound().WithDetail("project_id", p.ID.String())
	}
	return nil
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id kernel.ProjectID, tenantID kernel.TenantID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND tenant_id = $2`

	var model projectModel
	if err := r.db.GetContext(ctx, &model, query, id.String(), tenantID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, project.ErrProjectNotFound().WithDetail("project_id", id.String())
		}
		return nil, fmt.Errorf("failed to get project by id: %w", err)
	}

	return model.toEntity()
}

func (r *PostgresProjectRepository) List(ctx context.Context, tenantID kernel.TenantID, status project.ProjectStatus, pagination kernel.PaginationOptions) (*kernel.Paginated[project.Project], error) {
	pagination = pagination.Normalize()

	where := `WHERE tenant_id = $1 AND ($2::text = '' OR status = $2::text)`
	args := []any{tenantID.String(), string(status)}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM projects `+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	query := `SELECT ` + projectColumns + ` FROM projects ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	models := []projectModel{}
	if err := r.db.SelectContext(ctx, &models, query, append(args, pagination.PageSize, pagination.Offset())...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]project.Project, 0, len(models))
	for i := range models {
		p, err := models[i].toEntity()
		if err != nil {
			return nil, project.ErrInvalidProjectData().
				WithDetail("row_index", i).
				WithDetail("error", err.Error())
		}
		projects = append(projects, *p)
	}

	page := kernel.NewPaginated(projects, pagination.Page, pagination.PageSize, total)
	return &page, nil
}
