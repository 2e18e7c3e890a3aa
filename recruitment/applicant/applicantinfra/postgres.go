package applicantinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresApplicantRepository implements applicant.Repository using PostgreSQL
type PostgresApplicantRepository struct {
	db *sqlx.DB
}

var _ applicant.Repository = (*PostgresApplicantRepository)(nil)

func NewPostgresApplicantRepository(db *sqlx.DB) *PostgresApplicantRepository {
	return &PostgresApplicantRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type applicantModel struct {
	ID               string     `db:"id"`
	TenantID         string     `db:"tenant_id"`
	ProjectID        string     `db:"project_id"`
	Position         string     `db:"position"`
	AssignedLocation string     `db:"assigned_location"`
	Status           string     `db:"status"`
	FirstName        string     `db:"first_name"`
	LastName         string     `db:"last_name"`
	Email            string     `db:"email"`
	Phone            string     `db:"phone"`
	CountryCode      string     `db:"country_code"`
	TaxID            string     `db:"tax_id"`
	WaitlistedAt     *time.Time `db:"waitlisted_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func (m *applicantModel) toEntity() applicant.Applicant {
	return applicant.Applicant{
		ID:               kernel.ApplicantID(m.ID),
		TenantID:         kernel.TenantID(m.TenantID),
		ProjectID:        kernel.ProjectID(m.ProjectID),
		Position:         kernel.PositionName(m.Position),
		AssignedLocation: kernel.LocationName(m.AssignedLocation),
		Status:           applicant.ApplicantStatus(m.Status),
		FirstName:        kernel.FirstName(m.FirstName),
		LastName:         kernel.LastName(m.LastName),
		Email:            kernel.Email(m.Email),
		Phone:            kernel.Phone(m.Phone),
		CountryCode:      kernel.CountryCode(m.CountryCode),
		TaxID:            m.TaxID,
		WaitlistedAt:     m.WaitlistedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromEntity(a *applicant.Applicant) *applicantModel {
	return &applicantModel{
		ID:               a.ID.String(),
		TenantID:         a.TenantID.String(),
		ProjectID:        a.ProjectID.String(),
		Position:         string(a.Position),
		AssignedLocation: string(a.AssignedLocation),
		Status:           string(a.Status),
		FirstName:        string(a.FirstName),
		LastName:         string(a.LastName),
		Email:            a.Email.String(),
		Phone:            a.Phone.String(),
		CountryCode:      a.CountryCode.String(),
		TaxID:            a.TaxID,
		WaitlistedAt:     a.WaitlistedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

type rosterRow struct {
	ProjectID        string `db:"project_id"`
	Position         string `db:"position"`
	AssignedLocation string `db:"assigned_location"`
	Status           string `db:"status"`
}

// ============================================================================
// Repository Implementation
// ============================================================================

const applicantColumns = `id, tenant_id, project_id, position, assigned_location, status,
	first_name, last_name, email, phone, country_code, tax_id,
	waitlisted_at, created_at, updated_at`

func (r *PostgresApplicantRepository) Create(ctx context.Context, a *applicant.Applicant) error {
	query := `
		INSERT INTO applicants (
			id, tenant_id, project_id, position, assigned_location, status,
			first_name, last_name, email, phone, country_code, tax_id,
			waitlisted_at, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :project_id, :position, :assigned_location, :status,
			:first_name, :last_name, :email, :phone, :country_code, :tax_id,
			:waitlisted_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(a)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return applicant.ErrDuplicateApplicant().
				WithDetail("project_id", a.ProjectID.String()).
				WithDetail("country_code", a.CountryCode)
		}
		return fmt.Errorf("failed to create applicant: %w", err)
	}
	return nil
}

func (r *PostgresApplicantRepository) Update(ctx context.Context, a *applicant.Applicant) error {
	query := `
		UPDATE applicants SET
			assigned_location = :assigned_location,
			status = :status,
			phone = :phone,
			waitlisted_at = :waitlisted_at,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, fromEntity(a))
	if err != nil {
		return fmt.Errorf("failed to update applicant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return applicant.ErrApplicantNotFound().WithDetail("applicant_id", a.ID.String())
	}
	return nil
}

func (r *PostgresApplicantRepository) GetByID(ctx context.Context, id kernel.ApplicantID, tenantID kernel.TenantID) (*applicant.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1 AND tenant_id = $2`

	var model applicantModel
	if err := r.db.GetContext(ctx, &model, query, id.String(), tenantID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, applicant.ErrApplicantNotFound().WithDetail("applicant_id", id.String())
		}
		return nil, fmt.Errorf("failed to get applicant by id: %w", err)
	}

	a := model.toEntity()
	return &a, nil
}

func (r *PostgresApplicantRepository) ExistsByTaxID(ctx context.Context, projectID kernel.ProjectID, countryCode kernel.CountryCode, taxID string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM applicants WHERE project_id = $1 AND country_code = $2 AND tax_id = $3
	)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, projectID.String(), countryCode.String(), taxID); err != nil {
		return false, fmt.Errorf("failed to check applicant tax id: %w", err)
	}
	return exists, nil
}

func (r *PostgresApplicantRepository) Roster(ctx context.Context, projectID kernel.ProjectID, position kernel.PositionName) ([]allocation.ApplicantRecord, error) {
	query := `
		SELECT project_id, position, assigned_location, status
		FROM applicants
		WHERE project_id = $1 AND position = $2`

	rows := []rosterRow{}
	if err := r.db.SelectContext(ctx, &rows, query, projectID.String(), string(position)); err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	records := make([]allocation.ApplicantRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, allocation.ApplicantRecord{
			ProjectID:        kernel.ProjectID(row.ProjectID),
			Position:         kernel.PositionName(row.Position),
			AssignedLocation: kernel.LocationName(row.AssignedLocation),
			Status:           row.Status,
		})
	}
	return records, nil
}

func (r *PostgresApplicantRepository) ListByProject(ctx context.Context, filter applicant.ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[applicant.Applicant], error) {
	pagination = pagination.Normalize()

	where := `WHERE tenant_id = $1 AND project_id = $2
		AND ($3::text = '' OR position = $3::text)
		AND ($4::text = '' OR status = $4::text)`
	args := []any{
		filter.TenantID.String(),
		filter.ProjectID.String(),
		string(filter.Position),
		string(filter.Status),
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM applicants `+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count applicants: %w", err)
	}

	query := `SELECT ` + applicantColumns + ` FROM applicants ` + where + `
		ORDER BY created_at ASC, id ASC
		LIMIT $5 OFFSET $6`

	models := []applicantModel{}
	if err := r.db.SelectContext(ctx, &models, query, append(args, pagination.PageSize, pagination.Offset())...); err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}

	applicants := make([]applicant.Applicant, 0, len(models))
	for i := range models {
		applicants = append(applicants, models[i].toEntity())
	}

	page := kernel.NewPaginated(applicants, pagination.Page, pagination.PageSize, total)
	return &page, nil
}

func (r *PostgresApplicantRepository) ListAllByProject(ctx context.Context, projectID kernel.ProjectID, tenantID kernel.TenantID) ([]applicant.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants
		WHERE project_id = $1 AND tenant_id = $2
		ORDER BY created_at ASC, id ASC`

	models := []applicantModel{}
	if err := r.db.SelectContext(ctx, &models, query, projectID.String(), tenantID.String()); err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}

	applicants := make([]applicant.Applicant, 0, len(models))
	for i := range models {
		applicants = append(applicants, models[i].toEntity())
	}
	return applicants, nil
}
