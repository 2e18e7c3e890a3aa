package projectsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/Abraxas-365/intake/pkg/validatex"
	"github.com/Abraxas-365/intake/recruitment/allocation"
	"github.com/Abraxas-365/intake/recruitment/project"
	"github.com/google/uuid"
)

// ProjectService provides business operations for projects
type ProjectService struct {
	repo      project.Repository
	validator *validatex.Validator
}

func NewProjectService(repo project.Repository, validator *validatex.Validator) *ProjectService {
	return &ProjectService{
		repo:      repo,
		validator: validator,
	}
}

// CreateProject creates an ACTIVE project for the tenant
func (s *ProjectService) CreateProject(ctx context.Context, req project.CreateProjectRequest, tenantID kernel.TenantID) (*project.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := project.ValidateRequirements(req.Requirements); err != nil {
		return nil, err
	}

	reqs := req.Requirements
	if reqs == nil {
		reqs = []allocation.PositionRequirement{}
	}

	now := time.Now()
	p := &project.Project{
		ID:           kernel.NewProjectID(uuid.NewString()),
		TenantID:     tenantID,
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		Status:       project.ProjectStatusActive,
		Requirements: reqs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errx.Wrap(err, "failed to create project", errx.TypeInternal)
	}

	logx.WithFields(logx.Fields{
		"project_id": p.ID,
		"tenant_id":  tenantID,
		"positions":  len(p.Requirements),
	}).Info("project created")

	return p, nil
}

// GetProject retrieves a project of the tenant
func (s *ProjectService) GetProject(ctx context.Context, id kernel.ProjectID, tenantID kernel.TenantID) (*project.Project, error) {
	p, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		if errx.IsCode(err, project.CodeProjectNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to get project", errx.TypeInternal)
	}
	return p, nil
}

// ListProjects lists the tenant's projects
func (s *ProjectService) ListProjects(ctx context.Context, req project.ListProjectsRequest, tenantID kernel.TenantID) (*kernel.Paginated[project.ProjectResponse], error) {
	if req.Status != "" && !req.Status.IsValid() {
		return nil, project.ErrInvalidProjectData().WithDetail("status", req.Status)
	}

	page, err := s.repo.List(ctx, tenantID, req.Status, req.Pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list projects", errx.TypeInternal)
	}

	items := make([]project.ProjectResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, project.ToResponse(&page.Items[i]))
	}

	return &kernel.Paginated[project.ProjectResponse]{
		Items: items,
		Page:  page.Page,
		Empty: page.Empty,
	}, nil
}

// ReplaceRequirements swaps the position requirements of a project. Seats
// already taken are kept; a lower quota only stops new assignments.
func (s *ProjectService) ReplaceRequirements(ctx context.Context, id kernel.ProjectID, req project.UpdateRequirementsRequest, tenantID kernel.TenantID) (*project.Project, error) {
	p, err := s.GetProject(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	if err := p.ReplaceRequirements(req.Requirements); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errx.Wrap(err, "failed to update requirements", errx.TypeInternal)
	}
	return p, nil
}

// CloseProject stops intake for a project
func (s *ProjectService) CloseProject(ctx context.Context, id kernel.ProjectID, tenantID kernel.TenantID) (*project.Project, error) {
	return s.transition(ctx, id, tenantID, (*project.Project).Close)
}

// ArchiveProject makes a project read-only
func (s *ProjectService) ArchiveProject(ctx context.Context, id kernel.ProjectID, tenantID kernel.TenantID) (*project.Project, error) {
	return s.transition(ctx, id, tenantID, (*project.Project).Archive)
}

func (s *ProjectService) transition(ctx context.Context, id kernel.ProjectID, tenantID kernel.TenantID, apply func(*project.Project) error) (*project.Project, error) {
	p, err := s.GetProject(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	if err := apply(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errx.Wrap(err, "failed to update project status", errx.TypeInternal)
	}

	logx.WithFields(logx.Fields{"project_id": p.ID, "status": p.Status}).Info("project status changed")
	return p, nil
}
