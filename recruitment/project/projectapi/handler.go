package projectapi

import (
	"github.com/Abraxas-365/intake/pkg/iam/auth"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/project"
	"github.com/Abraxas-365/intake/recruitment/project/projectsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for project operations
type Handlers struct {
	service *projectsrv.ProjectService
}

func NewHandlers(service *projectsrv.ProjectService) *Handlers {
	return &Handlers{service: service}
}

// CreateProject creates a project
// POST /api/projects
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return project.ErrInsufficientPermissions()
	}

	var req project.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return project.ErrInvalidProjectData().WithDetail("parse_error", err.Error())
	}

	p, err := h.service.CreateProject(c.Context(), req, authContext.TenantID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(project.ToResponse(p))
}

// ListProjects lists projects
// GET /api/projects?status=ACTIVE&page=1&page_size=20
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return project.ErrInsufficientPermissions()
	}

	projects, err := h.service.ListProjects(c.Context(), project.ListProjectsRequest{
		Status:     project.ProjectStatus(c.Query("status")),
		Pagination: parsePaginationOptions(c),
	}, authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(projects)
}

// GetProject retrieves a project
// GET /api/projects/:id
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return project.ErrInsufficientPermissions()
	}

	p, err := h.service.GetProject(c.Context(), kernel.ProjectID(c.Params("id")), authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(project.ToResponse(p))
}

// ReplaceRequirements replaces the position requirements
// PUT /api/projects/:id/requirements
func (h *Handlers) ReplaceRequirements(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return project.ErrInsufficientPermissions()
	}

	var req project.UpdateRequirementsRequest
	if err := c.BodyParser(&req); err != nil {
		return project.ErrInvalidRequirements().WithDetail("parse_error", err.Error())
	}

	p, err := h.service.ReplaceRequirements(c.Context(), kernel.ProjectID(c.Params("id")), req, authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(project.ToResponse(p))
}

// CloseProject stops intake
// POST /api/projects/:id/close
func (h *Handlers) CloseProject(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return project.ErrInsufficientPermissions()
	}

	p, err := h.service.CloseProject(c.Context(), kernel.ProjectID(c.Params("id")), authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(project.ToResponse(p))
}

// ArchiveProject archives a project
// POST /api/projects/:id/archive
func (h *Handlers) ArchiveProject(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return project.ErrInsufficientPermissions()
	}

	p, err := h.service.ArchiveProject(c.Context(), kernel.ProjectID(c.Params("id")), authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(project.ToResponse(p))
}

func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}.Normalize()
}

// RegisterRoutes registers all project routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/projects", authMiddleware.Authenticate())

	api.Get("/",
		authMiddleware.RequireScope(auth.ScopeProjectsRead),
		handlers.ListProjects,
	)

	api.Post("/",
		authMiddleware.RequireScope(auth.ScopeProjectsWrite),
		handlers.CreateProject,
	)

	api.Get("/:id",
		authMiddleware.RequireScope(auth.ScopeProjectsRead),
		handlers.GetProject,
	)

	api.Put("/:id/requirements",
		authMiddleware.RequireScope(auth.ScopeProjectsWrite),
		handlers.ReplaceRequirements,
	)

	api.Post("/:id/close",
		authMiddleware.RequireAnyScope(auth.ScopeProjectsWrite, auth.ScopeProjectsArchive),
		handlers.CloseProject,
	)

	api.Post("/:id/archive",
		authMiddleware.RequireScope(auth.ScopeProjectsArchive),
		handlers.ArchiveProject,
	)
}
