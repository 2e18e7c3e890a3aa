package applicantapi

import (
	"github.com/Abraxas-365/intake/pkg/iam/auth"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/Abraxas-365/intake/recruitment/applicant/applicantsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for applicant intake
type Handlers struct {
	service *applicantsrv.Service
}

func NewHandlers(service *applicantsrv.Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterApplicant registers an applicant, seating or waitlisting them
// POST /api/applicants
func (h *Handlers) RegisterApplicant(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return applicant.ErrInsufficientPermissions()
	}

	var req applicant.RegisterApplicantRequest
	if err := c.BodyParser(&req); err != nil {
		return applicant.ErrInvalidApplicantData().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Register(c.Context(), req, authContext.TenantID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetApplicant retrieves an applicant
// GET /api/applicants/:id
func (h *Handlers) GetApplicant(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return applicant.ErrInsufficientPermissions()
	}

	a, err := h.service.GetApplicant(c.Context(), kernel.ApplicantID(c.Params("id")), authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(a)
}

// UpdateStatus changes an applicant's status
// PATCH /api/applicants/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return applicant.ErrInsufficientPermissions()
	}

	var req applicant.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return applicant.ErrInvalidApplicantData().WithDetail("parse_error", err.Error())
	}

	a, err := h.service.UpdateStatus(c.Context(), kernel.ApplicantID(c.Params("id")), req, authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(a)
}

// ListByProject lists a project's applicants
// GET /api/projects/:id/applicants?position=&status=&page=1&page_size=20
func (h *Handlers) ListByProject(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return applicant.ErrInsufficientPermissions()
	}

	applicants, err := h.service.ListByProject(c.Context(), applicant.ListApplicantsRequest{
		ProjectID:  kernel.ProjectID(c.Params("id")),
		Position:   kernel.PositionName(c.Query("position")),
		Status:     applicant.ApplicantStatus(c.Query("status")),
		Pagination: parsePaginationOptions(c),
	}, authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(applicants)
}

// PreviewAllocation shows where the next applicant would be seated
// GET /api/projects/:id/allocation?position=
func (h *Handlers) PreviewAllocation(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return applicant.ErrInsufficientPermissions()
	}

	resp, err := h.service.PreviewAllocation(
		c.Context(),
		kernel.ProjectID(c.Params("id")),
		kernel.PositionName(c.Query("position")),
		authContext.TenantID,
	)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Occupancy reports seats per location
// GET /api/projects/:id/occupancy?position=
func (h *Handlers) Occupancy(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return applicant.ErrInsufficientPermissions()
	}

	resp, err := h.service.Occupancy(
		c.Context(),
		kernel.ProjectID(c.Params("id")),
		kernel.PositionName(c.Query("position")),
		authContext.TenantID,
	)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ExportRoster writes the roster CSV to storage
// POST /api/projects/:id/roster/export
func (h *Handlers) ExportRoster(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return applicant.ErrInsufficientPermissions()
	}

	resp, err := h.service.ExportRoster(c.Context(), kernel.ProjectID(c.Params("id")), authContext.TenantID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}.Normalize()
}

// RegisterRoutes registers all applicant routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	applicants := app.Group("/api/applicants", authMiddleware.Authenticate())

	applicants.Post("/",
		authMiddleware.RequireScope(auth.ScopeApplicantsWrite),
		handlers.RegisterApplicant,
	)

	applicants.Get("/:id",
		authMiddleware.RequireScope(auth.ScopeApplicantsRead),
		handlers.GetApplicant,
	)

	applicants.Patch("/:id/status",
		authMiddleware.RequireAnyScope(auth.ScopeApplicantsWrite, auth.ScopeApplicantsReview),
		handlers.UpdateStatus,
	)

	// Project-scoped views
	authenticate := authMiddleware.Authenticate()

	app.Get("/api/projects/:id/applicants",
		authenticate,
		authMiddleware.RequireScope(auth.ScopeApplicantsRead),
		handlers.ListByProject,
	)

	app.Get("/api/projects/:id/allocation",
		authenticate,
		authMiddleware.RequireScope(auth.ScopeApplicantsRead),
		handlers.PreviewAllocation,
	)

	app.Get("/api/projects/:id/occupancy",
		authenticate,
		authMiddleware.RequireScope(auth.ScopeApplicantsRead),
		handlers.Occupancy,
	)

	app.Post("/api/projects/:id/roster/export",
		authenticate,
		authMiddleware.RequireScope(auth.ScopeApplicantsExport),
		handlers.ExportRoster,
	)
}
