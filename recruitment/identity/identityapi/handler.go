package identityapi

import (
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/pkg/metrics"
	"github.com/Abraxas-365/intake/recruitment/identity"
	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the identity form helpers
type Handlers struct {
	metrics *metrics.Metrics
}

func NewHandlers(m *metrics.Metrics) *Handlers {
	return &Handlers{metrics: m}
}

// ListCountries returns the supported countries
// GET /api/countries
func (h *Handlers) ListCountries(c *fiber.Ctx) error {
	return c.JSON(identity.CountryListResponse{
		Countries: identity.Countries(),
		Default:   identity.DefaultCountry().Code,
	})
}

// GetCountry returns one country rule
// GET /api/countries/:code
func (h *Handlers) GetCountry(c *fiber.Ctx) error {
	code := kernel.CountryCode(c.Params("code")).Upper()

	rule, ok := identity.LookupCountry(code)
	if !ok {
		return identity.ErrCountryNotFound().
			WithDetail("code", code).
			WithDetail("default", identity.DefaultCountry().Code)
	}
	return c.JSON(rule)
}

// ValidateTaxID checks a tax ID for a country
// POST /api/identity/tax-id/validate
func (h *Handlers) ValidateTaxID(c *fiber.Ctx) error {
	var req identity.ValidateTaxIDRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.CountryCode = req.CountryCode.Upper()
	if req.CountryCode == "" {
		return identity.ErrMissingCountry()
	}

	resp := identity.CheckTaxID(req)
	h.metrics.ObserveTaxIDValidation(string(req.CountryCode), resp.Valid)

	return c.JSON(resp)
}

// NormalizePhone normalizes a phone for a country
// POST /api/identity/phone/normalize
func (h *Handlers) NormalizePhone(c *fiber.Ctx) error {
	var req identity.NormalizePhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.CountryCode = req.CountryCode.Upper()
	if req.CountryCode == "" {
		return identity.ErrMissingCountry()
	}
	if !identity.IsSupported(req.CountryCode) {
		return identity.ErrCountryNotFound().WithDetail("code", req.CountryCode)
	}

	return c.JSON(identity.CheckPhone(req))
}

// RegisterRoutes registers the public identity routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	app.Get("/api/countries", handlers.ListCountries)
	app.Get("/api/countries/:code", handlers.GetCountry)

	api := app.Group("/api/identity")
	api.Post("/tax-id/validate", handlers.ValidateTaxID)
	api.Post("/phone/normalize", handlers.NormalizePhone)
}
