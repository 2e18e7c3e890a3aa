package errxhttp

import (
	"errors"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts errors returned by handlers into JSON responses
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	var e *errx.Error
	if errors.As(err, &e) {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.WithFields(logx.Fields{"code": e.Code, "path": c.Path()}).Errorf("request failed: %v", e)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
