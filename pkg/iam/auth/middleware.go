package auth

import (
	"strings"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type TokenMiddleware struct {
	tokenService TokenService
}

func NewAuthMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate reads a bearer token (or the access_token cookie) and stores
// the principal under c.Locals("auth").
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c)
		if token == "" {
			token = c.Cookies("access_token")
		}

		if token == "" {
			return ErrUnauthorized()
		}

		claims, err := am.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		userID := claims.UserID
		authContext := &kernel.AuthContext{
			UserID:   &userID,
			TenantID: claims.TenantID,
			Email:    claims.Email,
			Name:     claims.Name,
			Scopes:   claims.Scopes,
		}
		if !authContext.IsValid() {
			return ErrTokenValidationFailed().WithDetail("error", "token has no tenant")
		}

		c.Locals("auth", authContext)
		return c.Next()
	}
}

// RequireScope - Requires a specific scope
func (am *TokenMiddleware) RequireScope(scope string) fiber.Handler {
	return am.RequireAnyScope(scope)
}

// RequireAnyScope - Requires any of the provided scopes
func (am *TokenMiddleware) RequireAnyScope(scopes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return ErrUnauthorized()
		}

		if !authContext.HasAnyScope(scopes...) {
			return ErrInsufficientScope().WithDetail("required_scopes", scopes)
		}

		return c.Next()
	}
}

func extractBearer(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
		return parts[1]
	}
	return ""
}

// GetAuthContext helper to extract auth context from Fiber
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals("auth").(*kernel.AuthContext)
	return authContext, ok && authContext.IsValid()
}
