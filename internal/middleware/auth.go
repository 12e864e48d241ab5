package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hireflow/internal/auth"
)

const (
	// AdminCookieName carries the signed admin session token.
	AdminCookieName = "admin_token"

	// CtxUsernameKey holds the authenticated admin username in request locals.
	CtxUsernameKey = "username"
)

type AuthMiddleware struct {
	jwt auth.Service
}

func NewAuthMiddleware(jwtSvc auth.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware guards the admin surface. The token travels in an HTTP-only
// cookie, not an Authorization header.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AdminCookieName)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Session expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid session")
		}

		c.Locals(CtxUsernameKey, claims.Username)
		return c.Next()
	}
}
