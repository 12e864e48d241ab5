package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"

	"hireflow/internal/auth"
	"hireflow/internal/middleware"
	"hireflow/internal/models"
)

type AuthHandler struct {
	jwtService    auth.Service
	adminUsername string
	adminPassword string
	tokenTTL      time.Duration
	secureCookie  bool
}

func NewAuthHandler(jwtService auth.Service, adminUsername, adminPassword string, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		jwtService:    jwtService,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		tokenTTL:      tokenTTL,
		secureCookie:  secureCookie,
	}
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) == 1
	if !userOK || !passOK {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := h.jwtService.GenerateToken(req.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message":  "Logged in",
		"username": req.Username,
	})
}

// HandleLogout handles POST /auth/logout
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// HandleMe handles GET /auth/me (behind auth middleware)
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	username, _ := c.Locals(middleware.CtxUsernameKey).(string)
	return c.JSON(fiber.Map{
		"username": username,
	})
}
