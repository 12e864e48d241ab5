package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"hireflow/internal/auth"
)

func newProtectedApp(t *testing.T, jwtSvc auth.Service) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/admin/ping", NewAuthMiddleware(jwtSvc).Middleware(), func(c *fiber.Ctx) error {
		username, _ := c.Locals(CtxUsernameKey).(string)
		return c.SendString(username)
	})
	return app
}

func TestAuthMiddlewareRejectsMissingCookie(t *testing.T) {
	app := newProtectedApp(t, auth.NewHMACService("test-secret", time.Hour))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	app := newProtectedApp(t, auth.NewHMACService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: "not-a-token"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	jwtSvc := auth.NewHMACService("test-secret", time.Hour)
	app := newProtectedApp(t, jwtSvc)

	token, err := jwtSvc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "admin" {
		t.Fatalf("body = %q, want the username from the token", body)
	}
}
