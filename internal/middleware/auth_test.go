package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func claimsFor(id uuid.UUID, role models.Role) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   id.String(),
		"email": "x@example.com",
		"role":  string(role),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := apperr.As(err); ok {
				return c.Status(e.HTTPStatus()).SendString(e.Message)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	cfg := &config.Config{JWTSecret: secret}

	app.Get("/me", JWTProtected(cfg), func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		return c.SendString(p.UserID.String() + " " + string(p.Role))
	})
	app.Delete("/admin", JWTProtected(cfg), AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Post("/owner", JWTProtected(cfg), OwnerRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJWTProtected(t *testing.T) {
	app := newApp()
	id := uuid.New()

	status, body := do(t, app, http.MethodGet, "/me", sign(t, claimsFor(id, models.RoleAdmin), secret))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, id.String()+" ADMIN", body)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "missing", token: "", want: "Access token required"},
		{name: "wrong_key", token: sign(t, claimsFor(id, models.RoleUser), "other"), want: "Invalid or expired token"},
		{name: "expired", token: sign(t, jwt.MapClaims{"sub": id.String(), "role": "USER", "exp": time.Now().Add(-time.Hour).Unix()}, secret), want: "Invalid or expired token"},
		{name: "bad_subject", token: sign(t, jwt.MapClaims{"sub": "nope", "role": "USER"}, secret), want: "Invalid token claims"},
		{name: "bad_role", token: sign(t, jwt.MapClaims{"sub": id.String(), "role": "ROOT"}, secret), want: "Invalid token claims"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodGet, "/me", tt.token)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestRoleGates(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
		want   int
	}{
		{name: "admin_route_user", method: http.MethodDelete, path: "/admin", role: models.RoleUser, want: http.StatusForbidden},
		{name: "admin_route_admin", method: http.MethodDelete, path: "/admin", role: models.RoleAdmin, want: http.StatusOK},
		{name: "admin_route_owner", method: http.MethodDelete, path: "/admin", role: models.RoleOwner, want: http.StatusOK},
		{name: "owner_route_admin", method: http.MethodPost, path: "/owner", role: models.RoleAdmin, want: http.StatusForbidden},
		{name: "owner_route_owner", method: http.MethodPost, path: "/owner", role: models.RoleOwner, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, app, tt.method, tt.path, sign(t, claimsFor(uuid.New(), tt.role), secret))
			assert.Equal(t, tt.want, status)
		})
	}
}
