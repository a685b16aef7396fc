package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orbit-hr-backend/internal/model"
	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func token(t *testing.T, role, kind string, ttl time.Duration) string {
	t.Helper()
	claims := usecase.Claims{
		UserID: "user-1",
		Role:   role,
		Type:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func whoami(c *fiber.Ctx) error {
	id, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return c.SendString(id + "|" + role)
}

func do(t *testing.T, app *fiber.App, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", Auth(secret), whoami)

	tests := []struct {
		name   string
		bearer string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "not-a-jwt", fiber.StatusUnauthorized},
		{"refresh token", token(t, model.RoleEmployee, usecase.TokenRefresh, time.Hour), fiber.StatusUnauthorized},
		{"expired", token(t, model.RoleEmployee, usecase.TokenAccess, -time.Minute), fiber.StatusUnauthorized},
		{"valid", token(t, model.RoleEmployee, usecase.TokenAccess, time.Hour), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, tt.bearer)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuthRejectsOtherSchemes(t *testing.T) {
	app := fiber.New()
	app.Get("/", Auth(secret), whoami)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic "+token(t, model.RoleEmployee, usecase.TokenAccess, time.Hour))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", OptionalAuth(secret), whoami)

	resp := do(t, app, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, token(t, model.RoleHRAdmin, usecase.TokenAccess, time.Hour))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRoleAndPermission(t *testing.T) {
	app := fiber.New()
	app.Get("/", Auth(secret), Role(model.RoleHRAdmin, model.RoleTeamLead), Permission(model.PermViewReports), whoami)

	assert.Equal(t, fiber.StatusForbidden, do(t, app, token(t, model.RoleEmployee, usecase.TokenAccess, time.Hour)).StatusCode)
	assert.Equal(t, fiber.StatusOK, do(t, app, token(t, model.RoleTeamLead, usecase.TokenAccess, time.Hour)).StatusCode)

	strict := fiber.New()
	strict.Get("/", Auth(secret), Permission(model.PermManageCandidates), whoami)
	assert.Equal(t, fiber.StatusForbidden, do(t, strict, token(t, model.RoleTeamLead, usecase.TokenAccess, time.Hour)).StatusCode)
	assert.Equal(t, fiber.StatusOK, do(t, strict, token(t, model.RoleHRAdmin, usecase.TokenAccess, time.Hour)).StatusCode)
}

func TestRoleWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", Role(model.RoleHRAdmin), whoami)
	assert.Equal(t, fiber.StatusForbidden, do(t, app, "").StatusCode)
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp := do(t, app, "")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	assert.NotEmpty(t, resp.Header.Get("X-Process-Time"))
}
