package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		key    string
		value  string
	}{
		{"validation", &usecase.ValidationError{Field: "period", Message: "bad period"}, fiber.StatusBadRequest, "field", "period"},
		{"conflict", &usecase.StateConflictError{Current: "clocked_out", Message: "Already clocked out"}, fiber.StatusBadRequest, "current_status", "clocked_out"},
		{"not found", fmt.Errorf("attendance 42: %w", usecase.ErrNotFound), fiber.StatusNotFound, "", ""},
		{"forbidden", usecase.ErrForbidden, fiber.StatusForbidden, "error", "Not authorized"},
		{"unauthorized", usecase.ErrUnauthorized, fiber.StatusUnauthorized, "", ""},
		{"internal", errors.New("disk on fire"), fiber.StatusInternalServerError, "error", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp)
			assert.NotEmpty(t, body["error"])
			if tt.key != "" {
				assert.Equal(t, tt.value, body[tt.key])
			}
		})
	}
}

func TestBindReportsJSONFieldNames(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req usecase.PermissionInput
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"permission_date":"16-07-2025","category":"sick","description":"flu"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "permission_date", decode(t, resp)["field"])

	resp = post(`{"permission_date":"2025-07-16","category":"holiday","description":"beach"}`)
	body := decode(t, resp)
	assert.Equal(t, "category", body["field"])
	assert.Contains(t, body["error"], "sick leave personal other")

	resp = post(`{not json`)
	assert.Equal(t, "body", decode(t, resp)["field"])

	resp = post(`{"permission_date":"2025-07-16","category":"sick","description":"flu"}`)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
