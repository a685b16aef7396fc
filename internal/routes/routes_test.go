package routes

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"orbit-hr-backend/config"
	"orbit-hr-backend/internal/cache"
	"orbit-hr-backend/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Timezone = "UTC"
	cfg.Auth.JWTSecret = "routes-secret"
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}

	db, err := config.ConnectDB(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	svc, err := NewServices(Deps{DB: db, Config: cfg, Cache: cache.NewMemory(), Log: zerolog.Nop(), UploadDir: t.TempDir()})
	require.NoError(t, err)

	app := fiber.New()
	Setup(app, svc)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, bearer string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, fiber.StatusOK, status, body)
	return body["access_token"].(string)
}

func register(t *testing.T, app *fiber.App, bearer, username, role string) {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/auth/register", bearer, map[string]string{
		"username": username, "password": "Secret123", "fullname": username + " fullname",
		"employee_id": "EMP-" + username, "role": role,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	// first account needs no token and becomes hr_admin
	register(t, app, "", "admin", "")
	admin := login(t, app, "admin", "Secret123")

	status, me := call(t, app, http.MethodGet, "/api/users/me", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, model.RoleHRAdmin, me["role"])

	// later registrations are admin only
	status, _ = call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "intruder", "password": "Secret123", "fullname": "x", "employee_id": "EMP-x",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	register(t, app, admin, "budi", model.RoleEmployee)
	status, _ = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "budi", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAttendanceFlow(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "", "admin", "")
	admin := login(t, app, "admin", "Secret123")
	register(t, app, admin, "budi", model.RoleEmployee)
	budi := login(t, app, "budi", "Secret123")

	status, body := call(t, app, http.MethodPost, "/api/attendance/clock-in", budi, map[string]any{"latitude": -6.2, "longitude": 106.8})
	require.Equal(t, fiber.StatusCreated, status, body)
	id := body["data"].(map[string]any)["id"].(string)

	status, body = call(t, app, http.MethodPost, "/api/attendance/clock-in", budi, map[string]any{"latitude": -6.2, "longitude": 106.8})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, model.AttendanceClockedIn, body["current_status"])

	status, body = call(t, app, http.MethodPost, "/api/attendance/clock-out", budi, map[string]any{"latitude": -6.2, "longitude": 106.8})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "work_description", body["field"])

	status, body = call(t, app, http.MethodPost, "/api/attendance/clock-out", budi, map[string]any{
		"latitude": -6.2, "longitude": 106.8, "work_description": "API review",
	})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, model.AttendanceClockedOut, body["data"].(map[string]any)["status"])

	status, body = call(t, app, http.MethodGet, "/api/attendance/"+id+"/logs", budi, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, _ = call(t, app, http.MethodGet, "/api/attendance/"+id+"/logs", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, "/api/attendance/weekly-stats", budi, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/api/attendance/team/members", budi, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, http.MethodPost, "/api/attendance/auto-clock-out", budi, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = call(t, app, http.MethodPost, "/api/attendance/auto-clock-out", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 0, body["updated_count"])
}

func TestCandidatePipelineAndDashboard(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "", "admin", "")
	admin := login(t, app, "admin", "Secret123")
	register(t, app, admin, "lead", model.RoleTeamLead)
	lead := login(t, app, "lead", "Secret123")

	status, _ := call(t, app, http.MethodPost, "/api/candidates/", lead, map[string]any{"email": "a@example.com"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := call(t, app, http.MethodPost, "/api/candidates/", admin, map[string]any{"email": "Citra@Example.com", "name": "Citra"})
	require.Equal(t, fiber.StatusCreated, status, body)
	id := body["data"].(map[string]any)["id"].(string)

	status, body = call(t, app, http.MethodPut, "/api/candidates/stages", admin, map[string]any{
		"id": []string{id, uuid.NewString()}, "candidate_status": model.StageScreened, "note": "good fit",
	})
	require.Equal(t, fiber.StatusOK, status, body)
	data := body["data"].(map[string]any)
	assert.Len(t, data["updated"], 1)
	assert.Len(t, data["not_found"], 1)

	status, body = call(t, app, http.MethodPut, "/api/candidates/stages", admin, map[string]any{
		"id": []string{id}, "candidate_status": "unknown",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "candidate_status", body["field"])

	status, body = call(t, app, http.MethodGet, "/api/candidates/"+id+"/stages", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)

	// team leads can read the dashboard
	status, body = call(t, app, http.MethodGet, "/api/dashboard/candidate-stages?period=all_time", lead, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	items := body["items"].(map[string]any)
	assert.Equal(t, "all_time", items["period"])
	assert.Len(t, items["buckets"], 1)

	status, body = call(t, app, http.MethodGet, "/api/dashboard/candidate-stages?period=hourly", lead, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "period", body["field"])

	status, _ = call(t, app, http.MethodGet, "/api/reports/candidates.xlsx", lead, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = call(t, app, http.MethodGet, "/api/reports/candidates.xlsx?search=nobody", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No candidate data found for the given filters.", body["error"])
}

func TestCandidateReportDownload(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "", "admin", "")
	admin := login(t, app, "admin", "Secret123")

	status, _ := call(t, app, http.MethodPost, "/api/candidates/", admin, map[string]any{"email": "dewi@example.com"})
	require.Equal(t, fiber.StatusCreated, status)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/candidates.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "candidates_")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "xlsx is a zip archive")
}

func TestDashboardStageDefaults(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "", "admin", "")
	admin := login(t, app, "admin", "Secret123")

	status, body := call(t, app, http.MethodPost, "/api/candidates/", admin, map[string]any{"email": "eka@example.com", "name": "Eka"})
	require.Equal(t, fiber.StatusCreated, status, body)
	id := body["data"].(map[string]any)["id"].(string)
	for _, stage := range []string{model.StageScreened, model.StageCodingTest} {
		status, body = call(t, app, http.MethodPut, "/api/candidates/stages", admin, map[string]any{"id": []string{id}, "candidate_status": stage})
		require.Equal(t, fiber.StatusOK, status, body)
	}

	// period has no default
	status, body = call(t, app, http.MethodGet, "/api/dashboard/candidate-stages", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "period", body["field"])

	// only the latest stage per candidate and bucket unless asked otherwise
	status, body = call(t, app, http.MethodGet, "/api/dashboard/candidate-stages?period=all_time", admin, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	buckets := body["items"].(map[string]any)["buckets"].([]any)
	require.Len(t, buckets, 1)
	assert.Equal(t, map[string]any{model.StageCodingTest: float64(1)}, buckets[0].(map[string]any)["counts"])

	status, body = call(t, app, http.MethodGet, "/api/dashboard/candidate-stages?period=all_time&latest_per_candidate_bucket=false", admin, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	buckets = body["items"].(map[string]any)["buckets"].([]any)
	require.Len(t, buckets, 1)
	assert.Equal(t, map[string]any{
		model.StageApplied:    float64(1),
		model.StageScreened:   float64(1),
		model.StageCodingTest: float64(1),
	}, buckets[0].(map[string]any)["counts"])
}

func TestCandidateUpdateAndImport(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "", "admin", "")
	admin := login(t, app, "admin", "Secret123")

	status, body := call(t, app, http.MethodPost, "/api/candidates/import-template", admin, []map[string]any{
		{"email": "fajar@example.com", "name": "Fajar Nugroho", "detail": map[string]any{"lokasi": "Surabaya", "pengalaman_total": "2 tahun"}},
		{"name": "missing email"},
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["inserted"])
	assert.Equal(t, float64(1), data["skipped"])

	status, body = call(t, app, http.MethodPost, "/api/candidates/import-template", admin, map[string]any{"email": "x@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = call(t, app, http.MethodGet, "/api/candidates/by-email?email=fajar@example.com", admin, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	candidate := body["data"].(map[string]any)
	id := candidate["id"].(string)
	assert.Equal(t, model.StageApplied, candidate["candidate_status"])
	assert.Equal(t, float64(24), candidate["experience_month"])

	status, body = call(t, app, http.MethodPut, "/api/candidates/"+id, admin, map[string]any{"location": "Malang"})
	require.Equal(t, fiber.StatusOK, status, body)
	candidate = body["data"].(map[string]any)
	assert.Equal(t, "Malang", candidate["location"])
	assert.Equal(t, "Fajar Nugroho", candidate["name"])

	status, body = call(t, app, http.MethodPut, "/api/candidates/"+id, admin, map[string]any{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "email", body["field"])

	status, _ = call(t, app, http.MethodPut, "/api/candidates/"+uuid.NewString(), admin, map[string]any{"name": "ghost"})
	assert.Equal(t, fiber.StatusNotFound, status)

	// batch resume upload matches by file name
	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	w, err := zw.Create("fajar_nugroho_cv.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("zip_file", "resumes.zip")
	require.NoError(t, err)
	_, err = part.Write(archive.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/candidates/batch-upload-resumes", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Matched   int `json:"matched"`
			Unmatched int `json:"unmatched"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.Data.Matched)
	assert.Equal(t, 0, out.Data.Unmatched)

	status, body = call(t, app, http.MethodGet, "/api/candidates/"+id, admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["data"].(map[string]any)["cv_file"], "fajar_nugroho_cv.pdf")
}
