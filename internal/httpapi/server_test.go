package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/auth"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/config"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/db"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/export"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/metrics"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/service"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/stats"
)

// Wednesday afternoon.
var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gdb, err := db.NewGormDB(&config.DBConfig{Driver: "sqlite", Path: ":memory:"}, gormlogger.Discard)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	_, err = model.Migrate(gdb)
	require.NoError(t, err)

	m, err := metrics.New()
	require.NoError(t, err)
	gate, err := auth.NewGate(config.AuthConfig{Username: "adminuser", Password: "Admin2025!"})
	require.NoError(t, err)

	now := func() time.Time { return fixedNow }
	repos := repository.New(gdb)
	return NewApp(Deps{
		Config: config.HTTPConfig{CORSOrigins: []string{"*"}},
		Services: service.New(repos, service.Options{
			Location: time.UTC,
			Now:      now,
			Recorder: m,
		}),
		Stats:    stats.NewEngine(repos.Usage, repos.Clients, stats.Options{Location: time.UTC, Now: now}),
		Exporter: export.NewExporter(gdb, time.UTC),
		Gate:     gate,
		Metrics:  m,
	})
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	resp, raw := do(t, app, method, path, body)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp.StatusCode, out
}

func TestClientCRUD(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/client", `{"full_name":"  jane   doe","gender":"f"}`)
	require.Equal(t, http.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Jane Doe", data["full_name"])
	assert.EqualValues(t, 1, data["client_id"])

	status, body = doJSON(t, app, http.MethodGet, "/client/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = doJSON(t, app, http.MethodGet, "/client?full_name=jan", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)
	assert.EqualValues(t, 1, body["pagination"].(map[string]any)["total"])

	status, body = doJSON(t, app, http.MethodPatch, "/client/1", `{"nickname":"JD"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "JD", body["data"].(map[string]any)["nickname"])

	status, body = doJSON(t, app, http.MethodGet, "/client/99", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["error_code"])

	status, _ = doJSON(t, app, http.MethodGet, "/client/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/client/1", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodDelete, "/client/1", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWashroomRecords(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"Jane Doe"}`)
	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"John Doe"}`)

	status, body := doJSON(t, app, http.MethodPost, "/washroom_records",
		`{"client_id":1,"washroom_type":"A","time_in":"2025-03-12T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "2025-03-12", body["data"].(map[string]any)["date"])

	status, body = doJSON(t, app, http.MethodPost, "/washroom_records",
		`{"client_id":2,"washroom_type":"A","time_in":"2025-03-12T10:05:00Z"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Washroom A is currently occupied", body["message"])
	assert.Equal(t, "CONFLICT", body["error_code"])

	status, body = doJSON(t, app, http.MethodPost, "/washroom_records",
		`{"client_id":2,"washroom_type":"C","time_in":"2025-03-12T10:05:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "washroom_type")

	status, body = doJSON(t, app, http.MethodPost, "/washroom_records",
		`{"client_id":42,"washroom_type":"B","time_in":"2025-03-12T10:05:00Z"}`)
	assert.Equal(t, http.StatusNotFound, status, body)

	status, _ = doJSON(t, app, http.MethodPost, "/washroom_records", `{`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodGet, "/washroom_records?washroom_type=a&open=1&date=2025-03-12", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = doJSON(t, app, http.MethodGet, "/washroom_records?client_id=2", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 0)

	status, body = doJSON(t, app, http.MethodGet, "/washroom_records?date=12-03-2025", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "date")
}

func TestStatisticsEndpoints(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"Jane Doe","gender":"F"}`)
	doJSON(t, app, http.MethodPost, "/washroom_records",
		`{"client_id":1,"washroom_type":"A","time_in":"2025-03-12T10:00:00Z","time_out":"2025-03-12T10:10:00Z"}`)
	doJSON(t, app, http.MethodPost, "/activity", `{"activity_name":"Art","date":"2025-03-12"}`)
	doJSON(t, app, http.MethodPost, "/client_activity", `{"client_id":1,"activity_id":1,"date":"2025-03-12T11:00:00Z","score":9}`)

	status, body := doJSON(t, app, http.MethodGet, "/api/client-statistics?range=day", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "day", body["range"])
	assert.EqualValues(t, 2, body["total_visitors"])
	assert.EqualValues(t, 1, body["total_clients"])
	assert.Len(t, body["chart_data"], 10)
	assert.Len(t, body["unique_chart_data"], 10)

	status, body = doJSON(t, app, http.MethodGet, "/api/washroom-statistics?range=week", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total_visitors"])
	assert.Len(t, body["chart_data"], 7)

	status, body = doJSON(t, app, http.MethodGet, "/api/department-heatmap?dept=washroom&range=week", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "washroom", body["dept"])
	grid := body["data"].(map[string]any)
	assert.EqualValues(t, 1, grid["Wednesday"].(map[string]any)["10"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/department-heatmap", "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/department-heatmap?dept=kitchen", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/activity-scores?range=day", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 9, body["average_score"])
	assert.EqualValues(t, 1, body["responses"])

	status, body = doJSON(t, app, http.MethodGet, "/api/clients/recent?limit=5&dedupe=1", "")
	require.Equal(t, http.StatusOK, status)
	recent := body["data"].([]any)
	require.Len(t, recent, 1)
	assert.Equal(t, "Jane Doe", recent[0].(map[string]any)["name"])
}

func TestClientLookupAndClean(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"jane doe"}`)
	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"JANE DOE"}`)
	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"John Smith"}`)

	status, body := doJSON(t, app, http.MethodGet, "/api/clients?query=jane", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, body = doJSON(t, app, http.MethodGet, "/api/clients/suggest?query=", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 0)

	status, body = doJSON(t, app, http.MethodPost, "/data_clean/client", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["data"].(map[string]any)["removed"])

	_, body = doJSON(t, app, http.MethodGet, "/api/clients?query=jane", "")
	assert.Len(t, body["data"], 1)
}

func TestExportEndpoint(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"Jane Doe"}`)

	resp, raw := do(t, app, http.MethodGet, "/export/client", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "client.xlsx")
	assert.NotEmpty(t, raw)

	status, _ := doJSON(t, app, http.MethodGet, "/export/users", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doJSON(t, app, http.MethodGet, "/export/clinic_records", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/login", `{"username":"adminuser","password":"Admin2025!"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = doJSON(t, app, http.MethodPost, "/api/login", `{"username":"adminuser","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
}

func TestHealthMetricsAndRequestID(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	doJSON(t, app, http.MethodPost, "/client", `{"full_name":"Jane Doe"}`)

	resp, raw := do(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(raw)
	assert.Contains(t, text, "backdoor_http_requests_total")
	assert.Contains(t, text, `backdoor_records_created_total{service="client"} 1`)
}
