package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chessyui/config"
	"chessyui/internal/app"
	"chessyui/internal/handlers/middleware"
	"chessyui/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGateway struct {
	fiber       *fiber.App
	app         *app.App
	downloadDir string
}

// newTestGateway wires the real app against a fake Chessy backend with no
// database or cache configured.
func newTestGateway(t *testing.T, backend http.Handler) *testGateway {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	downloadDir := t.TempDir()
	gateway, err := app.NewWithConfig(config.Config{
		GeneralVersion:    "test",
		ServerPort:        8290,
		BackendURL:        server.URL,
		PollIntervalMS:    2000,
		NotificationTTLMS: 5000,
		ReloadDelayMS:     2000,
		EcoSource:         config.EcoSourceStatic,
		DownloadDir:       downloadDir,
		CorsAllowOrigins:  "*",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = gateway.Close() })

	fiberApp := fiber.New()
	require.NoError(t, Router(fiberApp, gateway))

	return &testGateway{fiber: fiberApp, app: gateway, downloadDir: downloadDir}
}

func (g *testGateway) do(t *testing.T, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.fiber.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func backendMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		var body types.DownloadRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Filters.TimeControl == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"status":"error","message":"Unsupported time control"}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":"success","message":"Download started"}`)
	})
	mux.HandleFunc("/api/clear_history", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success"}`)
	})
	mux.HandleFunc("/api/export_raw_games", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["format"] == "excel" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"status":"error","message":"No games to export"}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":"success","download_url":"/files/games.csv","filename":"games.csv"}`)
	})
	mux.HandleFunc("/files/games.csv", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "white,black\n")
	})
	mux.HandleFunc("/api/task_history/analyze", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"timestamp":"2024-05-01T10:00:00","status":"done","elapsed_seconds":3,"success":true}]`)
	})
	mux.HandleFunc("/api/task_history/download", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/cancel_task/download", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","message":"Cancelled"}`)
	})
	mux.HandleFunc("/api/toggle_theme", func(w http.ResponseWriter, r *http.Request) {
		theme := "dark-mode"
		if cookie, err := r.Cookie("theme"); err == nil && cookie.Value == "dark-mode" {
			theme = "light"
		}
		http.SetCookie(w, &http.Cookie{Name: "theme", Value: theme, Path: "/"})
		_, _ = io.WriteString(w, `{"theme":"`+theme+`"}`)
	})
	return mux
}

func TestHealth(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.TraceIDHeader))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "chessyui", body["service"])
	assert.Equal(t, "static", body["ecoSource"])
	assert.Equal(t, false, body["database"])
	assert.Equal(t, false, body["scheduler"])
}

func TestTraceIDIsEchoed(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.TraceIDHeader, "trace-123")
	resp, err := gateway.fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(middleware.TraceIDHeader))
}

func TestUIState(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodGet, "/api/ui/state", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "light", body["theme"])

	indicator := body["indicator"].(map[string]any)
	assert.Equal(t, false, indicator["active"])
	assert.NotContains(t, indicator, "emptyMessage", "no poll has run yet")

	gateway.app.Services.Indicator.ApplyTaskStatus(types.TaskStatusReport{})

	_, body = gateway.do(t, http.MethodGet, "/api/ui/state", "")
	indicator = body["indicator"].(map[string]any)
	assert.Equal(t, false, indicator["active"])
	assert.Equal(t, types.EmptyTaskListMessage, indicator["emptyMessage"])
}

func TestPanel(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	_, body := gateway.do(t, http.MethodPost, "/api/ui/panel/toggle", "")
	assert.Equal(t, true, body["indicator"].(map[string]any)["panelOpen"])

	_, body = gateway.do(t, http.MethodPost, "/api/ui/panel/close", "")
	assert.Equal(t, false, body["indicator"].(map[string]any)["panelOpen"])
}

func TestDismissNotification(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, _ := gateway.do(t, http.MethodPost, "/api/ui/notifications/abc/dismiss", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := gateway.do(t, http.MethodPost, "/api/ui/notifications/42/dismiss", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Notification not found", body["error"])
}

func TestNotificationHistoryWithoutDatabase(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodGet, "/api/ui/notifications/history?limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["notifications"])
}

func TestToggleTheme(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodPost, "/api/ui/theme", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dark", body["theme"])

	gateway.app.Services.Theme.Wait()
	assert.Equal(t, types.ThemeDark, gateway.app.Services.Theme.Current())
}

func TestRefreshWithoutScheduler(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodPost, "/api/ui/refresh", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Task polling is not running", body["error"])
}

func TestEco(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodGet, "/api/ui/eco/b20", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "B20", body["normalized"])
	assert.Equal(t, "Sicilian Defense", body["description"])

	_, body = gateway.do(t, http.MethodGet, "/api/ui/eco/B2X?cached=true", "")
	assert.Equal(t, true, body["cached"])
	assert.Contains(t, body["description"], "(similar)")

	resp, body = gateway.do(t, http.MethodGet, "/api/ui/eco", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sicilian Defense", body["B20"])

	_, body = gateway.do(t, http.MethodPost, "/api/ui/eco/refresh", "")
	assert.Greater(t, body["entries"], float64(0))
}

func TestFilters(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodGet, "/api/ui/filters/defaults", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "last7", body["dateRange"])
	assert.Equal(t, "all", body["timeControl"])

	resp, body = gateway.do(t, http.MethodGet, "/api/ui/filters/range?dateRange=custom&startDate=2024-01-01&endDate=2024-01-31", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["showCustomFields"])
	assert.Equal(t, "2024-01-01", body["startDate"])

	resp, _ = gateway.do(t, http.MethodGet, "/api/ui/filters/range?dateRange=fortnight", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = gateway.do(t, http.MethodGet, "/api/ui/time_control?value=180%2B2", "")
	assert.Equal(t, "3min +2sec", body["display"])
}

func TestDownload(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodPost, "/api/ui/download", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.True(t, gateway.app.Services.Indicator.HasData())

	resp, body = gateway.do(t, http.MethodPost, "/api/ui/download", `{"filters":{"timeControl":"bad"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unsupported time control", body["message"])

	resp, _ = gateway.do(t, http.MethodPost, "/api/ui/download", `{"filters":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClearHistory(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))
	gateway.app.Services.Indicator.SetHasData(true)

	resp, body := gateway.do(t, http.MethodPost, "/api/ui/clear_history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Games history cleared successfully", body["message"])
	assert.False(t, gateway.app.Services.Indicator.HasData())
}

func TestExport(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodPost, "/api/ui/export", `{"format":"csv"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "games.csv", body["filename"])

	content, err := os.ReadFile(filepath.Join(gateway.downloadDir, "games.csv"))
	require.NoError(t, err)
	assert.Equal(t, "white,black\n", string(content))

	resp, body = gateway.do(t, http.MethodGet, "/api/ui/exports", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["exports"], 1)

	resp, body = gateway.do(t, http.MethodPost, "/api/ui/export", `{"format":"excel"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "No games to export", body["error"])

	resp, _ = gateway.do(t, http.MethodPost, "/api/ui/export", `{"format":"pgn"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTasks(t *testing.T) {
	gateway := newTestGateway(t, backendMux(t))

	resp, body := gateway.do(t, http.MethodGet, "/api/ui/task_history/analyze", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["history"], 1)

	resp, _ = gateway.do(t, http.MethodGet, "/api/ui/task_history/download", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp, _ = gateway.do(t, http.MethodGet, "/api/ui/task_history/sync", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = gateway.do(t, http.MethodPost, "/api/ui/cancel_task/download", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cancelled", body["message"])
}

func TestActionStatusCode(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, actionStatusCode(types.ActionResult{Status: types.ActionError}))
	assert.Equal(t, fiber.StatusOK, actionStatusCode(types.ActionResult{Status: types.ActionWarning}))
	assert.Equal(t, fiber.StatusOK, actionStatusCode(types.ActionResult{Status: types.ActionRedirected}))
}
