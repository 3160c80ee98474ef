package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chessyui/config"
	"chessyui/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChessy(t *testing.T, handler http.Handler) *ChessyService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := NewChessyService(config.Config{BackendURL: server.URL})
	require.NoError(t, err)
	return service
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNewChessyService_InvalidURL(t *testing.T) {
	_, err := NewChessyService(config.Config{BackendURL: "localhost:5000"})
	assert.Error(t, err)

	_, err = NewChessyService(config.Config{BackendURL: "://bad"})
	assert.Error(t, err)

	service, err := NewChessyService(config.Config{BackendURL: "http://localhost:5000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", service.BaseURL())
}

func TestChessyService_FetchEcoTable(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/eco/all", r.URL.Path)
		assert.Equal(t, ChessyUserAgent, r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `{"C00":"French Defense","B20":"Sicilian Defense"}`)
	}))

	table, err := service.FetchEcoTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []EcoEntry{
		{Code: "C00", Description: "French Defense"},
		{Code: "B20", Description: "Sicilian Defense"},
	}, table.Entries())
}

func TestChessyService_FetchEcoTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: "unexpected status 500: boom",
		},
		{
			name: "not an object",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `["C00"]`)
			},
			wantErr: "eco table must be a JSON object",
		},
		{
			name: "redirect",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/login", http.StatusFound)
			},
			wantErr: ErrRedirected.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestChessy(t, tt.handler)
			table, err := service.FetchEcoTable(context.Background())
			assert.Nil(t, table)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestChessyService_GetTaskStatus(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/task_status", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"download": {"running": true, "status": "Fetching", "percentage": 40, "current": 4, "total": 10, "elapsed_seconds": 75},
			"analyze": {"running": false, "status": null, "percentage": 0, "current": 0, "total": 0, "elapsed_seconds": 0}
		}`)
	}))

	report, err := service.GetTaskStatus(context.Background())
	require.NoError(t, err)

	download := report[types.TaskKindDownload]
	assert.True(t, download.Running)
	assert.Equal(t, "Fetching", download.StatusText())
	assert.Equal(t, 4, download.Current)
	assert.InDelta(t, 75, download.ElapsedSeconds, 0.001)
	assert.Equal(t, "Processing...", report[types.TaskKindAnalyze].StatusText())
	assert.Equal(t, []types.TaskKind{types.TaskKindDownload}, report.Running())
}

func TestChessyService_GetTaskStatus_Null(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `null`)
	}))

	report, err := service.GetTaskStatus(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Empty(t, report.Running())
}

func TestChessyService_GetNotifications(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []types.Notification{
			{Type: types.NotificationSuccess, Title: types.AnalysisCompleteTitle, Message: "12 games"},
		})
	}))

	notifications, err := service.GetNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].IsSuccess(types.AnalysisCompleteTitle))
}

func TestChessyService_ToggleTheme(t *testing.T) {
	tests := []struct {
		backend string
		want    types.Theme
	}{
		{"dark-mode", types.ThemeDark},
		{"dark", types.ThemeDark},
		{"light", types.ThemeLight},
		{"", types.ThemeLight},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/toggle_theme", r.URL.Path)
				assert.Empty(t, r.Header.Get(RequestedWithHeader))
				writeJSON(t, w, http.StatusOK, map[string]string{"theme": tt.backend})
			}))

			theme, err := service.ToggleTheme(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, theme)
		})
	}
}

// sessionThemeBackend keeps the theme in a cookie, the way the backend stores it
// in the user's session.
func sessionThemeBackend(t *testing.T, saved *[]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := "dark-mode"
		if cookie, err := r.Cookie("theme"); err == nil && cookie.Value == "dark-mode" {
			theme = "light"
		}
		*saved = append(*saved, theme)
		http.SetCookie(w, &http.Cookie{Name: "theme", Value: theme, Path: "/"})
		writeJSON(t, w, http.StatusOK, map[string]string{"theme": theme})
	})
}

func TestChessyService_ToggleThemeKeepsSession(t *testing.T) {
	var saved []string
	service := newTestChessy(t, sessionThemeBackend(t, &saved))
	themes := NewThemeService(service, nil)

	var local []types.Theme
	for i := 0; i < 3; i++ {
		local = append(local, themes.Toggle(context.Background()))
		themes.Wait()
	}

	assert.Equal(t, []types.Theme{types.ThemeDark, types.ThemeLight, types.ThemeDark}, local)
	assert.Equal(t, []string{"dark-mode", "light", "dark-mode"}, saved)
	assert.Equal(t, types.ThemeDark, themes.Current())
}

func TestChessyService_SubmitDownload(t *testing.T) {
	var received types.DownloadRequest
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/download", r.URL.Path)
		assert.Equal(t, RequestedWithAjax, r.Header.Get(RequestedWithHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "success", "message": "Download started"})
	}))

	filters := types.FilterSelection{
		DateRange:   types.DateRangeCustom,
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-31",
		TimeControl: "blitz",
	}
	result, err := service.SubmitDownload(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, types.ActionResult{Status: types.ActionSuccess, Message: "Download started"}, result)
	assert.Equal(t, filters, received.Filters)
}

func TestChessyService_SubmitDownload_Results(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    types.ActionResult
	}{
		{
			name: "warning",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]string{"status": "warning", "message": "Already running"})
			},
			want: types.ActionResult{Status: types.ActionWarning, Message: "Already running"},
		},
		{
			name: "error with message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, http.StatusBadRequest, map[string]string{"status": "error", "message": "Bad dates"})
			},
			want: types.ActionResult{Status: types.ActionError, Message: "Bad dates"},
		},
		{
			name: "error field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, http.StatusInternalServerError, map[string]string{"error": "db locked"})
			},
			want: types.ActionResult{Status: types.ActionError, Message: "db locked"},
		},
		{
			name: "redirect",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/games?page=1", http.StatusSeeOther)
			},
			want: types.ActionResult{Status: types.ActionRedirected},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			service, err := NewChessyService(config.Config{BackendURL: server.URL})
			require.NoError(t, err)

			result, err := service.SubmitDownload(context.Background(), types.FilterSelection{})
			require.NoError(t, err)

			want := tt.want
			if want.Status == types.ActionRedirected {
				want.RedirectURL = server.URL + "/games?page=1"
			}
			assert.Equal(t, want, result)
		})
	}
}

func TestChessyService_SubmitDownload_NonJSONError(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "<html>oops</html>", http.StatusBadGateway)
	}))

	_, err := service.SubmitDownload(context.Background(), types.FilterSelection{})
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestChessyService_ClearHistory(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/clear_history", r.URL.Path)
		assert.Equal(t, RequestedWithAjax, r.Header.Get(RequestedWithHeader))
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "success", "message": "History cleared"})
	}))

	result, err := service.ClearHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ActionSuccess, result.Status)
	assert.Equal(t, "History cleared", result.Message)
}

func TestChessyService_ExportRawGames(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export_raw_games", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "csv", body["format"])
		writeJSON(t, w, http.StatusOK, types.ExportResponse{
			Status:      "success",
			DownloadURL: "/exports/games.csv",
			Filename:    "games.csv",
		})
	}))

	response, err := service.ExportRawGames(context.Background(), types.ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "/exports/games.csv", response.DownloadURL)
	assert.Equal(t, "games.csv", response.Filename)
}

func TestChessyService_ExportRawGames_ErrorBody(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, types.ExportResponse{Status: "error", Message: "No games"})
	}))

	response, err := service.ExportRawGames(context.Background(), types.ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, "error", response.Status)
	assert.Equal(t, "No games", response.Message)
}

func TestChessyService_DownloadFile(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/exports/games.csv":
			_, _ = io.WriteString(w, "white,black\nme,you\n")
		default:
			http.NotFound(w, r)
		}
	}))

	var buf bytes.Buffer
	written, err := service.DownloadFile(context.Background(), "/exports/games.csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), written)
	assert.Equal(t, "white,black\nme,you\n", buf.String())

	_, err = service.DownloadFile(context.Background(), "/exports/missing.csv", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unexpected status 404")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestChessyService_DownloadFile_WriteError(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "data")
	}))

	_, err := service.DownloadFile(context.Background(), "/exports/games.json", failingWriter{})
	assert.ErrorContains(t, err, "disk full")
}

func TestChessyService_TaskHistoryAndCancel(t *testing.T) {
	service := newTestChessy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/task_history/analyze":
			writeJSON(t, w, http.StatusOK, []types.TaskHistoryEntry{
				{Timestamp: "2024-05-01T10:00:00", Status: "done", ElapsedSeconds: 12.5, Success: true},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/cancel_task/download":
			assert.Equal(t, RequestedWithAjax, r.Header.Get(RequestedWithHeader))
			writeJSON(t, w, http.StatusOK, map[string]string{"status": "success", "message": "Cancelled"})
		default:
			http.NotFound(w, r)
		}
	}))

	history, err := service.GetTaskHistory(context.Background(), types.TaskKindAnalyze)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)

	result, err := service.CancelTask(context.Background(), types.TaskKindDownload)
	require.NoError(t, err)
	assert.Equal(t, types.ActionResult{Status: types.ActionSuccess, Message: "Cancelled"}, result)
}

func TestChessyService_Resolve(t *testing.T) {
	service, err := NewChessyService(config.Config{BackendURL: "http://chessy.local:5000/app"})
	require.NoError(t, err)

	assert.Equal(t, "http://chessy.local:5000/app/api/task_status", service.resolve("/api/task_status"))
	assert.Equal(t, "http://cdn.local/games.csv", service.resolve("http://cdn.local/games.csv"))
	assert.Equal(t, "http://chessy.local:5000/app/download?x=1", service.resolve("/download?x=1"))
}

func TestThemeFromBackend(t *testing.T) {
	assert.Equal(t, types.ThemeDark, themeFromBackend(" Dark-Mode "))
	assert.Equal(t, types.ThemeLight, themeFromBackend("light-mode"))
}
