package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"chessyui/config"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	ChessyTimeoutSec     = 30
	ChessyUserAgent      = "chessyui/1.0 (Chessy UI Gateway)"
	RequestedWithHeader  = "X-Requested-With"
	RequestedWithAjax    = "XMLHttpRequest"
	maxErrorBodyBytes    = 4 * 1024
	backendStatusSuccess = "success"
)

// ErrRedirected is returned when the backend answers with a redirect instead of a
// JSON body. The redirect target is not followed.
var ErrRedirected = errors.New("backend redirected the request")

// ChessyService is the HTTP client for the Chessy backend.
type ChessyService struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        logger.Logger
}

func NewChessyService(cfg config.Config) (*ChessyService, error) {
	log := logger.New("chessyService")

	baseURL, err := url.Parse(strings.TrimRight(cfg.BackendURL, "/"))
	if err != nil {
		return nil, log.Function("NewChessyService").Err("invalid backend url", err, "url", cfg.BackendURL)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, log.Function("NewChessyService").Error("backend url must be absolute", "url", cfg.BackendURL)
	}

	// The backend keeps the theme in its session cookie.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, log.Function("NewChessyService").Err("failed to create cookie jar", err)
	}

	httpClient := &http.Client{
		Jar:     jar,
		Timeout: time.Duration(ChessyTimeoutSec) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
			MaxConnsPerHost: 10,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &ChessyService{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}, nil
}

func (s *ChessyService) BaseURL() string {
	return s.baseURL.String()
}

func (s *ChessyService) FetchEcoTable(ctx context.Context) (*EcoTable, error) {
	log := s.log.Function("FetchEcoTable").TraceFromContext(ctx)

	table := &EcoTable{}
	if err := s.getJSON(ctx, "/api/eco/all", table); err != nil {
		return nil, log.Err("failed to fetch eco table", err)
	}
	return table, nil
}

func (s *ChessyService) GetTaskStatus(ctx context.Context) (types.TaskStatusReport, error) {
	log := s.log.Function("GetTaskStatus").TraceFromContext(ctx)

	var report types.TaskStatusReport
	if err := s.getJSON(ctx, "/api/task_status", &report); err != nil {
		return nil, log.Err("failed to fetch task status", err)
	}
	if report == nil {
		report = types.TaskStatusReport{}
	}
	return report, nil
}

func (s *ChessyService) GetNotifications(ctx context.Context) ([]types.Notification, error) {
	log := s.log.Function("GetNotifications").TraceFromContext(ctx)

	var notifications []types.Notification
	if err := s.getJSON(ctx, "/api/notifications", &notifications); err != nil {
		return nil, log.Err("failed to fetch notifications", err)
	}
	return notifications, nil
}

func (s *ChessyService) ToggleTheme(ctx context.Context) (types.Theme, error) {
	log := s.log.Function("ToggleTheme").TraceFromContext(ctx)

	var response struct {
		Theme string `json:"theme"`
	}
	resp, err := s.postJSON(ctx, "/api/toggle_theme", nil, false)
	if err != nil {
		return "", log.Err("failed to toggle theme", err)
	}
	if err := decodeResponse(resp, &response); err != nil {
		return "", log.Err("failed to decode theme response", err)
	}

	return themeFromBackend(response.Theme), nil
}

// SubmitDownload posts the filter selection to the download endpoint. A redirect
// is reported as types.ActionRedirected with the target URL.
func (s *ChessyService) SubmitDownload(
	ctx context.Context,
	filters types.FilterSelection,
) (types.ActionResult, error) {
	log := s.log.Function("SubmitDownload").TraceFromContext(ctx)

	resp, err := s.postJSON(ctx, "/download", types.DownloadRequest{Filters: filters}, true)
	if err != nil {
		return types.ActionResult{}, log.Err("failed to submit download", err)
	}

	if location, ok := redirectLocation(resp); ok {
		closeBody(resp, log)
		log.Info("Download redirected", "location", location)
		return types.ActionResult{
			Status:      types.ActionRedirected,
			RedirectURL: s.resolve(location),
		}, nil
	}

	result, err := decodeActionResult(resp)
	if err != nil {
		return types.ActionResult{}, log.Err("failed to decode download response", err)
	}
	return result, nil
}

func (s *ChessyService) ClearHistory(ctx context.Context) (types.ActionResult, error) {
	log := s.log.Function("ClearHistory").TraceFromContext(ctx)

	resp, err := s.postJSON(ctx, "/api/clear_history", nil, true)
	if err != nil {
		return types.ActionResult{}, log.Err("failed to clear history", err)
	}

	result, err := decodeActionResult(resp)
	if err != nil {
		return types.ActionResult{}, log.Err("failed to decode clear history response", err)
	}
	return result, nil
}

func (s *ChessyService) ExportRawGames(
	ctx context.Context,
	format types.ExportFormat,
) (types.ExportResponse, error) {
	log := s.log.Function("ExportRawGames").TraceFromContext(ctx)

	resp, err := s.postJSON(ctx, "/api/export_raw_games", map[string]string{"format": string(format)}, true)
	if err != nil {
		return types.ExportResponse{}, log.Err("failed to request export", err, "format", format)
	}

	var response types.ExportResponse
	if err := decodeBody(resp, &response); err != nil {
		return types.ExportResponse{}, log.Err("failed to decode export response", err, "format", format)
	}
	return response, nil
}

// DownloadFile streams the resource at rawURL into w. Relative URLs are resolved
// against the backend base URL.
func (s *ChessyService) DownloadFile(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	log := s.log.Function("DownloadFile").TraceFromContext(ctx)

	target := s.resolve(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, log.Err("failed to create download request", err, "url", target)
	}
	req.Header.Set("User-Agent", ChessyUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, log.Err("failed to download file", err, "url", target)
	}
	defer closeBody(resp, log)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, log.Err("download failed", statusError(resp), "url", target)
	}

	written, err := io.Copy(w, resp.Body)
	if err != nil {
		return written, log.Err("failed to write downloaded file", err, "url", target)
	}

	log.Info("File downloaded", "url", target, "bytes", written)
	return written, nil
}

func (s *ChessyService) GetTaskHistory(
	ctx context.Context,
	kind types.TaskKind,
) ([]types.TaskHistoryEntry, error) {
	log := s.log.Function("GetTaskHistory").TraceFromContext(ctx)

	var history []types.TaskHistoryEntry
	if err := s.getJSON(ctx, "/api/task_history/"+url.PathEscape(string(kind)), &history); err != nil {
		return nil, log.Err("failed to fetch task history", err, "kind", kind)
	}
	return history, nil
}

func (s *ChessyService) CancelTask(ctx context.Context, kind types.TaskKind) (types.ActionResult, error) {
	log := s.log.Function("CancelTask").TraceFromContext(ctx)

	resp, err := s.postJSON(ctx, "/api/cancel_task/"+url.PathEscape(string(kind)), nil, true)
	if err != nil {
		return types.ActionResult{}, log.Err("failed to cancel task", err, "kind", kind)
	}

	result, err := decodeActionResult(resp)
	if err != nil {
		return types.ActionResult{}, log.Err("failed to decode cancel response", err, "kind", kind)
	}
	return result, nil
}

func (s *ChessyService) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.resolve(path), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", ChessyUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	return decodeResponse(resp, out)
}

func (s *ChessyService) postJSON(ctx context.Context, path string, body any, ajax bool) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", ChessyUserAgent)
	if ajax {
		req.Header.Set(RequestedWithHeader, RequestedWithAjax)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	return resp, nil
}

func (s *ChessyService) resolve(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	if strings.HasPrefix(ref, "/") {
		return s.baseURL.ResolveReference(&url.URL{Path: s.baseURL.Path + parsed.Path, RawQuery: parsed.RawQuery}).String()
	}
	return s.baseURL.ResolveReference(parsed).String()
}

// decodeResponse requires a 2xx answer and decodes its JSON body.
func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	if _, ok := redirectLocation(resp); ok {
		return ErrRedirected
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeBody decodes a JSON body whatever the status code. Form endpoints answer
// errors with {status, message} and a 4xx/5xx code.
func decodeBody(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	if _, ok := redirectLocation(resp); ok {
		return ErrRedirected
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeActionResult(resp *http.Response) (types.ActionResult, error) {
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := decodeBody(resp, &body); err != nil {
		return types.ActionResult{}, err
	}

	message := body.Message
	if message == "" {
		message = body.Error
	}

	switch types.ActionStatus(body.Status) {
	case types.ActionSuccess:
		return types.ActionResult{Status: types.ActionSuccess, Message: message}, nil
	case types.ActionWarning:
		return types.ActionResult{Status: types.ActionWarning, Message: message}, nil
	default:
		return types.ActionResult{Status: types.ActionError, Message: message}, nil
	}
}

func redirectLocation(resp *http.Response) (string, bool) {
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return "", false
	}
	location := resp.Header.Get("Location")
	return location, location != ""
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	message := strings.TrimSpace(string(body))
	if message == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, message)
}

func closeBody(resp *http.Response, log logger.Logger) {
	if err := resp.Body.Close(); err != nil {
		log.Warn("failed to close response body", "error", err)
	}
}

// themeFromBackend maps the backend's theme names onto ours. The backend calls
// dark mode "dark-mode".
func themeFromBackend(theme string) types.Theme {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "dark", "dark-mode":
		return types.ThemeDark
	default:
		return types.ThemeLight
	}
}
