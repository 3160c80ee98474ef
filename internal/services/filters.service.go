package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chessyui/config"
	"chessyui/internal/types"
	"chessyui/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	GenericDownloadError     = "An error occurred while fetching games."
	GenericClearHistoryError = "An error occurred while clearing games history."
	DefaultTimeControl       = "all"
	exportFilenamePrefix     = "games_export"
)

var (
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrExportRejected      = errors.New("export rejected")
)

type FilterBackend interface {
	SubmitDownload(ctx context.Context, filters types.FilterSelection) (types.ActionResult, error)
	ClearHistory(ctx context.Context) (types.ActionResult, error)
	ExportRawGames(ctx context.Context, format types.ExportFormat) (types.ExportResponse, error)
	DownloadFile(ctx context.Context, rawURL string, w io.Writer) (int64, error)
}

// DataState is the part of the indicator the filter form drives.
type DataState interface {
	SetHasData(hasData bool)
	ReloadNow()
}

type FiltersService struct {
	backend     FilterBackend
	data        DataState
	downloadDir string
	now         func() time.Time
	log         logger.Logger
}

func NewFiltersService(cfg config.Config, backend FilterBackend, data DataState) *FiltersService {
	return &FiltersService{
		backend:     backend,
		data:        data,
		downloadDir: cfg.DownloadDir,
		now:         time.Now,
		log:         logger.New("filtersService"),
	}
}

// SelectDateRange resolves a date range choice into form dates.
func (s *FiltersService) SelectDateRange(
	dateRange types.DateRange,
	startDate, endDate string,
) (types.DateRangeSelection, error) {
	return utils.ResolveDateRange(dateRange, s.now(), startDate, endDate)
}

// DefaultSelection is the form state on first render.
func (s *FiltersService) DefaultSelection() types.FilterSelection {
	selection := utils.DefaultDateRange(s.now())
	return types.FilterSelection{
		DateRange:   selection.DateRange,
		StartDate:   selection.StartDate,
		EndDate:     selection.EndDate,
		TimeControl: DefaultTimeControl,
	}
}

// SubmitDownload starts a game download with the given filters. Every failure is
// folded into an error result carrying the server message or a generic one.
func (s *FiltersService) SubmitDownload(ctx context.Context, filters types.FilterSelection) types.ActionResult {
	log := s.log.Function("SubmitDownload").TraceFromContext(ctx)

	filters = s.completeFilters(filters)

	result, err := s.backend.SubmitDownload(ctx, filters)
	if err != nil {
		log.Er("Download request failed", err, "dateRange", filters.DateRange)
		return types.ActionResult{Status: types.ActionError, Message: GenericDownloadError}
	}

	switch result.Status {
	case types.ActionSuccess:
		log.Info("Download started", "dateRange", filters.DateRange, "timeControl", filters.TimeControl)
		if s.data != nil {
			s.data.SetHasData(true)
		}
	case types.ActionRedirected:
		log.Info("Download redirected", "location", result.RedirectURL)
	case types.ActionError:
		if result.Message == "" {
			result.Message = GenericDownloadError
		}
		log.Warn("Download rejected", "message", result.Message)
	}

	return result
}

func (s *FiltersService) completeFilters(filters types.FilterSelection) types.FilterSelection {
	if filters.DateRange == "" {
		filters.DateRange = types.DateRangeLast7
	}
	if filters.TimeControl == "" {
		filters.TimeControl = DefaultTimeControl
	}
	if filters.DateRange != types.DateRangeCustom && filters.StartDate == "" && filters.EndDate == "" {
		if selection, err := s.SelectDateRange(filters.DateRange, "", ""); err == nil {
			filters.StartDate = selection.StartDate
			filters.EndDate = selection.EndDate
		}
	}
	return filters
}

// ClearHistory wipes the downloaded games on the backend. On success the data
// flag is cleared and browsers reload.
func (s *FiltersService) ClearHistory(ctx context.Context) types.ActionResult {
	log := s.log.Function("ClearHistory").TraceFromContext(ctx)

	result, err := s.backend.ClearHistory(ctx)
	if err != nil {
		log.Er("Clear history request failed", err)
		return types.ActionResult{Status: types.ActionError, Message: GenericClearHistoryError}
	}

	if result.Status != types.ActionSuccess {
		if result.Message == "" {
			result.Message = GenericClearHistoryError
		}
		log.Warn("Clear history rejected", "message", result.Message)
		return result
	}

	if result.Message == "" {
		result.Message = "Games history cleared successfully"
	}
	if s.data != nil {
		s.data.SetHasData(false)
		s.data.ReloadNow()
	}
	log.Info("Games history cleared")
	return result
}

// Export asks the backend for an export and saves the generated file into the
// download directory.
func (s *FiltersService) Export(ctx context.Context, format types.ExportFormat) (types.ExportResult, error) {
	log := s.log.Function("Export").TraceFromContext(ctx)

	format = types.ExportFormat(strings.ToLower(string(format)))
	if !format.Valid() {
		return types.ExportResult{}, fmt.Errorf("%w: %q", ErrInvalidExportFormat, format)
	}

	response, err := s.backend.ExportRawGames(ctx, format)
	if err != nil {
		return types.ExportResult{}, log.Err("export request failed", err, "format", format)
	}

	if response.Status != backendStatusSuccess || response.DownloadURL == "" {
		message := response.Message
		if message == "" {
			message = fmt.Sprintf("Error exporting to %s", format)
		}
		return types.ExportResult{}, fmt.Errorf("%w: %s", ErrExportRejected, message)
	}

	filename := exportFilename(response.Filename, format)
	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		return types.ExportResult{}, log.Err("failed to create download directory", err, "dir", s.downloadDir)
	}

	path := filepath.Join(s.downloadDir, filename)
	written, err := s.saveFile(ctx, response.DownloadURL, path)
	if err != nil {
		return types.ExportResult{}, log.Err("failed to save export", err, "path", path)
	}

	log.Info("Export saved", "format", format, "path", path, "bytes", written)
	return types.ExportResult{
		Format:   format,
		Filename: filename,
		Path:     path,
		Bytes:    written,
	}, nil
}

func (s *FiltersService) saveFile(ctx context.Context, rawURL, path string) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	written, err := s.backend.DownloadFile(ctx, rawURL, file)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return written, nil
}

// exportFilename keeps only the base name of the server filename, defaulting to
// games_export.<format>.
func exportFilename(serverName string, format types.ExportFormat) string {
	name := filepath.Base(strings.ReplaceAll(serverName, "\\", "/"))
	if serverName == "" || name == "." || name == "/" || name == ".." {
		return fmt.Sprintf("%s.%s", exportFilenamePrefix, format)
	}
	return name
}
