package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chessyui/config"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type StoredExport struct {
	Filename   string             `json:"filename"`
	Format     types.ExportFormat `json:"format"`
	Size       int64              `json:"size"`
	ModifiedAt time.Time          `json:"modifiedAt"`
}

// ExportCleanupService lists and prunes the files saved by FiltersService.Export.
type ExportCleanupService struct {
	downloadDir string
	retention   time.Duration
	now         func() time.Time
	log         logger.Logger
}

func NewExportCleanupService(config config.Config) *ExportCleanupService {
	return &ExportCleanupService{
		downloadDir: config.DownloadDir,
		retention:   config.ExportRetention(),
		now:         time.Now,
		log:         logger.New("exportCleanupService"),
	}
}

func (s *ExportCleanupService) Retention() time.Duration {
	return s.retention
}

// ListExports returns the saved exports, newest first.
func (s *ExportCleanupService) ListExports(ctx context.Context) ([]StoredExport, error) {
	log := s.log.Function("ListExports").TraceFromContext(ctx)

	entries, err := os.ReadDir(s.downloadDir)
	if errors.Is(err, os.ErrNotExist) {
		return []StoredExport{}, nil
	}
	if err != nil {
		return nil, log.Err("failed to read download directory", err, "directory", s.downloadDir)
	}

	exports := make([]StoredExport, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Warn("Failed to stat export", "file", entry.Name(), "error", err)
			continue
		}

		exports = append(exports, StoredExport{
			Filename:   entry.Name(),
			Format:     exportFormatOf(entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(exports, func(i, j int) bool {
		return exports[i].ModifiedAt.After(exports[j].ModifiedAt)
	})

	return exports, nil
}

// CleanupExpired removes exports older than the retention period. A zero
// retention keeps everything.
func (s *ExportCleanupService) CleanupExpired(ctx context.Context) (int, error) {
	log := s.log.Function("CleanupExpired").TraceFromContext(ctx)

	if s.retention <= 0 {
		return 0, nil
	}

	exports, err := s.ListExports(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.retention)
	var removed int
	var errs []error
	for _, export := range exports {
		if export.ModifiedAt.After(cutoff) {
			continue
		}

		path := filepath.Join(s.downloadDir, export.Filename)
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			log.Er("failed to remove export", err, "path", path)
			continue
		}
		removed++
	}

	if len(errs) > 0 {
		return removed, log.Err("failed to cleanup some exports", errs[0], "errorCount", len(errs))
	}

	if removed > 0 {
		log.Info("Removed expired exports", "directory", s.downloadDir, "removed", removed)
	}
	return removed, nil
}

func exportFormatOf(filename string) types.ExportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return types.ExportCSV
	case ".json":
		return types.ExportJSON
	case ".xlsx", ".xls", ".excel":
		return types.ExportExcel
	}
	return ""
}
