package filtersController

import (
	"context"
	"errors"
	"fmt"

	"chessyui/internal/services"
	"chessyui/internal/types"
	"chessyui/internal/utils"
)

var ErrValidation = errors.New("validation error")

type FiltersService interface {
	SelectDateRange(dateRange types.DateRange, startDate, endDate string) (types.DateRangeSelection, error)
	DefaultSelection() types.FilterSelection
	SubmitDownload(ctx context.Context, filters types.FilterSelection) types.ActionResult
	ClearHistory(ctx context.Context) types.ActionResult
	Export(ctx context.Context, format types.ExportFormat) (types.ExportResult, error)
}

type ExportLister interface {
	ListExports(ctx context.Context) ([]services.StoredExport, error)
}

type ExportRequest struct {
	Format types.ExportFormat `json:"format"`
}

type TimeControlDescription struct {
	Value    string                    `json:"value"`
	Display  string                    `json:"display"`
	Category utils.TimeControlCategory `json:"category"`
}

type FiltersControllerInterface interface {
	Defaults() types.FilterSelection
	DateRange(dateRange, startDate, endDate string) (types.DateRangeSelection, error)
	Download(ctx context.Context, request types.DownloadRequest) types.ActionResult
	ClearHistory(ctx context.Context) types.ActionResult
	Export(ctx context.Context, request ExportRequest) (types.ExportResult, error)
	Exports(ctx context.Context) ([]services.StoredExport, error)
	TimeControl(value string) TimeControlDescription
}

type FiltersController struct {
	filters FiltersService
	exports ExportLister
}

func New(filters FiltersService, exports ExportLister) FiltersControllerInterface {
	return &FiltersController{
		filters: filters,
		exports: exports,
	}
}

func (c *FiltersController) Defaults() types.FilterSelection {
	return c.filters.DefaultSelection()
}

// DateRange with no range given returns the default selection.
func (c *FiltersController) DateRange(dateRange, startDate, endDate string) (types.DateRangeSelection, error) {
	if dateRange == "" {
		dateRange = string(types.DateRangeLast7)
	}

	selection, err := c.filters.SelectDateRange(types.DateRange(dateRange), startDate, endDate)
	if err != nil {
		return types.DateRangeSelection{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return selection, nil
}

func (c *FiltersController) Download(ctx context.Context, request types.DownloadRequest) types.ActionResult {
	return c.filters.SubmitDownload(ctx, request.Filters)
}

func (c *FiltersController) ClearHistory(ctx context.Context) types.ActionResult {
	return c.filters.ClearHistory(ctx)
}

func (c *FiltersController) Export(ctx context.Context, request ExportRequest) (types.ExportResult, error) {
	result, err := c.filters.Export(ctx, request.Format)
	if errors.Is(err, services.ErrInvalidExportFormat) {
		return types.ExportResult{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return result, err
}

func (c *FiltersController) Exports(ctx context.Context) ([]services.StoredExport, error) {
	return c.exports.ListExports(ctx)
}

func (c *FiltersController) TimeControl(value string) TimeControlDescription {
	return TimeControlDescription{
		Value:    value,
		Display:  utils.FormatTimeControl(value),
		Category: utils.CategorizeTimeControl(value),
	}
}
