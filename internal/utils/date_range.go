package utils

import (
	"fmt"
	"time"

	"chessyui/internal/types"
)

// FormISODate is the layout the filter form inputs use.
const FormISODate = "2006-01-02"

// FormatFormDate renders a date in the form input layout using the date's own location.
func FormatFormDate(t time.Time) string {
	return t.Format(FormISODate)
}

// DefaultDateRange is the form state on first render: the last seven days.
func DefaultDateRange(now time.Time) types.DateRangeSelection {
	return types.DateRangeSelection{
		DateRange: types.DateRangeLast7,
		StartDate: FormatFormDate(now.AddDate(0, 0, -7)),
		EndDate:   FormatFormDate(now),
	}
}

// ResolveDateRange turns a date range choice into concrete start and end dates
// relative to now. For custom ranges the supplied dates are kept and the custom
// fields are reported visible.
func ResolveDateRange(dateRange types.DateRange, now time.Time, customStart, customEnd string) (types.DateRangeSelection, error) {
	selection := types.DateRangeSelection{DateRange: dateRange}

	today := startOfDay(now)
	var start, end time.Time

	switch dateRange {
	case types.DateRangeCustom:
		if customStart != "" {
			if _, err := time.ParseInLocation(FormISODate, customStart, now.Location()); err != nil {
				return selection, fmt.Errorf("invalid start date %q: %w", customStart, err)
			}
		}
		if customEnd != "" {
			if _, err := time.ParseInLocation(FormISODate, customEnd, now.Location()); err != nil {
				return selection, fmt.Errorf("invalid end date %q: %w", customEnd, err)
			}
		}
		selection.StartDate = customStart
		selection.EndDate = customEnd
		selection.ShowCustomFields = true
		return selection, nil
	case types.DateRangeToday:
		start, end = today, today
	case types.DateRangeYesterday:
		start = today.AddDate(0, 0, -1)
		end = start
	case types.DateRangeLast7:
		start, end = today.AddDate(0, 0, -7), today
	case types.DateRangeLast30:
		start, end = today.AddDate(0, 0, -30), today
	case types.DateRangeThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end = today
	case types.DateRangeLastMonth:
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		start = firstOfMonth.AddDate(0, -1, 0)
		end = firstOfMonth.AddDate(0, 0, -1)
	default:
		return selection, fmt.Errorf("unknown date range: %q", dateRange)
	}

	selection.StartDate = FormatFormDate(start)
	selection.EndDate = FormatFormDate(end)
	return selection, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
