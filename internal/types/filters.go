package types

type DateRange string

const (
	DateRangeToday     DateRange = "today"
	DateRangeYesterday DateRange = "yesterday"
	DateRangeLast7     DateRange = "last7"
	DateRangeLast30    DateRange = "last30"
	DateRangeThisMonth DateRange = "thisMonth"
	DateRangeLastMonth DateRange = "lastMonth"
	DateRangeCustom    DateRange = "custom"
)

// FilterSelection is what the user picked in the download filter form.
type FilterSelection struct {
	DateRange   DateRange `json:"dateRange"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	TimeControl string    `json:"timeControl"`
}

// DateRangeSelection is the form state after a date range change.
type DateRangeSelection struct {
	DateRange        DateRange `json:"dateRange"`
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	ShowCustomFields bool      `json:"showCustomFields"`
}

// DownloadRequest is the POST /download body.
type DownloadRequest struct {
	Filters FilterSelection `json:"filters"`
}

type ActionStatus string

const (
	ActionSuccess    ActionStatus = "success"
	ActionError      ActionStatus = "error"
	ActionWarning    ActionStatus = "warning"
	ActionRedirected ActionStatus = "redirected"
)

// ActionResult is the outcome of a form action forwarded to the backend.
type ActionResult struct {
	Status      ActionStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
}

type ExportFormat string

const (
	ExportExcel ExportFormat = "excel"
	ExportCSV   ExportFormat = "csv"
	ExportJSON  ExportFormat = "json"
)

func (f ExportFormat) Valid() bool {
	return f == ExportExcel || f == ExportCSV || f == ExportJSON
}

// ExportResponse is the POST /api/export_raw_games reply.
type ExportResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// ExportResult is what the gateway saved after following the download URL.
type ExportResult struct {
	Format   ExportFormat `json:"format"`
	Filename string       `json:"filename"`
	Path     string       `json:"path"`
	Bytes    int64        `json:"bytes"`
}
