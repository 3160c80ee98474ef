package types

const (
	EmptyTaskListMessage = "No active background tasks"

	DownloadButtonID         = "downloadBtn"
	AnalyzeButtonID          = "analyzeBtn"
	AdvancedAnalysisButtonID = "advancedAnalysisBtn"
	AIInsightsButtonID       = "aiInsightsBtn"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// TaskEntry is one rendered row of the indicator panel.
type TaskEntry struct {
	Kind       TaskKind `json:"kind"`
	Title      string   `json:"title"`
	Elapsed    string   `json:"elapsed"`
	Status     string   `json:"status"`
	Percentage float64  `json:"percentage"`
	Current    int      `json:"current"`
	Total      int      `json:"total"`
	Details    string   `json:"details"`
}

type ButtonState struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
	Icon     string `json:"icon,omitempty"`
}

type Toast struct {
	ID      int              `json:"id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Fading  bool             `json:"fading"`
}

// IndicatorView is everything the browser needs to draw the indicator, toasts and buttons.
type IndicatorView struct {
	Active       bool                   `json:"active"`
	BadgeVisible bool                   `json:"badgeVisible"`
	BadgeCount   int                    `json:"badgeCount"`
	PanelOpen    bool                   `json:"panelOpen"`
	Entries      []TaskEntry            `json:"entries"`
	EmptyMessage string                 `json:"emptyMessage,omitempty"`
	Buttons      map[string]ButtonState `json:"buttons"`
	Toasts       []Toast                `json:"toasts"`
	HasData      bool                   `json:"hasData"`
	// Version increases with every published view. Browsers drop a view older
	// than the one they already show.
	Version      uint64                 `json:"version"`
}

// UIState is the full page state pushed to browsers.
type UIState struct {
	Indicator IndicatorView `json:"indicator"`
	Theme     Theme         `json:"theme"`
}
