package types

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

// Titles the backend uses for completion notifications.
const (
	AnalysisCompleteTitle         = "Analysis Complete"
	AdvancedAnalysisCompleteTitle = "Advanced Analysis Complete"
)

// Notification is one element of GET /api/notifications. The backend sends no id.
type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}

func (n Notification) IsSuccess(title string) bool {
	return n.Type == NotificationSuccess && n.Title == title
}
