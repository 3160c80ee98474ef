package models

import (
	"encoding/json"
	"time"

	"chessyui/internal/types"

	"gorm.io/datatypes"
)

// NotificationRecord is one toast shown by the indicator. Payload keeps the
// notification exactly as the backend sent it.
type NotificationRecord struct {
	BaseUUIDModel
	ToastID    int            `gorm:"not null"                json:"toastId"`
	Type       string         `gorm:"type:text;not null"      json:"type"`
	Title      string         `gorm:"type:text;not null"      json:"title"`
	Message    string         `gorm:"type:text"               json:"message"`
	Payload    datatypes.JSON `gorm:"type:jsonb"              json:"payload"`
	ReceivedAt time.Time      `gorm:"not null;autoCreateTime" json:"receivedAt"`
}

func NewNotificationRecord(toastID int, notification types.Notification) (*NotificationRecord, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return nil, err
	}

	return &NotificationRecord{
		ToastID:    toastID,
		Type:       string(notification.Type),
		Title:      notification.Title,
		Message:    notification.Message,
		Payload:    datatypes.JSON(payload),
		ReceivedAt: time.Now().UTC(),
	}, nil
}

func (r *NotificationRecord) Notification() types.Notification {
	return types.Notification{
		Type:    types.NotificationType(r.Type),
		Title:   r.Title,
		Message: r.Message,
	}
}
