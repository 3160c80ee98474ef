package repositories

import (
	"context"

	"chessyui/internal/database"
	. "chessyui/internal/models"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	DEFAULT_NOTIFICATION_HISTORY_LIMIT = 50
	MAX_NOTIFICATION_HISTORY_LIMIT     = 500
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *NotificationRecord) error
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*NotificationRecord, error)

	RecordNotification(ctx context.Context, toastID int, notification types.Notification) error
	Recent(ctx context.Context, limit int) ([]*NotificationRecord, error)
}

type notificationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewNotificationRepository(db database.DB) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	record *NotificationRecord,
) error {
	log := r.log.Function("Create")

	if err := gorm.G[NotificationRecord](tx).Create(ctx, record); err != nil {
		return log.Err(
			"failed to create notification record",
			err,
			"toastID",
			record.ToastID,
			"title",
			record.Title,
		)
	}

	return nil
}

func (r *notificationRepository) ListRecent(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
) ([]*NotificationRecord, error) {
	log := r.log.Function("ListRecent")

	records, err := gorm.G[*NotificationRecord](tx).
		Order("received_at DESC").
		Limit(clampHistoryLimit(limit)).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list notification records", err, "limit", limit)
	}

	return records, nil
}

// RecordNotification is a no-op when no database is configured.
func (r *notificationRepository) RecordNotification(
	ctx context.Context,
	toastID int,
	notification types.Notification,
) error {
	if !r.db.SQLEnabled() {
		return nil
	}

	record, err := NewNotificationRecord(toastID, notification)
	if err != nil {
		return r.log.Function("RecordNotification").Err("failed to build notification record", err)
	}

	return r.Create(ctx, r.db.SQLWithContext(ctx), record)
}

func (r *notificationRepository) Recent(ctx context.Context, limit int) ([]*NotificationRecord, error) {
	if !r.db.SQLEnabled() {
		return []*NotificationRecord{}, nil
	}

	return r.ListRecent(ctx, r.db.SQLWithContext(ctx), limit)
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return DEFAULT_NOTIFICATION_HISTORY_LIMIT
	}
	if limit > MAX_NOTIFICATION_HISTORY_LIMIT {
		return MAX_NOTIFICATION_HISTORY_LIMIT
	}
	return limit
}
