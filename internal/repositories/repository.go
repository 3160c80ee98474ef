package repositories

import (
	"chessyui/internal/database"
)

type Repository struct {
	Notification NotificationRepository
	EcoTable     EcoTableRepository
}

func New(db database.DB) Repository {
	return Repository{
		Notification: NewNotificationRepository(db),
		EcoTable:     NewEcoTableRepository(db.Cache.General),
	}
}
