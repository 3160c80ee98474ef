package database

import (
	"chessyui/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")

	if db.SQL == nil {
		log.Info("No database configured, skipping migration")
		return nil
	}

	log.Info("Starting database migration")

	modelsToMigrate := []any{
		&models.NotificationRecord{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")

	if db.SQL == nil {
		return nil
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_notification_records_received_at ON notification_records(received_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notification_records_type_title ON notification_records(type, title)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
