package main

import (
	"os"

	"chessyui/config"
	"chessyui/internal/database"
	. "chessyui/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

func main() {
	log := logger.New("migrations").Function("main")

	config, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	if !config.SQLEnabled() {
		log.Info("DB_HOST not set, nothing to migrate")
		return
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	migrationType := "up"
	if len(os.Args) > 1 {
		migrationType = os.Args[1]
	}

	switch migrationType {
	case "up":
		err = migrateUp(db)
	case "drop":
		err = db.SQL.Migrator().DropTable(&NotificationRecord{})
	default:
		log.Error("unknown migration type", "type", migrationType)
		os.Exit(1)
	}

	if err != nil {
		log.Er("migration failed", err, "type", migrationType)
		os.Exit(1)
	}

	log.Info("Migration finished", "type", migrationType)
}

func migrateUp(db database.DB) error {
	if err := db.MigrateModels(); err != nil {
		return err
	}
	return db.CreateIndexes()
}
