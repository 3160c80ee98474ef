package jobs

import (
	"context"

	"chessyui/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const ExportCleanupJobName = "ExportCleanup"

type ExportCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

type ExportCleanupJob struct {
	cleaner  ExportCleaner
	log      logger.Logger
	schedule services.Schedule
}

func NewExportCleanupJob(cleaner ExportCleaner, schedule services.Schedule) *ExportCleanupJob {
	log := logger.New("exportCleanupJob")
	log.Info("Creating new export cleanup job", "interval", schedule.Duration())

	return &ExportCleanupJob{
		cleaner:  cleaner,
		log:      log,
		schedule: schedule,
	}
}

func (j *ExportCleanupJob) Name() string {
	return ExportCleanupJobName
}

func (j *ExportCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if _, err := j.cleaner.CleanupExpired(ctx); err != nil {
		return log.Err("export cleanup failed", err)
	}

	return nil
}

func (j *ExportCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
