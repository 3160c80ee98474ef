package jobs

import (
	"time"

	"chessyui/config"
	"chessyui/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const exportCleanupInterval = time.Hour

// RegisterAllJobs registers the gateway's recurring jobs with the scheduler.
func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	source TaskStatusSource,
	indicator TaskIndicator,
	cleaner ExportCleaner,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	pollJob := NewBackgroundTaskPollJob(
		source,
		indicator,
		services.Every(config.PollInterval()),
	)
	if err := schedulerService.AddJob(pollJob); err != nil {
		return log.Err("failed to register background task poll job", err)
	}
	log.Info("Registered background task poll job", "interval", config.PollInterval())

	if config.ExportRetention() > 0 {
		cleanupJob := NewExportCleanupJob(cleaner, services.Every(exportCleanupInterval))
		if err := schedulerService.AddJob(cleanupJob); err != nil {
			return log.Err("failed to register export cleanup job", err)
		}
		log.Info("Registered export cleanup job", "retention", config.ExportRetention())
	}

	return nil
}
