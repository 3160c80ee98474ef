package jobs

import (
	"context"
	"sync"
	"time"

	"chessyui/internal/services"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	BackgroundTaskPollJobName = "BackgroundTaskPoll"
	pollRequestTimeout        = 10 * time.Second
)

type TaskStatusSource interface {
	GetTaskStatus(ctx context.Context) (types.TaskStatusReport, error)
	GetNotifications(ctx context.Context) ([]types.Notification, error)
}

type TaskIndicator interface {
	ApplyTaskStatus(report types.TaskStatusReport)
	ApplyNotifications(ctx context.Context, notifications []types.Notification)
}

// BackgroundTaskPollJob reads task status and pending notifications from the
// backend on every tick. The two reads are independent: a failed read skips
// only its own update for that tick.
type BackgroundTaskPollJob struct {
	source    TaskStatusSource
	indicator TaskIndicator
	log       logger.Logger
	schedule  services.Schedule
}

func NewBackgroundTaskPollJob(
	source TaskStatusSource,
	indicator TaskIndicator,
	schedule services.Schedule,
) *BackgroundTaskPollJob {
	log := logger.New("backgroundTaskPollJob")
	log.Info("Creating new background task poll job", "interval", schedule.Duration())

	return &BackgroundTaskPollJob{
		source:    source,
		indicator: indicator,
		log:       log,
		schedule:  schedule,
	}
}

func (j *BackgroundTaskPollJob) Name() string {
	return BackgroundTaskPollJobName
}

func (j *BackgroundTaskPollJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *BackgroundTaskPollJob) Execute(ctx context.Context) error {
	ctx = logger.ContextWithTraceID(ctx, uuid.New().String())
	ctx, cancel := context.WithTimeout(ctx, pollRequestTimeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		j.pollTaskStatus(ctx)
	}()

	go func() {
		defer wg.Done()
		j.pollNotifications(ctx)
	}()

	wg.Wait()
	return nil
}

func (j *BackgroundTaskPollJob) pollTaskStatus(ctx context.Context) {
	log := j.log.Function("pollTaskStatus").TraceFromContext(ctx)

	report, err := j.source.GetTaskStatus(ctx)
	if err != nil {
		log.Warn("Skipping task status update", "error", err)
		return
	}
	j.indicator.ApplyTaskStatus(report)
}

func (j *BackgroundTaskPollJob) pollNotifications(ctx context.Context) {
	log := j.log.Function("pollNotifications").TraceFromContext(ctx)

	notifications, err := j.source.GetNotifications(ctx)
	if err != nil {
		log.Warn("Skipping notification update", "error", err)
		return
	}
	j.indicator.ApplyNotifications(ctx, notifications)
}
