package tasksController

import (
	"context"
	"errors"
	"fmt"

	"chessyui/internal/jobs"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrValidation = errors.New("validation error")

type TaskBackend interface {
	GetTaskHistory(ctx context.Context, kind types.TaskKind) ([]types.TaskHistoryEntry, error)
	CancelTask(ctx context.Context, kind types.TaskKind) (types.ActionResult, error)
}

type JobTrigger interface {
	TriggerJobByName(ctx context.Context, jobName string) error
}

type TasksControllerInterface interface {
	History(ctx context.Context, kind string) ([]types.TaskHistoryEntry, error)
	Cancel(ctx context.Context, kind string) (types.ActionResult, error)
	Refresh(ctx context.Context) error
}

type TasksController struct {
	backend   TaskBackend
	scheduler JobTrigger
	log       logger.Logger
}

func New(backend TaskBackend, scheduler JobTrigger) TasksControllerInterface {
	return &TasksController{
		backend:   backend,
		scheduler: scheduler,
		log:       logger.New("tasksController"),
	}
}

func (c *TasksController) History(ctx context.Context, kind string) ([]types.TaskHistoryEntry, error) {
	taskKind, err := parseTaskKind(kind)
	if err != nil {
		return nil, err
	}

	history, err := c.backend.GetTaskHistory(ctx, taskKind)
	if err != nil {
		return nil, c.log.Function("History").Err("failed to get task history", err, "kind", taskKind)
	}
	if history == nil {
		history = []types.TaskHistoryEntry{}
	}
	return history, nil
}

func (c *TasksController) Cancel(ctx context.Context, kind string) (types.ActionResult, error) {
	taskKind, err := parseTaskKind(kind)
	if err != nil {
		return types.ActionResult{}, err
	}

	result, err := c.backend.CancelTask(ctx, taskKind)
	if err != nil {
		return types.ActionResult{}, c.log.Function("Cancel").Err("failed to cancel task", err, "kind", taskKind)
	}
	return result, nil
}

// Refresh runs the poll job now instead of waiting for the next tick.
func (c *TasksController) Refresh(ctx context.Context) error {
	return c.scheduler.TriggerJobByName(ctx, jobs.BackgroundTaskPollJobName)
}

func parseTaskKind(kind string) (types.TaskKind, error) {
	taskKind := types.TaskKind(kind)
	if !taskKind.Valid() {
		return "", fmt.Errorf("%w: unknown task kind %q", ErrValidation, kind)
	}
	return taskKind, nil
}
