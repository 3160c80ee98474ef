package handlers

import (
	"errors"

	"chessyui/internal/app"
	tasksController "chessyui/internal/controllers/tasks"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type TasksHandler struct {
	Handler
	tasksController tasksController.TasksControllerInterface
}

func NewTasksHandler(app app.App, router fiber.Router) *TasksHandler {
	log := logger.New("handlers").File("tasks_handler")
	return &TasksHandler{
		tasksController: app.Controllers.Tasks,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TasksHandler) Register() {
	h.router.Get("/task_history/:kind", h.getTaskHistory)
	h.router.Post("/cancel_task/:kind", h.cancelTask)
}

func (h *TasksHandler) getTaskHistory(c *fiber.Ctx) error {
	history, err := h.tasksController.History(c.UserContext(), c.Params("kind"))
	if err != nil {
		return h.taskError(c, err, "Failed to load task history")
	}

	return c.JSON(fiber.Map{
		"history": history,
	})
}

func (h *TasksHandler) cancelTask(c *fiber.Ctx) error {
	result, err := h.tasksController.Cancel(c.UserContext(), c.Params("kind"))
	if err != nil {
		return h.taskError(c, err, "Failed to cancel task")
	}

	return c.Status(actionStatusCode(result)).JSON(result)
}

func (h *TasksHandler) taskError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, tasksController.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": message,
	})
}
