package handlers

import (
	"errors"

	"chessyui/internal/app"
	tasksController "chessyui/internal/controllers/tasks"
	uiController "chessyui/internal/controllers/ui"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type UIHandler struct {
	Handler
	uiController    uiController.UIControllerInterface
	tasksController tasksController.TasksControllerInterface
}

func NewUIHandler(app app.App, router fiber.Router) *UIHandler {
	log := logger.New("handlers").File("ui_handler")
	return &UIHandler{
		uiController:    app.Controllers.UI,
		tasksController: app.Controllers.Tasks,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UIHandler) Register() {
	h.router.Get("/state", h.getState)
	h.router.Post("/refresh", h.refresh)

	panel := h.router.Group("/panel")
	panel.Post("/toggle", h.togglePanel)
	panel.Post("/close", h.closePanel)

	notifications := h.router.Group("/notifications")
	notifications.Get("/history", h.getNotificationHistory)
	notifications.Post("/:id/dismiss", h.dismissNotification)

	h.router.Post("/theme", h.toggleTheme)
}

func (h *UIHandler) getState(c *fiber.Ctx) error {
	return c.JSON(h.uiController.UIState())
}

func (h *UIHandler) refresh(c *fiber.Ctx) error {
	if err := h.tasksController.Refresh(c.UserContext()); err != nil {
		h.log.Function("refresh").Er("Failed to trigger task poll", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Task polling is not running",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "refreshing",
	})
}

func (h *UIHandler) togglePanel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"indicator": h.uiController.TogglePanel(),
	})
}

func (h *UIHandler) closePanel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"indicator": h.uiController.ClosePanel(),
	})
}

func (h *UIHandler) dismissNotification(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	if err := h.uiController.DismissNotification(id); err != nil {
		if errors.Is(err, uiController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Notification not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to dismiss notification",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UIHandler) getNotificationHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	records, err := h.uiController.NotificationHistory(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load notification history",
		})
	}

	return c.JSON(fiber.Map{
		"notifications": records,
	})
}

func (h *UIHandler) toggleTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"theme": h.uiController.ToggleTheme(c.UserContext()),
	})
}
