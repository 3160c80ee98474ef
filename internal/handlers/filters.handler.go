package handlers

import (
	"errors"
	"strings"

	"chessyui/internal/app"
	filtersController "chessyui/internal/controllers/filters"
	"chessyui/internal/services"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type FiltersHandler struct {
	Handler
	filtersController filtersController.FiltersControllerInterface
}

func NewFiltersHandler(app app.App, router fiber.Router) *FiltersHandler {
	log := logger.New("handlers").File("filters_handler")
	return &FiltersHandler{
		filtersController: app.Controllers.Filters,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *FiltersHandler) Register() {
	filters := h.router.Group("/filters")
	filters.Get("/defaults", h.getDefaults)
	filters.Get("/range", h.getDateRange)

	h.router.Post("/download", h.download)
	h.router.Post("/clear_history", h.clearHistory)
	h.router.Post("/export", h.export)
	h.router.Get("/exports", h.listExports)
	h.router.Get("/time_control", h.formatTimeControl)
}

func (h *FiltersHandler) getDefaults(c *fiber.Ctx) error {
	return c.JSON(h.filtersController.Defaults())
}

func (h *FiltersHandler) getDateRange(c *fiber.Ctx) error {
	selection, err := h.filtersController.DateRange(
		c.Query("dateRange"),
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(selection)
}

func (h *FiltersHandler) download(c *fiber.Ctx) error {
	var req types.DownloadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	result := h.filtersController.Download(c.UserContext(), req)
	return c.Status(actionStatusCode(result)).JSON(result)
}

func (h *FiltersHandler) clearHistory(c *fiber.Ctx) error {
	result := h.filtersController.ClearHistory(c.UserContext())
	return c.Status(actionStatusCode(result)).JSON(result)
}

func (h *FiltersHandler) export(c *fiber.Ctx) error {
	var req filtersController.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.filtersController.Export(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, filtersController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, services.ErrExportRejected):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": strings.TrimPrefix(err.Error(), services.ErrExportRejected.Error()+": "),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error exporting to " + strings.ToLower(string(req.Format)),
			})
		}
	}

	return c.JSON(result)
}

func (h *FiltersHandler) listExports(c *fiber.Ctx) error {
	exports, err := h.filtersController.Exports(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list exports",
		})
	}

	return c.JSON(fiber.Map{
		"exports": exports,
	})
}

func (h *FiltersHandler) formatTimeControl(c *fiber.Ctx) error {
	return c.JSON(h.filtersController.TimeControl(c.Query("value")))
}

func actionStatusCode(result types.ActionResult) int {
	if result.Status == types.ActionError {
		return fiber.StatusBadRequest
	}
	return fiber.StatusOK
}
