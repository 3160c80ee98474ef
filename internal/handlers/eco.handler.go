package handlers

import (
	"chessyui/internal/app"
	ecoController "chessyui/internal/controllers/eco"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type EcoHandler struct {
	Handler
	ecoController ecoController.EcoControllerInterface
}

func NewEcoHandler(app app.App, router fiber.Router) *EcoHandler {
	log := logger.New("handlers").File("eco_handler")
	return &EcoHandler{
		ecoController: app.Controllers.Eco,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EcoHandler) Register() {
	eco := h.router.Group("/eco")
	eco.Get("", h.getTable)
	eco.Post("/refresh", h.refreshTable)
	eco.Get("/:code", h.describe)
}

func (h *EcoHandler) getTable(c *fiber.Ctx) error {
	return c.JSON(h.ecoController.Table(c.UserContext()))
}

func (h *EcoHandler) refreshTable(c *fiber.Ctx) error {
	table := h.ecoController.Refresh(c.UserContext())
	h.log.Function("refreshTable").TraceFromContext(c.UserContext()).Info("ECO table refreshed", "entries", table.Len())

	return c.JSON(fiber.Map{
		"entries": table.Len(),
	})
}

func (h *EcoHandler) describe(c *fiber.Ctx) error {
	cached := c.QueryBool("cached", false)
	return c.JSON(h.ecoController.Describe(c.UserContext(), c.Params("code"), cached))
}
