package handlers

import (
	"chessyui/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "ok",
			"version":          app.Config.GeneralVersion,
			"service":          "chessyui",
			"backend":          app.Services.Chessy.BaseURL(),
			"ecoSource":        app.Config.EcoSource,
			"database":         app.Database.SQLEnabled(),
			"cache":            app.Database.CacheEnabled(),
			"scheduler":        app.Services.Scheduler.IsRunning(),
			"websocketClients": app.Websocket.ClientCount(),
		})
	})
}
