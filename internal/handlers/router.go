package handlers

import (
	"chessyui/internal/app"
	"chessyui/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	WebSocketHandler(router, app.Websocket)

	api := router.Group("/api", app.Middleware.TraceID(), app.Middleware.RequestLog())
	HealthHandler(api, app)

	ui := api.Group("/ui")
	NewUIHandler(*app, ui).Register()
	NewEcoHandler(*app, ui).Register()
	NewFiltersHandler(*app, ui).Register()
	NewTasksHandler(*app, ui).Register()

	return nil
}
