package server

import (
	"fmt"
	"time"

	"chessyui/config"
	"chessyui/internal/app"
	"chessyui/internal/handlers"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/helmet/v2"
)

const (
	// Filter selections and panel toggles are tiny; nothing larger is ever posted.
	requestBodyLimit = 64 * 1024

	// The gateway only answers with JSON and the websocket upgrade.
	apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
)

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing gateway server", "backend", app.Config.BackendURL)

	server := fiber.New(fiberConfig(app.Config))

	server.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.CorsAllowOrigins,
		AllowMethods:     "GET, POST, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Requested-With, X-Trace-ID, Upgrade, Connection",
		AllowCredentials: app.Config.CorsAllowOrigins != "*",
		MaxAge:           300,
		ExposeHeaders:    "Upgrade, X-Trace-ID",
	}))
	server.Use(fiberLogs.New())
	server.Use(compress.New())
	server.Use(helmet.New(helmet.Config{
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "no-referrer",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-site",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
		ContentSecurityPolicy:     apiContentSecurityPolicy,
	}))

	if err := handlers.Router(server, app); err != nil {
		return nil, log.Err("failed to initialize handlers", err)
	}

	return &AppServer{FiberApp: server, log: log}, nil
}

func fiberConfig(cfg config.Config) fiber.Config {
	fiberCfg := fiber.Config{
		ServerHeader:          fmt.Sprintf("ChessyUI/%s", cfg.GeneralVersion),
		AppName:               "chessyui_gateway",
		BodyLimit:             requestBodyLimit,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
	}

	if cfg.Environment == "development" {
		fiberCfg.DisableStartupMessage = false
		fiberCfg.EnablePrintRoutes = true
	}
	return fiberCfg
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port == 0 {
		return log.Error("invalid port", "port", port)
	}

	log.Info("Starting gateway", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
