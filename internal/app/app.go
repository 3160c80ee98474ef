package app

import (
	"context"

	"chessyui/config"
	"chessyui/internal/controllers"
	"chessyui/internal/database"
	"chessyui/internal/events"
	"chessyui/internal/handlers/middleware"
	"chessyui/internal/jobs"
	"chessyui/internal/repositories"
	"chessyui/internal/services"
	"chessyui/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

// NewWithConfig wires the gateway without starting any background work.
func NewWithConfig(config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)
	repos := repositories.New(db)

	service, err := services.New(config, eventBus, services.Stores{
		EcoTable:      repos.EcoTable,
		Notifications: repos.Notification,
	})
	if err != nil {
		_ = eventBus.Close()
		_ = db.Close()
		return &App{}, log.Err("failed to create services", err)
	}

	controllers := controllers.New(service, repos)

	websocket, err := websockets.New(eventBus, controllers.UI, service.Indicator)
	if err != nil {
		_ = eventBus.Close()
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:    db,
		Middleware:  middleware.New(config),
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    service,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

// Start migrates the notification log, registers the poll job, starts the
// scheduler and begins loading the ECO table.
func (a *App) Start(ctx context.Context) error {
	log := logger.New("app").Function("Start").TraceFromContext(ctx)

	if a.Database.SQLEnabled() {
		if err := a.Database.MigrateModels(); err != nil {
			return log.Err("failed to migrate models", err)
		}
		if err := a.Database.CreateIndexes(); err != nil {
			return log.Err("failed to create indexes", err)
		}
	}

	if err := jobs.RegisterAllJobs(
		a.Services.Scheduler,
		a.Config,
		a.Services.Chessy,
		a.Services.Indicator,
		a.Services.Exports,
	); err != nil {
		return log.Err("failed to register jobs", err)
	}

	if err := a.Services.Scheduler.Start(ctx); err != nil {
		return log.Err("failed to start scheduler", err)
	}

	if remote, ok := a.Services.Eco.(*services.RemoteEcoResolver); ok {
		remote.Prefetch(ctx)
	}

	log.Info("App started", "ecoSource", a.Config.EcoSource, "pollInterval", a.Config.PollInterval())
	return nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Config.BackendURL == "" {
		return log.ErrMsg("config is empty")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Chessy,
		a.Services.Eco,
		a.Services.Indicator,
		a.Services.Theme,
		a.Services.Filters,
		a.Services.Exports,
		a.Services.Scheduler,
		a.Controllers.UI,
		a.Controllers.Eco,
		a.Controllers.Filters,
		a.Controllers.Tasks,
		a.Repos.Notification,
		a.Repos.EcoTable,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Indicator != nil {
		a.Services.Indicator.Reset()
	}

	if a.Services.Theme != nil {
		a.Services.Theme.Wait()
	}

	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
