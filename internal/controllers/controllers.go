package controllers

import (
	"chessyui/internal/repositories"
	"chessyui/internal/services"

	ecoController "chessyui/internal/controllers/eco"
	filtersController "chessyui/internal/controllers/filters"
	tasksController "chessyui/internal/controllers/tasks"
	uiController "chessyui/internal/controllers/ui"
)

type Controllers struct {
	UI      uiController.UIControllerInterface
	Eco     ecoController.EcoControllerInterface
	Filters filtersController.FiltersControllerInterface
	Tasks   tasksController.TasksControllerInterface
}

func New(services services.Service, repos repositories.Repository) Controllers {
	return Controllers{
		UI:      uiController.New(services.Indicator, services.Theme, repos.Notification),
		Eco:     ecoController.New(services.Eco),
		Filters: filtersController.New(services.Filters, services.Exports),
		Tasks:   tasksController.New(services.Chessy, services.Scheduler),
	}
}
