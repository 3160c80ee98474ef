package services

import (
	"chessyui/config"
)

type Service struct {
	Chessy    *ChessyService
	Eco       EcoResolver
	Indicator *IndicatorService
	Theme     *ThemeService
	Filters   *FiltersService
	Exports   *ExportCleanupService
	Scheduler *SchedulerService
}

// Stores are the optional persistence hooks. Either may be nil.
type Stores struct {
	EcoTable      EcoTableStore
	Notifications NotificationRecorder
}

func New(config config.Config, publisher UIPublisher, stores Stores) (Service, error) {
	chessyService, err := NewChessyService(config)
	if err != nil {
		return Service{}, err
	}

	var indicatorOpts []IndicatorOption
	if stores.Notifications != nil {
		indicatorOpts = append(indicatorOpts, WithNotificationRecorder(stores.Notifications))
	}

	indicatorService := NewIndicatorService(config, publisher, indicatorOpts...)
	themeService := NewThemeService(chessyService, publisher)
	filtersService := NewFiltersService(config, chessyService, indicatorService)
	schedulerService := NewSchedulerService()

	return Service{
		Chessy:    chessyService,
		Eco:       NewEcoResolver(config, chessyService, stores.EcoTable),
		Indicator: indicatorService,
		Theme:     themeService,
		Filters:   filtersService,
		Exports:   NewExportCleanupService(config),
		Scheduler: schedulerService,
	}, nil
}

// NewEcoResolver picks the resolver for ECO_SOURCE.
func NewEcoResolver(cfg config.Config, fetcher EcoTableFetcher, store EcoTableStore) EcoResolver {
	switch cfg.EcoSource {
	case config.EcoSourceStatic:
		return NewStaticEcoResolver(StaticEcoTable())
	case config.EcoSourceBook:
		return NewStaticEcoResolver(BookEcoTable())
	default:
		return NewRemoteEcoResolver(fetcher, store)
	}
}
