package services

import (
	"context"
	"sync"
	"time"

	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const themePersistTimeout = 10 * time.Second

type ThemePersister interface {
	ToggleTheme(ctx context.Context) (types.Theme, error)
}

// ThemeService flips the theme immediately and persists the change in the
// background. A failed write is logged and the local theme is kept.
type ThemeService struct {
	mu        sync.RWMutex
	theme     types.Theme
	persister ThemePersister
	publisher UIPublisher
	pending   sync.WaitGroup
	log       logger.Logger
}

func NewThemeService(persister ThemePersister, publisher UIPublisher) *ThemeService {
	return &ThemeService{
		theme:     types.ThemeLight,
		persister: persister,
		publisher: publisher,
		log:       logger.New("themeService"),
	}
}

func (s *ThemeService) Current() types.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Toggle switches the theme and returns the new value without waiting for the
// backend.
func (s *ThemeService) Toggle(ctx context.Context) types.Theme {
	s.mu.Lock()
	s.theme = s.theme.Toggled()
	theme := s.theme
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishTheme(theme)
	}

	if s.persister != nil {
		s.pending.Add(1)
		go s.persist(context.WithoutCancel(ctx), theme)
	}

	return theme
}

func (s *ThemeService) persist(ctx context.Context, theme types.Theme) {
	defer s.pending.Done()
	log := s.log.Function("persist").TraceFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, themePersistTimeout)
	defer cancel()

	saved, err := s.persister.ToggleTheme(ctx)
	if err != nil {
		log.Er("Failed to persist theme, keeping local change", err, "theme", theme)
		return
	}

	if saved != theme {
		log.Warn("Backend theme differs from local theme", "local", theme, "backend", saved)
		return
	}
	log.Debug("Theme persisted", "theme", saved)
}

// Wait blocks until all in-flight persist calls have finished.
func (s *ThemeService) Wait() {
	s.pending.Wait()
}
