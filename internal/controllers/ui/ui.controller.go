package uiController

import (
	"context"
	"errors"

	. "chessyui/internal/models"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrNotFound = errors.New("not found")

type Indicator interface {
	View() types.IndicatorView
	TogglePanel() bool
	ClosePanel()
	Dismiss(id int) bool
}

type Theme interface {
	Current() types.Theme
	Toggle(ctx context.Context) types.Theme
}

type NotificationLog interface {
	Recent(ctx context.Context, limit int) ([]*NotificationRecord, error)
}

type UIControllerInterface interface {
	UIState() types.UIState
	TogglePanel() types.IndicatorView
	ClosePanel() types.IndicatorView
	DismissNotification(id int) error
	NotificationHistory(ctx context.Context, limit int) ([]*NotificationRecord, error)
	ToggleTheme(ctx context.Context) types.Theme
}

type UIController struct {
	indicator     Indicator
	theme         Theme
	notifications NotificationLog
	log           logger.Logger
}

func New(indicator Indicator, theme Theme, notifications NotificationLog) UIControllerInterface {
	return &UIController{
		indicator:     indicator,
		theme:         theme,
		notifications: notifications,
		log:           logger.New("uiController"),
	}
}

func (c *UIController) UIState() types.UIState {
	return types.UIState{
		Indicator: c.indicator.View(),
		Theme:     c.theme.Current(),
	}
}

func (c *UIController) TogglePanel() types.IndicatorView {
	c.indicator.TogglePanel()
	return c.indicator.View()
}

func (c *UIController) ClosePanel() types.IndicatorView {
	c.indicator.ClosePanel()
	return c.indicator.View()
}

// DismissNotification starts the fade out of a toast. Toasts already fading or
// gone report ErrNotFound.
func (c *UIController) DismissNotification(id int) error {
	if !c.indicator.Dismiss(id) {
		return ErrNotFound
	}
	return nil
}

func (c *UIController) NotificationHistory(ctx context.Context, limit int) ([]*NotificationRecord, error) {
	if c.notifications == nil {
		return []*NotificationRecord{}, nil
	}

	records, err := c.notifications.Recent(ctx, limit)
	if err != nil {
		return nil, c.log.Function("NotificationHistory").Err("failed to load notification history", err)
	}
	return records, nil
}

func (c *UIController) ToggleTheme(ctx context.Context) types.Theme {
	return c.theme.Toggle(ctx)
}
