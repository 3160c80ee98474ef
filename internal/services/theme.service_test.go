package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"chessyui/internal/types"

	"github.com/stretchr/testify/assert"
)

type fakePersister struct {
	calls atomic.Int32
	theme types.Theme
	err   error
	block chan struct{}
}

func (f *fakePersister) ToggleTheme(ctx context.Context) (types.Theme, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.theme, f.err
}

func TestThemeService_Toggle(t *testing.T) {
	persister := &fakePersister{theme: types.ThemeDark}
	publisher := &recordingPublisher{}
	service := NewThemeService(persister, publisher)

	assert.Equal(t, types.ThemeLight, service.Current())

	assert.Equal(t, types.ThemeDark, service.Toggle(context.Background()))
	service.Wait()

	assert.Equal(t, types.ThemeDark, service.Current())
	assert.Equal(t, []types.Theme{types.ThemeDark}, publisher.themes)
	assert.Equal(t, int32(1), persister.calls.Load())
}

func TestThemeService_ToggleIsOptimistic(t *testing.T) {
	persister := &fakePersister{theme: types.ThemeDark, block: make(chan struct{})}
	service := NewThemeService(persister, nil)

	assert.Equal(t, types.ThemeDark, service.Toggle(context.Background()))
	assert.Equal(t, types.ThemeDark, service.Current(), "theme changes before the backend answers")

	close(persister.block)
	service.Wait()
}

func TestThemeService_FailureKeepsLocalTheme(t *testing.T) {
	persister := &fakePersister{err: errors.New("backend down")}
	service := NewThemeService(persister, nil)

	service.Toggle(context.Background())
	service.Wait()

	assert.Equal(t, types.ThemeDark, service.Current())
}

func TestThemeService_ToggleTwice(t *testing.T) {
	service := NewThemeService(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, types.ThemeDark, service.Toggle(ctx))
	assert.Equal(t, types.ThemeLight, service.Toggle(ctx))
	service.Wait()
}
