package services

import (
	"sync"
	"time"

	"chessyui/internal/types"
)

type recordingPublisher struct {
	mu      sync.Mutex
	views   []types.IndicatorView
	reloads int
	themes  []types.Theme

	// delay slows every PublishView, widening the window between building a
	// view and delivering it.
	delay time.Duration
}

func (p *recordingPublisher) PublishView(view types.IndicatorView) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views = append(p.views, view)
}

func (p *recordingPublisher) PublishReload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reloads++
}

func (p *recordingPublisher) PublishTheme(theme types.Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.themes = append(p.themes, theme)
}

func (p *recordingPublisher) reloadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

func (p *recordingPublisher) lastView() types.IndicatorView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.views[len(p.views)-1]
}

type scheduledCall struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

// manualScheduler holds scheduled callbacks until the test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	calls []*scheduledCall
}

func (m *manualScheduler) schedule(delay time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := &scheduledCall{delay: delay, fn: fn}
	m.calls = append(m.calls, call)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		call.cancelled = true
	}
}

func (m *manualScheduler) pending(delay time.Duration) []*scheduledCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []*scheduledCall
	for _, call := range m.calls {
		if call.delay == delay && !call.cancelled {
			pending = append(pending, call)
		}
	}
	return pending
}

// fire runs every pending callback with the given delay.
func (m *manualScheduler) fire(delay time.Duration) int {
	calls := m.pending(delay)

	m.mu.Lock()
	for _, call := range calls {
		call.cancelled = true
	}
	m.mu.Unlock()

	for _, call := range calls {
		call.fn()
	}
	return len(calls)
}

func strPtr(s string) *string {
	return &s
}
