package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"chessyui/config"
	"chessyui/internal/types"
	"chessyui/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	DefaultNotificationTTL = 5 * time.Second
	DefaultReloadDelay     = 2 * time.Second
	ToastFadeDuration      = 300 * time.Millisecond
)

const (
	downloadIdleLabel    = "Download New Games"
	downloadRunningLabel = "Downloading..."
	analyzeIdleLabel     = "Analyze Games"
	analyzeRunningLabel  = "Analyzing..."
	advancedLabel        = "Advanced Analysis"
	aiInsightsLabel      = "AI Insights"

	iconRunning  = "bi-hourglass-split"
	iconDownload = "bi-download"
	iconAnalyze  = "bi-graph-up"
	iconAdvanced = "bi-bar-chart"
	iconInsights = "bi-lightbulb"
)

// UIPublisher pushes state changes out to connected browsers.
type UIPublisher interface {
	PublishView(view types.IndicatorView)
	PublishReload()
	PublishTheme(theme types.Theme)
}

// NotificationRecorder keeps a log of every notification shown.
type NotificationRecorder interface {
	RecordNotification(ctx context.Context, toastID int, notification types.Notification) error
}

// ScheduleFunc runs fn once after delay and returns a function that cancels it.
type ScheduleFunc func(delay time.Duration, fn func()) (cancel func())

func afterFunc(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}

// IndicatorService owns the background task indicator: running task entries,
// toasts, action button states and the completion flags inferred from
// notifications. Every poll result is applied under one lock, so whichever result
// is applied last wins.
type IndicatorService struct {
	mu        sync.Mutex
	publishMu sync.Mutex
	publisher UIPublisher
	recorder  NotificationRecorder
	schedule  ScheduleFunc
	log       logger.Logger

	notificationTTL time.Duration
	fadeDuration    time.Duration
	reloadDelay     time.Duration

	active       bool
	badgeCount   int
	panelOpen    bool
	entries      []types.TaskEntry
	emptyMessage string
	buttons      map[string]types.ButtonState
	lastReport   types.TaskStatusReport

	toasts      []types.Toast
	toastTimers map[int]func()
	lastToastID int

	hasData                   bool
	analysisCompleted         bool
	advancedAnalysisCompleted bool
	reloadPending             bool
	cancelReload              func()

	version uint64
}

type IndicatorOption func(*IndicatorService)

func WithScheduler(schedule ScheduleFunc) IndicatorOption {
	return func(s *IndicatorService) {
		s.schedule = schedule
	}
}

func WithNotificationRecorder(recorder NotificationRecorder) IndicatorOption {
	return func(s *IndicatorService) {
		s.recorder = recorder
	}
}

func NewIndicatorService(cfg config.Config, publisher UIPublisher, opts ...IndicatorOption) *IndicatorService {
	s := &IndicatorService{
		publisher:       publisher,
		schedule:        afterFunc,
		log:             logger.New("indicatorService"),
		notificationTTL: durationOr(cfg.NotificationTTL(), DefaultNotificationTTL),
		fadeDuration:    ToastFadeDuration,
		reloadDelay:     durationOr(cfg.ReloadDelay(), DefaultReloadDelay),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// ApplyTaskStatus renders a task status poll result.
func (s *IndicatorService) ApplyTaskStatus(report types.TaskStatusReport) {
	s.mu.Lock()

	running := report.Running()
	if len(running) > 0 {
		s.active = true
		s.badgeCount = len(running)
		s.emptyMessage = ""
		s.entries = make([]types.TaskEntry, 0, len(running))
		for _, kind := range running {
			s.entries = append(s.entries, taskEntry(kind, report[kind]))
		}
	} else {
		s.active = false
		s.badgeCount = 0
		// Entries from the last running poll stay listed until tasks run again.
		if len(s.entries) == 0 {
			s.emptyMessage = types.EmptyTaskListMessage
		}
	}

	s.lastReport = report
	s.reconcileButtonsLocked()
	s.unlockAndPublish()
}

func taskEntry(kind types.TaskKind, status types.TaskStatus) types.TaskEntry {
	return types.TaskEntry{
		Kind:       kind,
		Title:      kind.Title(),
		Elapsed:    utils.FormatElapsed(status.ElapsedSeconds),
		Status:     status.StatusText(),
		Percentage: status.Percentage,
		Current:    status.Current,
		Total:      status.Total,
		Details:    fmt.Sprintf("%d/%d games processed", status.Current, status.Total),
	}
}

func (s *IndicatorService) reconcileButtonsLocked() {
	report := s.lastReport

	if report[types.TaskKindDownload].Running {
		s.buttons[types.DownloadButtonID] = types.ButtonState{Disabled: true, Label: downloadRunningLabel, Icon: iconRunning}
	} else {
		s.buttons[types.DownloadButtonID] = types.ButtonState{Label: downloadIdleLabel, Icon: iconDownload}
	}

	switch {
	case report[types.TaskKindAnalyze].Running:
		s.buttons[types.AnalyzeButtonID] = types.ButtonState{Disabled: true, Label: analyzeRunningLabel, Icon: iconRunning}
	case s.hasData:
		s.buttons[types.AnalyzeButtonID] = types.ButtonState{Label: analyzeIdleLabel, Icon: iconAnalyze}
	}

	s.buttons[types.AdvancedAnalysisButtonID] = types.ButtonState{
		Disabled: !s.analysisCompleted,
		Label:    advancedLabel,
		Icon:     iconAdvanced,
	}
	s.buttons[types.AIInsightsButtonID] = types.ButtonState{
		Disabled: !s.advancedAnalysisCompleted,
		Label:    aiInsightsLabel,
		Icon:     iconInsights,
	}
}

// ApplyNotifications shows each notification as a toast and updates the
// completion flags. Notifications are not de-duplicated.
func (s *IndicatorService) ApplyNotifications(ctx context.Context, notifications []types.Notification) {
	if len(notifications) == 0 {
		return
	}

	log := s.log.Function("ApplyNotifications").TraceFromContext(ctx)

	s.mu.Lock()
	ids := make([]int, len(notifications))
	for i, notification := range notifications {
		ids[i] = s.addToastLocked(notification)

		switch {
		case notification.IsSuccess(types.AnalysisCompleteTitle):
			s.analysisCompleted = true
			s.scheduleReloadLocked()
		case notification.IsSuccess(types.AdvancedAnalysisCompleteTitle):
			s.advancedAnalysisCompleted = true
		}
	}
	s.reconcileButtonsLocked()
	s.unlockAndPublish()

	log.Info("Notifications received", "count", len(notifications))

	if s.recorder == nil {
		return
	}
	for i, notification := range notifications {
		if err := s.recorder.RecordNotification(ctx, ids[i], notification); err != nil {
			log.Warn("Failed to record notification", "toastID", ids[i], "error", err)
		}
	}
}

func (s *IndicatorService) addToastLocked(notification types.Notification) int {
	s.lastToastID++
	id := s.lastToastID

	s.toasts = append(s.toasts, types.Toast{
		ID:      id,
		Type:    notification.Type,
		Title:   notification.Title,
		Message: notification.Message,
	})
	s.toastTimers[id] = s.schedule(s.notificationTTL, func() {
		s.Dismiss(id)
	})
	return id
}

// scheduleReloadLocked schedules a page reload unless one is already pending.
func (s *IndicatorService) scheduleReloadLocked() {
	if s.reloadPending {
		return
	}
	s.reloadPending = true
	s.cancelReload = s.schedule(s.reloadDelay, s.fireReload)
}

func (s *IndicatorService) fireReload() {
	s.mu.Lock()
	if !s.reloadPending {
		s.mu.Unlock()
		return
	}
	s.reloadPending = false
	s.cancelReload = nil
	s.mu.Unlock()

	s.log.Function("fireReload").Info("Requesting page reload")
	if s.publisher != nil {
		s.publisher.PublishReload()
	}
}

// ReloadNow asks browsers to reload immediately and drops any delayed reload.
func (s *IndicatorService) ReloadNow() {
	s.mu.Lock()
	if s.cancelReload != nil {
		s.cancelReload()
	}
	s.reloadPending = false
	s.cancelReload = nil
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishReload()
	}
}

// Dismiss starts the fade out of a toast and removes it once the fade is over.
// It reports false when the toast is unknown or already fading.
func (s *IndicatorService) Dismiss(id int) bool {
	s.mu.Lock()
	i := s.toastIndexLocked(id)
	if i < 0 || s.toasts[i].Fading {
		s.mu.Unlock()
		return false
	}

	s.toasts[i].Fading = true
	if cancel, ok := s.toastTimers[id]; ok {
		cancel()
	}
	s.toastTimers[id] = s.schedule(s.fadeDuration, func() {
		s.removeToast(id)
	})
	s.unlockAndPublish()
	return true
}

func (s *IndicatorService) removeToast(id int) {
	s.mu.Lock()
	i := s.toastIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.toasts = slices.Delete(s.toasts, i, i+1)
	delete(s.toastTimers, id)
	s.unlockAndPublish()
}

func (s *IndicatorService) toastIndexLocked(id int) int {
	return slices.IndexFunc(s.toasts, func(t types.Toast) bool { return t.ID == id })
}

func (s *IndicatorService) TogglePanel() bool {
	s.mu.Lock()
	s.panelOpen = !s.panelOpen
	open := s.panelOpen
	s.unlockAndPublish()
	return open
}

func (s *IndicatorService) ClosePanel() {
	s.mu.Lock()
	s.panelOpen = false
	s.unlockAndPublish()
}

// SetHasData records whether the backend holds downloaded games. Clearing it
// disables the analyze button unless an analysis is running.
func (s *IndicatorService) SetHasData(hasData bool) {
	s.mu.Lock()
	s.hasData = hasData
	if !hasData && !s.lastReport[types.TaskKindAnalyze].Running {
		s.buttons[types.AnalyzeButtonID] = types.ButtonState{Disabled: true, Label: analyzeIdleLabel, Icon: iconAnalyze}
	}
	s.reconcileButtonsLocked()
	s.unlockAndPublish()
}

func (s *IndicatorService) HasData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasData
}

func (s *IndicatorService) View() types.IndicatorView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Reset cancels pending timers and returns the indicator to its initial state.
func (s *IndicatorService) Reset() {
	s.mu.Lock()
	for _, cancel := range s.toastTimers {
		cancel()
	}
	if s.cancelReload != nil {
		s.cancelReload()
	}
	s.resetLocked()
	s.unlockAndPublish()
}

func (s *IndicatorService) resetLocked() {
	s.active = false
	s.badgeCount = 0
	s.panelOpen = false
	s.entries = nil
	s.emptyMessage = ""
	s.lastReport = types.TaskStatusReport{}
	s.toasts = nil
	s.toastTimers = make(map[int]func())
	s.lastToastID = 0
	s.hasData = false
	s.analysisCompleted = false
	s.advancedAnalysisCompleted = false
	s.reloadPending = false
	s.cancelReload = nil
	s.buttons = map[string]types.ButtonState{
		types.AnalyzeButtonID: {Disabled: true, Label: analyzeIdleLabel, Icon: iconAnalyze},
	}
	s.reconcileButtonsLocked()
}

func (s *IndicatorService) viewLocked() types.IndicatorView {
	buttons := make(map[string]types.ButtonState, len(s.buttons))
	for id, state := range s.buttons {
		buttons[id] = state
	}

	return types.IndicatorView{
		Active:       s.active,
		BadgeVisible: s.badgeCount > 0,
		BadgeCount:   s.badgeCount,
		PanelOpen:    s.panelOpen,
		Entries:      slices.Clone(s.entries),
		EmptyMessage: s.emptyMessage,
		Buttons:      buttons,
		Toasts:       slices.Clone(s.toasts),
		HasData:      s.hasData,
		Version:      s.version,
	}
}

// unlockAndPublish stamps a new view version, releases s.mu and publishes the
// view. publishMu is taken before s.mu is released, so views go out in version
// order even when the two polls finish together. Call with s.mu held.
func (s *IndicatorService) unlockAndPublish() {
	s.version++
	view := s.viewLocked()

	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishView(view)
	}
}
