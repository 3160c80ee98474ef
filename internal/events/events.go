package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chessyui/config"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	UI_CHANNEL Channel = "chessyui.ui"
)

type MessageType string

const (
	VIEW_UPDATE   MessageType = "view_update"
	PAGE_RELOAD   MessageType = "page_reload"
	THEME_CHANGED MessageType = "theme_changed"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Origin    string         `json:"origin"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus delivers events to in-process handlers and, when a valkey client is
// configured, mirrors them to other gateway instances over pub/sub.
type EventBus struct {
	client    valkey.Client
	logger    logger.Logger
	config    config.Config
	origin    string
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mutex     sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates an event bus. client may be nil, in which case events stay local.
func New(client valkey.Client, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		logger:    logger.New("EventBus"),
		config:    config,
		origin:    uuid.New().String(),
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	if event.Origin == "" {
		event.Origin = eb.origin
	}

	eb.notifyLocalHandlers(channel, event)

	if eb.client == nil {
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel",
			channel,
			"eventID",
			event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := eb.client != nil && !eb.listening[channel]
	if startListener {
		eb.listening[channel] = true
	}
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if startListener {
		go eb.listenToChannel(channel)
	}

	return nil
}

// notifyLocalHandlers runs handlers inline so a channel's events reach them in
// publish order.
func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		if err := handler(event); err != nil {
			log.Er(
				"handler failed",
				err,
				"channel",
				channel,
				"eventID",
				event.ID,
				"handlerIndex",
				i,
			)
		}
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	ctx, cancel := context.WithCancel(eb.ctx)
	defer cancel()

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			eb.handleRemoteMessage(channel, msg.Message)
		},
	)
	if err != nil && ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

// handleRemoteMessage delivers an event published by another instance. Our own
// events were already delivered when published.
func (eb *EventBus) handleRemoteMessage(channel Channel, message string) {
	log := eb.logger.Function("handleRemoteMessage")

	var event Event
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Er("failed to unmarshal event", err, "channel", channel, "message", message)
		return
	}

	if event.Origin == eb.origin {
		return
	}

	log.Debug(
		"Received event from valkey",
		"channel",
		channel,
		"eventID",
		event.ID,
		"eventType",
		event.Type,
	)
	eb.notifyLocalHandlers(channel, event)
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}

func (eb *EventBus) PublishView(view types.IndicatorView) {
	eb.publishUI(VIEW_UPDATE, map[string]any{"indicator": view})
}

func (eb *EventBus) PublishReload() {
	eb.publishUI(PAGE_RELOAD, map[string]any{})
}

func (eb *EventBus) PublishTheme(theme types.Theme) {
	eb.publishUI(THEME_CHANGED, map[string]any{"theme": theme})
}

func (eb *EventBus) publishUI(eventType MessageType, data map[string]any) {
	if err := eb.Publish(UI_CHANNEL, Event{Type: eventType, Data: data}); err != nil {
		eb.logger.Function("publishUI").Warn("UI event not mirrored", "eventType", eventType, "error", err)
	}
}
