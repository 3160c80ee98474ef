package websockets

import (
	"strconv"
	"sync"
	"time"

	"chessyui/internal/events"
	"chessyui/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING                 = "ping"
	MESSAGE_TYPE_PONG                 = "pong"
	MESSAGE_TYPE_ERROR                = "error"
	MESSAGE_TYPE_STATE                = "state"
	MESSAGE_TYPE_GET_STATE            = "get_state"
	MESSAGE_TYPE_DISMISS_NOTIFICATION = "dismiss_notification"
	MESSAGE_TYPE_TOGGLE_PANEL         = "toggle_panel"
	MESSAGE_TYPE_CLOSE_PANEL          = "close_panel"
	PING_INTERVAL                     = 30 * time.Second
	PONG_TIMEOUT                      = 60 * time.Second
	WRITE_TIMEOUT                     = 10 * time.Second
	MAX_MESSAGE_SIZE                  = 64 * 1024
	SEND_CHANNEL_SIZE                 = 64
	BROADCAST_CHANNEL_SIZE            = 256
	// Channels
	UI_CHANNEL     = "ui"
	SYSTEM_CHANNEL = "system"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// StateProvider returns the full page state sent to a client when it connects.
type StateProvider interface {
	UIState() types.UIState
}

// ClientActions are the indicator interactions a browser can trigger.
type ClientActions interface {
	Dismiss(id int) bool
	TogglePanel() bool
	ClosePanel()
}

type Client struct {
	ID         string
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
	closed     chan struct{}
	closeOnce  sync.Once
}

func newClient(id string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:         id,
		Connection: conn,
		Manager:    manager,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
		closed:     make(chan struct{}),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

type Manager struct {
	hub      *Hub
	log      logger.Logger
	eventBus *events.EventBus
	state    StateProvider
	actions  ClientActions
}

func New(
	eventBus *events.EventBus,
	state StateProvider,
	actions ClientActions,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message, BROADCAST_CHANNEL_SIZE),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
			done:       make(chan struct{}),
		},
		log:      log,
		eventBus: eventBus,
		state:    state,
		actions:  actions,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if eventBus != nil {
		manager.subscribeToUIEvents()
	}

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")
	clientID := uuid.New().String()

	client := newClient(clientID, c, m)

	if err := c.WriteJSON(m.stateMessage()); err != nil {
		log.Er("failed to send initial state", err, "clientID", clientID)
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	if !m.hub.join(client) {
		_ = c.Close()
		return
	}
	defer func() {
		log.Info("Client disconnected", "clientID", clientID)
		m.hub.leave(client)
		if err := c.Close(); err != nil {
			log.Debug("connection already closed", "clientID", clientID, "error", err)
		}
	}()

	go client.readPump()
	client.writePump()
}

func (m *Manager) stateMessage() Message {
	var data map[string]any
	if m.state != nil {
		state := m.state.UIState()
		data = map[string]any{
			"indicator": state.Indicator,
			"theme":     state.Theme,
		}
	}

	return Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_STATE,
		Channel:   UI_CHANNEL,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func (m *Manager) BroadcastMessage(message Message) {
	log := m.log.Function("BroadcastMessage")

	select {
	case m.hub.broadcast <- message:
		log.Debug("Message sent to broadcast channel", "messageID", message.ID, "type", message.Type)
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (m *Manager) ClientCount() int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return len(m.hub.clients)
}

func (m *Manager) Close() {
	m.hub.closeOnce.Do(func() {
		close(m.hub.done)
	})
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.leave(c)
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		err := c.Connection.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			break
		}

		message.ID = uuid.New().String()
		message.Timestamp = time.Now()

		c.routeMessage(message)
	}
}

// routeMessage handles a message sent by the browser. Replies go to this client
// only; state changes reach everybody through the event bus.
func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")
	actions := c.Manager.actions

	switch message.Type {
	case MESSAGE_TYPE_PING:
		c.reply(Message{Type: MESSAGE_TYPE_PONG, Channel: SYSTEM_CHANNEL})

	case MESSAGE_TYPE_GET_STATE:
		c.reply(c.Manager.stateMessage())

	case MESSAGE_TYPE_DISMISS_NOTIFICATION:
		id, ok := notificationID(message.Data)
		if !ok {
			c.replyError("invalid notification id")
			return
		}
		if actions == nil || !actions.Dismiss(id) {
			log.Debug("Notification already gone", "clientID", c.ID, "notificationID", id)
		}

	case MESSAGE_TYPE_TOGGLE_PANEL:
		if actions != nil {
			actions.TogglePanel()
		}

	case MESSAGE_TYPE_CLOSE_PANEL:
		if actions != nil {
			actions.ClosePanel()
		}

	default:
		log.Warn("Unknown message type", "clientID", c.ID, "type", message.Type)
		c.replyError("unknown message type: " + message.Type)
	}
}

func (c *Client) reply(message Message) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	select {
	case c.send <- message:
	case <-c.closed:
	default:
		c.Manager.log.Function("reply").Warn("Client send channel full, dropping reply", "clientID", c.ID)
	}
}

func (c *Client) replyError(reason string) {
	c.reply(Message{
		Type:    MESSAGE_TYPE_ERROR,
		Channel: SYSTEM_CHANNEL,
		Data:    map[string]any{"reason": reason},
	})
}

// notificationID accepts the id as a JSON number or a numeric string.
func notificationID(data map[string]any) (int, bool) {
	switch v := data["id"].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		id, err := strconv.Atoi(v)
		return id, err == nil
	}
	return 0, false
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case <-c.closed:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID, "type", message.Type)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) subscribeToUIEvents() {
	log := m.log.Function("subscribeToUIEvents")
	log.Info("Starting UI events subscription")

	err := m.eventBus.Subscribe(events.UI_CHANNEL, func(event events.Event) error {
		m.BroadcastMessage(messageFromEvent(event))
		return nil
	})
	if err != nil {
		log.Er("Failed to subscribe to UI events", err)
	}
}

func messageFromEvent(event events.Event) Message {
	return Message{
		ID:        event.ID,
		Type:      string(event.Type),
		Channel:   UI_CHANNEL,
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}
}
