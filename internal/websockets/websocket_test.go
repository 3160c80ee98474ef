package websockets

import (
	"testing"
	"time"

	"chessyui/config"
	"chessyui/internal/events"
	"chessyui/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct{}

func (fakeState) UIState() types.UIState {
	return types.UIState{
		Indicator: types.IndicatorView{EmptyMessage: types.EmptyTaskListMessage},
		Theme:     types.ThemeDark,
	}
}

type fakeActions struct {
	dismissed []int
	toggles   int
	closes    int
}

func (f *fakeActions) Dismiss(id int) bool {
	f.dismissed = append(f.dismissed, id)
	return id == 1
}

func (f *fakeActions) TogglePanel() bool {
	f.toggles++
	return true
}

func (f *fakeActions) ClosePanel() { f.closes++ }

func newTestManager(t *testing.T, bus *events.EventBus, actions ClientActions) *Manager {
	t.Helper()
	manager, err := New(bus, fakeState{}, actions)
	require.NoError(t, err)
	t.Cleanup(manager.Close)
	return manager
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case message := <-client.send:
		return message
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestNotificationID(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		want   int
		wantOK bool
	}{
		{"number", map[string]any{"id": float64(3)}, 3, true},
		{"string", map[string]any{"id": "12"}, 12, true},
		{"fraction", map[string]any{"id": 1.5}, 0, false},
		{"bad string", map[string]any{"id": "abc"}, 0, false},
		{"missing", map[string]any{}, 0, false},
		{"nil data", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := notificationID(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestMessageFromEvent(t *testing.T) {
	now := time.Now()
	message := messageFromEvent(events.Event{
		ID:        "abc",
		Type:      events.PAGE_RELOAD,
		Channel:   events.UI_CHANNEL,
		Data:      map[string]any{"x": 1},
		Timestamp: now,
	})

	assert.Equal(t, Message{
		ID:        "abc",
		Type:      "page_reload",
		Channel:   UI_CHANNEL,
		Data:      map[string]any{"x": 1},
		Timestamp: now,
	}, message)
}

func TestManager_StateMessage(t *testing.T) {
	manager := newTestManager(t, nil, nil)

	message := manager.stateMessage()
	assert.Equal(t, MESSAGE_TYPE_STATE, message.Type)
	assert.Equal(t, UI_CHANNEL, message.Channel)
	assert.Equal(t, types.ThemeDark, message.Data["theme"])
	assert.Equal(t, types.EmptyTaskListMessage, message.Data["indicator"].(types.IndicatorView).EmptyMessage)
}

func TestClient_RouteMessage(t *testing.T) {
	actions := &fakeActions{}
	manager := newTestManager(t, nil, actions)
	client := newClient("client-1", nil, manager)

	client.routeMessage(Message{Type: MESSAGE_TYPE_PING})
	assert.Equal(t, MESSAGE_TYPE_PONG, receive(t, client).Type)

	client.routeMessage(Message{Type: MESSAGE_TYPE_GET_STATE})
	assert.Equal(t, MESSAGE_TYPE_STATE, receive(t, client).Type)

	client.routeMessage(Message{Type: MESSAGE_TYPE_DISMISS_NOTIFICATION, Data: map[string]any{"id": float64(1)}})
	client.routeMessage(Message{Type: MESSAGE_TYPE_DISMISS_NOTIFICATION, Data: map[string]any{"id": "7"}})
	assert.Equal(t, []int{1, 7}, actions.dismissed)

	client.routeMessage(Message{Type: MESSAGE_TYPE_DISMISS_NOTIFICATION, Data: map[string]any{"id": "x"}})
	reply := receive(t, client)
	assert.Equal(t, MESSAGE_TYPE_ERROR, reply.Type)
	assert.Equal(t, "invalid notification id", reply.Data["reason"])

	client.routeMessage(Message{Type: MESSAGE_TYPE_TOGGLE_PANEL})
	client.routeMessage(Message{Type: MESSAGE_TYPE_CLOSE_PANEL})
	assert.Equal(t, 1, actions.toggles)
	assert.Equal(t, 1, actions.closes)

	client.routeMessage(Message{Type: "subscribe"})
	reply = receive(t, client)
	assert.Equal(t, MESSAGE_TYPE_ERROR, reply.Type)
	assert.Equal(t, "unknown message type: subscribe", reply.Data["reason"])
}

func TestManager_BroadcastsUIEvents(t *testing.T) {
	bus := events.New(nil, config.Config{})
	manager := newTestManager(t, bus, nil)

	client := newClient("client-1", nil, manager)
	require.True(t, manager.hub.join(client))
	require.Eventually(t, func() bool { return manager.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	bus.PublishTheme(types.ThemeDark)

	message := receive(t, client)
	assert.Equal(t, string(events.THEME_CHANGED), message.Type)
	assert.Equal(t, types.ThemeDark, message.Data["theme"])

	manager.hub.leave(client)
	select {
	case <-client.closed:
	case <-time.After(time.Second):
		t.Fatal("client not closed after leaving")
	}
	assert.Zero(t, manager.ClientCount())
}

func TestManager_CloseStopsHub(t *testing.T) {
	manager, err := New(nil, nil, nil)
	require.NoError(t, err)

	manager.Close()
	manager.Close()

	assert.Eventually(t, func() bool {
		return !manager.hub.join(newClient("late", nil, manager))
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, manager.stateMessage().Data)
}
