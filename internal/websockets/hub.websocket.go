package websockets

import (
	"sync"
	"time"
)

const slowClientTimeout = 5 * time.Second

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
	done       chan struct{}
	closeOnce  sync.Once
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)

		case <-h.done:
			h.mutex.Lock()
			for id, client := range h.clients {
				client.close()
				delete(h.clients, id)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// join hands the client to the hub. It reports false once the hub is stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	_, exists := m.hub.clients[client.ID]
	delete(m.hub.clients, client.ID)
	m.hub.mutex.Unlock()

	client.close()

	if exists {
		log.Info("Client unregistered", "clientID", client.ID)
	}
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	m.hub.clients[client.ID] = client
	count := len(m.hub.clients)
	m.hub.mutex.Unlock()

	log.Info("Client registered", "clientID", client.ID, "clientCount", count)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		log.Debug("No active clients to broadcast to", "messageID", message.ID)
		return
	}

	sentCount := 0
	totalClients := len(h.clients)

	for clientID, client := range h.clients {
		select {
		case client.send <- message:
			sentCount++
		default:
			go func(c *Client, cID string, msg Message) {
				select {
				case c.send <- msg:
					log.Info("Message sent after retry", "clientID", cID)
				case <-c.closed:
				case <-time.After(slowClientTimeout):
					_ = log.Error("Client too slow, disconnecting", "clientID", cID)
					h.leave(c)
				}
			}(client, clientID, message)
		}
	}

	log.Debug(
		"Broadcast complete",
		"messageID",
		message.ID,
		"type",
		message.Type,
		"sentTo",
		sentCount,
		"totalClients",
		totalClients,
	)
}
