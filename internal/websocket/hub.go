package websocket

import (
	"encoding/json"
	"sync"

	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/pkg/eventbus"

	"github.com/google/uuid"
)

// Hub fans dashboard events out to every connected browser tab. There is no
// per-user routing: the dashboard is single-operator, every client sees every
// session update.
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.Id})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.Id]; ok {
				delete(h.clients, client.Id)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.Id})
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes an event envelope to all connected clients. Slow clients
// with a full send buffer are skipped rather than blocking the hub.
func (h *Hub) Broadcast(env eventbus.Envelope) {
	data, err := json.Marshal(map[string]interface{}{
		"type": env.Type,
		"data": env.Payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal broadcast", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Dropping broadcast for slow client", map[string]interface{}{"client_id": client.Id})
		}
	}
}
