// Package realtime fans notulen events out to connected websocket clients
// and executes the commands they send.
package realtime

import (
	"sync"

	"github.com/dkl25/admin-api/pkg/models"
	"go.uber.org/zap"
)

// sendBuffer is the number of outbound messages queued per client before
// new ones are dropped.
const sendBuffer = 32

type client struct {
	user   models.User
	filter string
	send   chan models.LiveMessage
}

func (c *client) wants(msg models.LiveMessage) bool {
	return c.filter == "" || msg.NotulenID == "" || c.filter == msg.NotulenID
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Publish queues msg for every client whose filter matches. Slow clients
// lose the message instead of blocking the publisher.
func (h *Hub) Publish(msg models.LiveMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.wants(msg) {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.log.Warn("dropping live message for slow client",
				zap.String("type", string(msg.Type)),
				zap.String("user_id", c.user.ID),
			)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(user models.User, filter string) *client {
	c := &client{
		user:   user,
		filter: filter,
		send:   make(chan models.LiveMessage, sendBuffer),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("live client connected", zap.String("user_id", user.ID), zap.String("notulen_id", filter))
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	h.log.Debug("live client disconnected", zap.String("user_id", c.user.ID))
}
