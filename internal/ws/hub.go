package ws

import (
	"context"
	"sync"

	"jobmatch/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type message struct {
	// userID nil means every client.
	userID *uuid.UUID
	data   []byte
}

type Hub struct {
	clients    map[*Client]struct{}
	byUser     map[uuid.UUID]map[*Client]struct{}
	outbound   chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		byUser:     make(map[uuid.UUID]map[*Client]struct{}),
		outbound:   make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		log:        logger.OrNop(log).Named("ws"),
	}
}

// Run serves registrations and deliveries until ctx is done, then closes
// every client. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			close(h.done)
			for c := range h.clients {
				h.removeLocked(c)
			}
			h.mutex.Unlock()
			h.drainRegistrations()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			if h.byUser[client.userID] == nil {
				h.byUser[client.userID] = make(map[*Client]struct{})
			}
			h.byUser[client.userID][client] = struct{}{}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("ws connected", zap.String("user_id", client.userID.String()), zap.Int("total_clients", total))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.removeLocked(client)
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("ws disconnected", zap.String("user_id", client.userID.String()), zap.Int("total_clients", total))

		case msg := <-h.outbound:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	targets := h.clients
	if msg.userID != nil {
		targets = h.byUser[*msg.userID]
	}
	// Slow clients are dropped rather than blocking the hub.
	for c := range targets {
		select {
		case c.send <- msg.data:
		default:
			h.removeLocked(c)
			h.log.Warn("ws client dropped", zap.String("user_id", c.userID.String()), zap.String("reason", "send_buffer_full"))
		}
	}
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if set := h.byUser[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	close(c.send)
}

// drainRegistrations closes clients queued before shutdown that Run never
// picked up.
func (h *Hub) drainRegistrations() {
	for {
		select {
		case c := <-h.register:
			if c != nil {
				close(c.send)
			}
		default:
			return
		}
	}
}

// Register hands client to Run. Once the hub has stopped the client's send
// channel is closed instead, which ends its write pump.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case <-h.done:
		close(client.send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister is a no-op after shutdown; Run already closed every client.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser queues data for every connection of userID.
func (h *Hub) SendToUser(userID uuid.UUID, data []byte) {
	h.enqueue(message{userID: &userID, data: data})
}

func (h *Hub) Broadcast(data []byte) {
	h.enqueue(message{data: data})
}

func (h *Hub) enqueue(m message) {
	if h == nil {
		return
	}
	select {
	case h.outbound <- m:
	default:
		h.log.Warn("ws message dropped", zap.String("reason", "buffer_full"))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// UserClientCount reports the open connections of userID.
func (h *Hub) UserClientCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.byUser[userID])
}
