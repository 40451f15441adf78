package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Event struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Notifier publishes usecase events through the hub.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) NotifyUser(userID uuid.UUID, event string, payload any) {
	if b, ok := n.encode(event, payload); ok {
		n.hub.SendToUser(userID, b)
	}
}

func (n *Notifier) Broadcast(event string, payload any) {
	if b, ok := n.encode(event, payload); ok {
		n.hub.Broadcast(b)
	}
}

func (n *Notifier) encode(event string, payload any) ([]byte, bool) {
	if n == nil || n.hub == nil {
		return nil, false
	}
	b, err := json.Marshal(Event{Type: event, Payload: payload, Timestamp: n.now().UTC().Format(time.RFC3339)})
	if err != nil {
		n.hub.log.Warn("encode ws event", zap.String("type", event), zap.Error(err))
		return nil, false
	}
	return b, true
}
