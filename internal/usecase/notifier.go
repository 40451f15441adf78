package usecase

import "github.com/google/uuid"

// Event names pushed to websocket clients.
const (
	EventRecommendationsReady  = "recommendations_ready"
	EventMatchingConfigUpdated = "matching_config_updated"
)

// Notifier pushes events to connected clients. Delivery is best effort.
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, payload any)
	Broadcast(event string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(uuid.UUID, string, any) {}
func (nopNotifier) Broadcast(string, any)             {}
