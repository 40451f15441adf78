package repository

import (
	"context"
	"encoding/json"
	"time"

	"jobmatch/internal/database"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

type ActivityEntry struct {
	ID            uuid.UUID `json:"id"`
	Action        string    `json:"action"`
	Severity      Severity  `json:"severity"`
	ActorID       string    `json:"actorId"`
	ChangeSummary string    `json:"changeSummary"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ActivityRepository interface {
	Append(ctx context.Context, e ActivityEntry) error
}

type DocumentActivityRepository struct {
	store database.DocumentStore
}

func NewDocumentActivityRepository(store database.DocumentStore) *DocumentActivityRepository {
	return &DocumentActivityRepository{store: store}
}

func (r *DocumentActivityRepository) Append(ctx context.Context, e ActivityEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, database.CollectionActivityLog, database.Document{
		ID:        e.ID.String(),
		Keys:      map[string]string{"actorId": e.ActorID, "action": e.Action},
		Body:      body,
		CreatedAt: e.CreatedAt,
	})
}
