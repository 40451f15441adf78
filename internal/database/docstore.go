package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrDocumentNotFound = errors.New("document not found")

// Collections used by the matching service.
const (
	CollectionMatchingConfig = "matching_config"
	CollectionMatchResults   = "match_results"
	CollectionActivityLog    = "activity_log"
)

// Document is the unit a DocumentStore persists. Keys are the indexed
// equality fields (for example "userId"); Body is the JSON payload.
type Document struct {
	ID        string
	Keys      map[string]string
	Body      json.RawMessage
	CreatedAt time.Time
	ExpiresAt *time.Time
}

func (d Document) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && !now.Before(*d.ExpiresAt)
}

// Query selects live documents whose Keys contain every pair in Keys and
// that were created at or after CreatedFrom. Results come newest first.
// Limit <= 0 means no limit.
type Query struct {
	Keys        map[string]string
	CreatedFrom time.Time
	Limit       int
}

// DocumentStore is a minimal document-oriented persistence port. Expired
// documents are invisible to FindOne and Find. Save and SaveMany upsert by
// ID; concurrent writers to the same ID resolve last-writer-wins.
type DocumentStore interface {
	FindOne(ctx context.Context, collection, id string) (Document, error)
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Save(ctx context.Context, collection string, doc Document) error
	SaveMany(ctx context.Context, collection string, docs []Document) error
	Delete(ctx context.Context, collection, id string) error
	DeleteExpired(ctx context.Context, collection string, now time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// MatchesKeys reports whether have carries every pair of want.
func MatchesKeys(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
