package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobmatch/internal/database"
)

// DocumentStore keeps documents in process memory. It backs tests and the
// memory store driver.
type DocumentStore struct {
	mu    sync.RWMutex
	colls map[string]map[string]database.Document
	now   func() time.Time
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		colls: map[string]map[string]database.Document{},
		now:   time.Now,
	}
}

// WithClock replaces the clock used to hide expired documents.
func (s *DocumentStore) WithClock(now func() time.Time) *DocumentStore {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *DocumentStore) FindOne(_ context.Context, collection, id string) (database.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.colls[collection][id]
	if !ok || d.Expired(s.now()) {
		return database.Document{}, database.ErrDocumentNotFound
	}
	return clone(d), nil
}

func (s *DocumentStore) Find(_ context.Context, collection string, q database.Query) ([]database.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]database.Document, 0)
	for _, d := range s.colls[collection] {
		if d.Expired(now) {
			continue
		}
		if !q.CreatedFrom.IsZero() && d.CreatedAt.Before(q.CreatedFrom) {
			continue
		}
		if !database.MatchesKeys(d.Keys, q.Keys) {
			continue
		}
		out = append(out, clone(d))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *DocumentStore) Save(_ context.Context, collection string, doc database.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, doc)
	return nil
}

func (s *DocumentStore) SaveMany(_ context.Context, collection string, docs []database.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.put(collection, d)
	}
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.colls[collection][id]; !ok {
		return database.ErrDocumentNotFound
	}
	delete(s.colls[collection], id)
	return nil
}

func (s *DocumentStore) DeleteExpired(_ context.Context, collection string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, d := range s.colls[collection] {
		if d.Expired(now) {
			delete(s.colls[collection], id)
			n++
		}
	}
	return n, nil
}

func (s *DocumentStore) Ping(context.Context) error { return nil }

func (s *DocumentStore) Close(context.Context) error { return nil }

func (s *DocumentStore) put(collection string, d database.Document) {
	c, ok := s.colls[collection]
	if !ok {
		c = map[string]database.Document{}
		s.colls[collection] = c
	}
	c[d.ID] = clone(d)
}

func clone(d database.Document) database.Document {
	out := d
	if d.Keys != nil {
		out.Keys = make(map[string]string, len(d.Keys))
		for k, v := range d.Keys {
			out.Keys[k] = v
		}
	}
	if d.Body != nil {
		out.Body = append([]byte(nil), d.Body...)
	}
	if d.ExpiresAt != nil {
		t := *d.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}
