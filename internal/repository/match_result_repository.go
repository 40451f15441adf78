package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/match"

	"github.com/google/uuid"
)

type MatchResultRepository interface {
	SaveMany(ctx context.Context, results []match.MatchResult) error
	Save(ctx context.Context, m match.MatchResult) error
	GetByID(ctx context.Context, id uuid.UUID) (match.MatchResult, error)
	// ListByUser returns live results created at or after from, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]match.MatchResult, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type DocumentMatchResultRepository struct {
	store database.DocumentStore
}

func NewDocumentMatchResultRepository(store database.DocumentStore) *DocumentMatchResultRepository {
	return &DocumentMatchResultRepository{store: store}
}

func (r *DocumentMatchResultRepository) SaveMany(ctx context.Context, results []match.MatchResult) error {
	if len(results) == 0 {
		return nil
	}
	docs := make([]database.Document, 0, len(results))
	for _, m := range results {
		d, err := resultDocument(m)
		if err != nil {
			return err
		}
		docs = append(docs, d)
	}
	return r.store.SaveMany(ctx, database.CollectionMatchResults, docs)
}

func (r *DocumentMatchResultRepository) Save(ctx context.Context, m match.MatchResult) error {
	d, err := resultDocument(m)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, database.CollectionMatchResults, d)
}

func (r *DocumentMatchResultRepository) GetByID(ctx context.Context, id uuid.UUID) (match.MatchResult, error) {
	d, err := r.store.FindOne(ctx, database.CollectionMatchResults, id.String())
	if err != nil {
		if errors.Is(err, database.ErrDocumentNotFound) {
			return match.MatchResult{}, ErrNotFound
		}
		return match.MatchResult{}, err
	}
	return decodeResult(d)
}

func (r *DocumentMatchResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]match.MatchResult, error) {
	docs, err := r.store.Find(ctx, database.CollectionMatchResults, database.Query{
		Keys:        map[string]string{"userId": userID.String()},
		CreatedFrom: from,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]match.MatchResult, 0, len(docs))
	for _, d := range docs {
		m, err := decodeResult(d)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *DocumentMatchResultRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.store.DeleteExpired(ctx, database.CollectionMatchResults, now)
}

func resultDocument(m match.MatchResult) (database.Document, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return database.Document{}, err
	}
	d := database.Document{
		ID:        m.ID.String(),
		Keys:      map[string]string{"userId": m.UserID.String(), "jobId": m.JobID.String()},
		Body:      body,
		CreatedAt: m.CreatedAt,
	}
	if !m.ExpiresAt.IsZero() {
		exp := m.ExpiresAt
		d.ExpiresAt = &exp
	}
	return d, nil
}

func decodeResult(d database.Document) (match.MatchResult, error) {
	var m match.MatchResult
	if err := json.Unmarshal(d.Body, &m); err != nil {
		return match.MatchResult{}, fmt.Errorf("decode match result %s: %w", d.ID, err)
	}
	return m, nil
}
