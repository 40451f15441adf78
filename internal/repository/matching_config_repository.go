package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/matching"
)

var ErrNotFound = errors.New("not found")

type MatchingConfigRepository interface {
	Get(ctx context.Context) (matching.MatchingConfig, error)
	Save(ctx context.Context, cfg matching.MatchingConfig) error
}

// DocumentMatchingConfigRepository stores the singleton config, profiles
// embedded, as one document.
type DocumentMatchingConfigRepository struct {
	store database.DocumentStore
}

func NewDocumentMatchingConfigRepository(store database.DocumentStore) *DocumentMatchingConfigRepository {
	return &DocumentMatchingConfigRepository{store: store}
}

func (r *DocumentMatchingConfigRepository) Get(ctx context.Context) (matching.MatchingConfig, error) {
	d, err := r.store.FindOne(ctx, database.CollectionMatchingConfig, matching.ConfigID)
	if err != nil {
		if errors.Is(err, database.ErrDocumentNotFound) {
			return matching.MatchingConfig{}, ErrNotFound
		}
		return matching.MatchingConfig{}, err
	}
	var cfg matching.MatchingConfig
	if err := json.Unmarshal(d.Body, &cfg); err != nil {
		return matching.MatchingConfig{}, fmt.Errorf("decode matching config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = []matching.MatchingProfile{}
	}
	return cfg, nil
}

// Save replaces the config document. CreatedAt keeps the first stored
// value; a config without one inherits it from the existing document.
func (r *DocumentMatchingConfigRepository) Save(ctx context.Context, cfg matching.MatchingConfig) error {
	cfg.ID = matching.ConfigID
	if cfg.CreatedAt.IsZero() {
		prev, err := r.store.FindOne(ctx, database.CollectionMatchingConfig, matching.ConfigID)
		switch {
		case err == nil:
			cfg.CreatedAt = prev.CreatedAt
		case errors.Is(err, database.ErrDocumentNotFound):
			cfg.CreatedAt = cfg.UpdatedAt
		default:
			return err
		}
		if cfg.CreatedAt.IsZero() {
			cfg.CreatedAt = time.Now().UTC()
		}
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, database.CollectionMatchingConfig, database.Document{
		ID:        matching.ConfigID,
		Body:      body,
		CreatedAt: cfg.CreatedAt,
	})
}
