package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const recommendationCachePrefix = "recs:"

type recommendationCacheKeyInput struct {
	UserID        string `json:"user_id"`
	Algorithm     string `json:"algorithm"`
	ProfileID     string `json:"profile_id"`
	CorpusVersion string `json:"corpus_version"`
	ConfigVersion string `json:"config_version"`
	Limit         int    `json:"limit"`
}

// RecommendationCacheKey derives the cache key of one recommendation run.
// The config timestamp is part of the key so weight edits never serve old
// scores; corpus changes are picked up through corpusVersion.
func RecommendationCacheKey(userID uuid.UUID, algorithm string, profileID *uuid.UUID, corpusVersion string, configUpdatedAt time.Time, limit int) string {
	in := recommendationCacheKeyInput{
		UserID:        userID.String(),
		Algorithm:     algorithm,
		CorpusVersion: corpusVersion,
		ConfigVersion: configUpdatedAt.UTC().Format(time.RFC3339Nano),
		Limit:         limit,
	}
	if profileID != nil {
		in.ProfileID = profileID.String()
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return recommendationCachePrefix + hex.EncodeToString(sum[:])
}
