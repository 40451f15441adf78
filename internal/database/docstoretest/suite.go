// Package docstoretest holds the behaviour every DocumentStore backend
// must share.
package docstoretest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"jobmatch/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store against collection, which must start empty.
func Run(t *testing.T, store database.DocumentStore, collection string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	user := uuid.NewString()
	other := uuid.NewString()

	doc := func(userID string, created time.Time, expires *time.Time, score float64) database.Document {
		body, err := json.Marshal(map[string]any{"userId": userID, "matchScore": score})
		require.NoError(t, err)
		return database.Document{
			ID:        uuid.NewString(),
			Keys:      map[string]string{"userId": userID},
			Body:      body,
			CreatedAt: created,
			ExpiresAt: expires,
		}
	}
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	older := doc(user, now.Add(-2*time.Hour), &future, 50)
	newer := doc(user, now.Add(-time.Hour), &future, 70)
	foreign := doc(other, now.Add(-time.Hour), &future, 90)
	expired := doc(user, now.Add(-3*time.Hour), &past, 10)

	t.Run("save many and find by keys newest first", func(t *testing.T) {
		require.NoError(t, store.SaveMany(ctx, collection, []database.Document{older, newer, foreign, expired}))

		got, err := store.Find(ctx, collection, database.Query{Keys: map[string]string{"userId": user}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)
		assert.JSONEq(t, string(newer.Body), string(got[0].Body))
	})

	t.Run("created from and limit", func(t *testing.T) {
		got, err := store.Find(ctx, collection, database.Query{
			Keys:        map[string]string{"userId": user},
			CreatedFrom: now.Add(-90 * time.Minute),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, newer.ID, got[0].ID)

		got, err = store.Find(ctx, collection, database.Query{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("expired documents are invisible", func(t *testing.T) {
		_, err := store.FindOne(ctx, collection, expired.ID)
		assert.True(t, errors.Is(err, database.ErrDocumentNotFound))
	})

	t.Run("save upserts", func(t *testing.T) {
		updated := newer
		updated.Body = json.RawMessage(`{"userId":"` + user + `","matchScore":71}`)
		require.NoError(t, store.Save(ctx, collection, updated))

		got, err := store.FindOne(ctx, collection, newer.ID)
		require.NoError(t, err)
		assert.JSONEq(t, string(updated.Body), string(got.Body))
		assert.Equal(t, user, got.Keys["userId"])
	})

	t.Run("delete expired", func(t *testing.T) {
		n, err := store.DeleteExpired(ctx, collection, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, collection, foreign.ID))
		err := store.Delete(ctx, collection, foreign.ID)
		assert.True(t, errors.Is(err, database.ErrDocumentNotFound))
	})
}
