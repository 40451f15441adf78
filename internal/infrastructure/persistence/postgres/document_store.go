package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobmatch/internal/database"

	"github.com/jackc/pgx/v5"
)

// DocumentStore keeps documents in the jsonb "documents" table. The
// underlying DB is owned by the caller and is not closed by Close.
type DocumentStore struct {
	db  database.DB
	now func() time.Time
}

func NewDocumentStore(db database.DB) *DocumentStore {
	return &DocumentStore{db: db, now: time.Now}
}

const upsertDocument = `
INSERT INTO documents (collection, id, keys, body, created_at, expires_at)
VALUES ($1, $2, $3::jsonb, $4::jsonb, $5, $6)
ON CONFLICT (collection, id) DO UPDATE SET
	keys = EXCLUDED.keys,
	body = EXCLUDED.body,
	expires_at = EXCLUDED.expires_at,
	updated_at = now()`

func (s *DocumentStore) FindOne(ctx context.Context, collection, id string) (database.Document, error) {
	if s == nil || s.db == nil {
		return database.Document{}, database.ErrNilDB
	}
	row := s.db.QueryRow(ctx, `
SELECT id, keys, body, created_at, expires_at
FROM documents
WHERE collection = $1 AND id = $2 AND (expires_at IS NULL OR expires_at > $3)`,
		collection, id, s.now().UTC(),
	)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Document{}, database.ErrDocumentNotFound
		}
		return database.Document{}, err
	}
	return d, nil
}

func (s *DocumentStore) Find(ctx context.Context, collection string, q database.Query) ([]database.Document, error) {
	if s == nil || s.db == nil {
		return nil, database.ErrNilDB
	}
	keys, err := marshalKeys(q.Keys)
	if err != nil {
		return nil, err
	}
	var limit any
	if q.Limit > 0 {
		limit = q.Limit
	}

	rows, err := s.db.Query(ctx, `
SELECT id, keys, body, created_at, expires_at
FROM documents
WHERE collection = $1
	AND keys @> $2::jsonb
	AND created_at >= $3
	AND (expires_at IS NULL OR expires_at > $4)
ORDER BY created_at DESC, id ASC
LIMIT $5`,
		collection, keys, q.CreatedFrom.UTC(), s.now().UTC(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]database.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DocumentStore) Save(ctx context.Context, collection string, doc database.Document) error {
	if s == nil || s.db == nil {
		return database.ErrNilDB
	}
	args, err := upsertArgs(collection, doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, upsertDocument, args...)
	return err
}

// SaveMany writes every document in one transaction.
func (s *DocumentStore) SaveMany(ctx context.Context, collection string, docs []database.Document) error {
	if s == nil || s.db == nil {
		return database.ErrNilDB
	}
	if len(docs) == 0 {
		return nil
	}

	return database.WithTx(ctx, s.db, func(tx database.Tx) error {
		for _, d := range docs {
			args, err := upsertArgs(collection, d)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, upsertDocument, args...); err != nil {
				return fmt.Errorf("save document %s: %w", d.ID, err)
			}
		}
		return nil
	})
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if s == nil || s.db == nil {
		return database.ErrNilDB
	}
	n, err := s.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentStore) DeleteExpired(ctx context.Context, collection string, now time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, database.ErrNilDB
	}
	return s.db.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND expires_at IS NOT NULL AND expires_at <= $2`,
		collection, now.UTC(),
	)
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return database.ErrNilDB
	}
	return s.db.Ping(ctx)
}

func (s *DocumentStore) Close(context.Context) error { return nil }

func upsertArgs(collection string, d database.Document) ([]any, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	keys, err := marshalKeys(d.Keys)
	if err != nil {
		return nil, err
	}
	body := []byte(d.Body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var expires any
	if d.ExpiresAt != nil {
		expires = d.ExpiresAt.UTC()
	}
	return []any{collection, d.ID, string(keys), string(body), created.UTC(), expires}, nil
}

func marshalKeys(keys map[string]string) ([]byte, error) {
	if len(keys) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(keys)
}

func scanDocument(row database.Row) (database.Document, error) {
	var (
		d       database.Document
		keys    []byte
		body    []byte
		expires *time.Time
	)
	if err := row.Scan(&d.ID, &keys, &body, &d.CreatedAt, &expires); err != nil {
		return database.Document{}, err
	}
	if len(keys) > 0 {
		if err := json.Unmarshal(keys, &d.Keys); err != nil {
			return database.Document{}, fmt.Errorf("decode keys of %s: %w", d.ID, err)
		}
	}
	d.Body = json.RawMessage(body)
	d.ExpiresAt = expires
	return d, nil
}
