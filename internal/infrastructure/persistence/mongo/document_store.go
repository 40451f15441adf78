package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// record is the stored shape of a database.Document. Body is kept as a
// native sub-document so it stays queryable from the mongo shell.
type record struct {
	ID        string            `bson:"_id"`
	Keys      map[string]string `bson:"keys"`
	Body      bson.D            `bson:"body"`
	CreatedAt time.Time         `bson:"createdAt"`
	ExpiresAt *time.Time        `bson:"expiresAt,omitempty"`
}

// DocumentStore maps each collection name onto a MongoDB collection.
type DocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

func Connect(ctx context.Context, uri, dbName string) (*DocumentStore, error) {
	uri = strings.TrimSpace(uri)
	dbName = strings.TrimSpace(dbName)
	if uri == "" || dbName == "" {
		return nil, fmt.Errorf("mongo uri and database are required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &DocumentStore{client: client, db: client.Database(dbName), now: time.Now}, nil
}

// EnsureIndexes creates the lookup indexes and the TTL index that lets the
// server drop expired documents on its own.
func (s *DocumentStore) EnsureIndexes(ctx context.Context, collections ...string) error {
	for _, c := range collections {
		_, err := s.db.Collection(c).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "keys.userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		})
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", c, err)
		}
	}
	return nil
}

func (s *DocumentStore) FindOne(ctx context.Context, collection, id string) (database.Document, error) {
	filter := bson.D{{Key: "_id", Value: id}}
	filter = append(filter, s.liveFilter()...)

	var r record
	if err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return database.Document{}, database.ErrDocumentNotFound
		}
		return database.Document{}, err
	}
	return fromRecord(r)
}

func (s *DocumentStore) Find(ctx context.Context, collection string, q database.Query) ([]database.Document, error) {
	filter := s.liveFilter()
	for k, v := range q.Keys {
		filter = append(filter, bson.E{Key: "keys." + k, Value: v})
	}
	if !q.CreatedFrom.IsZero() {
		filter = append(filter, bson.E{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: q.CreatedFrom.UTC()}}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var recs []record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}

	out := make([]database.Document, 0, len(recs))
	for _, r := range recs {
		d, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *DocumentStore) Save(ctx context.Context, collection string, doc database.Document) error {
	r, err := toRecord(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.D{{Key: "_id", Value: r.ID}}, r, options.Replace().SetUpsert(true))
	return err
}

// SaveMany sends one unordered bulk write. MongoDB does not make the batch
// atomic; documents written before a failure stay written.
func (s *DocumentStore) SaveMany(ctx context.Context, collection string, docs []database.Document) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, d := range docs {
		r, err := toRecord(d)
		if err != nil {
			return err
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: r.ID}}).
			SetReplacement(r).
			SetUpsert(true))
	}
	_, err := s.db.Collection(collection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentStore) DeleteExpired(ctx context.Context, collection string, now time.Time) (int64, error) {
	res, err := s.db.Collection(collection).DeleteMany(ctx, bson.D{
		{Key: "expiresAt", Value: bson.D{{Key: "$lte", Value: now.UTC()}}},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *DocumentStore) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// liveFilter matches documents without an expiry or with one in the future.
// The TTL monitor runs about once a minute, so reads cannot rely on it.
func (s *DocumentStore) liveFilter() bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "expiresAt", Value: nil}},
		bson.D{{Key: "expiresAt", Value: bson.D{{Key: "$gt", Value: s.now().UTC()}}}},
	}}}
}

func toRecord(d database.Document) (record, error) {
	if d.ID == "" {
		return record{}, fmt.Errorf("document id is required")
	}
	body := []byte(d.Body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(body, false, &doc); err != nil {
		return record{}, fmt.Errorf("encode body of %s: %w", d.ID, err)
	}
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	r := record{ID: d.ID, Keys: d.Keys, Body: doc, CreatedAt: created.UTC()}
	if d.ExpiresAt != nil {
		t := d.ExpiresAt.UTC()
		r.ExpiresAt = &t
	}
	if r.Keys == nil {
		r.Keys = map[string]string{}
	}
	return r, nil
}

func fromRecord(r record) (database.Document, error) {
	body, err := bson.MarshalExtJSON(r.Body, false, false)
	if err != nil {
		return database.Document{}, fmt.Errorf("decode body of %s: %w", r.ID, err)
	}
	return database.Document{
		ID:        r.ID,
		Keys:      r.Keys,
		Body:      json.RawMessage(body),
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}, nil
}
