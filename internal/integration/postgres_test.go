package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"jobmatch/internal/app"
	"jobmatch/internal/config"
	"jobmatch/internal/database"
	"jobmatch/internal/database/docstoretest"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/database/seeder"
	docpostgres "jobmatch/internal/infrastructure/persistence/postgres"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../../testdata/fixture.json"

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testDBConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	host := os.Getenv("JOBMATCH_TEST_DB_HOST")
	port := os.Getenv("JOBMATCH_TEST_DB_PORT")
	name := os.Getenv("JOBMATCH_TEST_DB_NAME")
	user := os.Getenv("JOBMATCH_TEST_DB_USER")
	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set JOBMATCH_TEST_DB_HOST/PORT/NAME/USER/PASSWORD")
	}
	ssl := os.Getenv("JOBMATCH_TEST_DB_SSL_MODE")
	if ssl == "" {
		ssl = "disable"
	}
	return config.DatabaseConfig{
		DBHost:         host,
		DBPort:         port,
		DBName:         name,
		DBUser:         user,
		DBPassword:     os.Getenv("JOBMATCH_TEST_DB_PASSWORD"),
		DBSSLMode:      ssl,
		ConnectTimeout: 5 * time.Second,
		PoolMaxConns:   4,
		RunMigrations:  true,
	}
}

func connectTestDB(t *testing.T, ctx context.Context, cfg config.DatabaseConfig) database.DB {
	t.Helper()
	db, err := dbpostgres.Connect(ctx, cfg)
	require.NoError(t, err, "connect db")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, (migration.Runner{}).Run(ctx, db.SQLDB()), "run migrations")
	return db
}

func seedFixture(t *testing.T, ctx context.Context, db database.DB) repository.Fixture {
	t.Helper()
	f, err := repository.LoadFixture(fixturePath)
	require.NoError(t, err)
	require.NoError(t, (seeder.Runner{Seeders: seeder.Defaults(f)}).Run(ctx, db))

	t.Cleanup(func() {
		bg := context.Background()
		for _, c := range f.Candidates {
			_, _ = db.Exec(bg, `DELETE FROM candidates WHERE user_id = $1`, c.UserID)
			_, _ = db.Exec(bg, `DELETE FROM documents WHERE collection = $1 AND keys->>'userId' = $2`, database.CollectionMatchResults, c.UserID.String())
		}
		for _, j := range f.Jobs {
			_, _ = db.Exec(bg, `DELETE FROM jobs WHERE id = $1`, j.ID)
		}
	})
	return f
}

func TestIntegration_PostgresDocumentStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx, testDBConfig(t))
	collection := "it_" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM documents WHERE collection = $1`, collection)
	})

	docstoretest.Run(t, docpostgres.NewDocumentStore(db), collection)
}

func TestIntegration_RecommendationsOverPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dbcfg := testDBConfig(t)
	db := connectTestDB(t, ctx, dbcfg)
	f := seedFixture(t, ctx, db)
	candidate := f.Candidates[0].UserID

	cfg := config.Config{
		App:      config.AppConfig{AppName: "jobmatch-it", HTTPPort: "0"},
		Store:    config.StoreConfig{Driver: config.StoreDriverPostgres},
		Database: dbcfg,
		JWT:      config.JWTConfig{AccessSecret: "it-secret", AccessExpiresIn: time.Minute},
		Matching: config.MatchingConfig{MaxCorpusJobs: 1000, SinglePageLimit: 500},
	}
	a, cleanup, err := app.Bootstrap(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	tok, err := a.Container.JWT.GenerateAccessToken(candidate, jwt.RoleUser)
	require.NoError(t, err)

	res := call(t, a, http.MethodGet, "/api/v1/recommendations?limit=10", tok, nil)
	require.Equal(t, http.StatusOK, res.Status, res.Message)

	var list struct {
		Items []struct {
			ID         uuid.UUID `json:"id"`
			JobID      uuid.UUID `json:"jobId"`
			MatchScore float64   `json:"matchScore"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &list))
	require.NotEmpty(t, list.Items)

	seen := map[uuid.UUID]bool{}
	for i, it := range list.Items {
		assert.False(t, seen[it.JobID], "duplicate job %s", it.JobID)
		seen[it.JobID] = true
		assert.GreaterOrEqual(t, it.MatchScore, 40.0)
		if i > 0 {
			assert.GreaterOrEqual(t, list.Items[i-1].MatchScore, it.MatchScore)
		}
	}

	var stored int
	require.NoError(t, db.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE collection = $1 AND keys->>'userId' = $2`,
		database.CollectionMatchResults, candidate.String(),
	).Scan(&stored))
	assert.GreaterOrEqual(t, stored, len(list.Items))

	res = call(t, a, http.MethodPost, "/api/v1/recommendations/"+list.Items[0].ID.String()+"/feedback", tok, map[string]string{"action": "click", "feedback": "relevant"})
	require.Equal(t, http.StatusOK, res.Status, res.Message)

	res = call(t, a, http.MethodGet, "/api/v1/recommendations/insights", tok, nil)
	require.Equal(t, http.StatusOK, res.Status, res.Message)
	var snap struct {
		Clicked int `json:"clicked"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &snap))
	assert.GreaterOrEqual(t, snap.Clicked, 1)
}

func call(t *testing.T, a *app.App, method, path, token string, body any) semanticResponse {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.Fiber.Test(req, fiber.TestConfig{Timeout: 15 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	var sr semanticResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	return sr
}
