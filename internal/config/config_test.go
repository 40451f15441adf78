package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDriverFromEnv(t *testing.T) {
	t.Setenv("JOBMATCH_STORE_DRIVER", "memory")
	t.Setenv("JOBMATCH_JWT_ACCESS_SECRET", "secret")
	t.Setenv("JOBMATCH_APP_HTTP_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "secret", cfg.JWT.AccessSecret)
	assert.Equal(t, 500, cfg.Matching.SinglePageLimit)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
}

func TestLoad_PostgresRequiresDatabase(t *testing.T) {
	t.Setenv("JOBMATCH_STORE_DRIVER", "postgres")
	t.Setenv("JOBMATCH_JWT_ACCESS_SECRET", "secret")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingRequired)
	assert.Contains(t, err.Error(), "database.host")
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JOBMATCH_STORE_DRIVER", "cassandra")
	t.Setenv("JOBMATCH_JWT_ACCESS_SECRET", "secret")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "jobmatch.yaml")
	body := `
store:
  driver: memory
jwt:
  access_secret: from-file
matching:
  max_corpus_jobs: 2000
`
	require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWT.AccessSecret)
	assert.Equal(t, 2000, cfg.Matching.MaxCorpusJobs)
}

func TestLoad_DatabaseURL(t *testing.T) {
	t.Setenv("JOBMATCH_STORE_DRIVER", "postgres")
	t.Setenv("JOBMATCH_JWT_ACCESS_SECRET", "secret")
	t.Setenv("JOBMATCH_DATABASE_URL", "postgres://jm:pw@db:5432/jobmatch?sslmode=disable")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://jm:pw@db:5432/jobmatch?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "jobmatch", cfg.Database.ApplicationName)
	assert.Equal(t, 15*time.Second, cfg.Database.StatementTimeout)
}

func TestDatabaseConfig_DSNFromFields(t *testing.T) {
	d := DatabaseConfig{DBHost: " db ", DBPort: "5433", DBUser: "jm", DBPassword: `p w'x`, DBName: "jobs", DBSSLMode: "require"}
	assert.Equal(t, `host=db port=5433 user=jm password='p w\'x' dbname=jobs sslmode=require`, d.DSN())
}
