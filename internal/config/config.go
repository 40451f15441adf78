package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "JOBMATCH"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Matching MatchingConfig `mapstructure:"matching"`
}

type AppConfig struct {
	AppName     string `mapstructure:"name"`
	Environment string `mapstructure:"env"`
	HTTPPort    string `mapstructure:"http_port"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	// FixtureFile seeds the in-memory candidate and job readers when Driver is memory.
	FixtureFile string `mapstructure:"fixture_file"`
}

// DatabaseConfig points at the Postgres holding the candidate and job
// tables, and the documents table when store.driver is postgres. URL wins
// over the discrete host/port/name fields.
type DatabaseConfig struct {
	URL        string `mapstructure:"url"`
	DBHost     string `mapstructure:"host"`
	DBPort     string `mapstructure:"port"`
	DBName     string `mapstructure:"name"`
	DBUser     string `mapstructure:"user"`
	DBPassword string `mapstructure:"password"`
	DBSSLMode  string `mapstructure:"ssl_mode"`

	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	PoolMaxConns          int32         `mapstructure:"pool_max_conns"`
	PoolMinConns          int32         `mapstructure:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `mapstructure:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `mapstructure:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `mapstructure:"pool_health_check_period"`
	RunMigrations         bool          `mapstructure:"run_migrations"`

	ApplicationName  string        `mapstructure:"application_name"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

func (d DatabaseConfig) DSN() string {
	if u := strings.TrimSpace(d.URL); u != "" {
		return u
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(d.DBHost),
		strings.TrimSpace(d.DBPort),
		strings.TrimSpace(d.DBUser),
		quoteDSNValue(d.DBPassword),
		strings.TrimSpace(d.DBName),
		strings.TrimSpace(d.DBSSLMode),
	)
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	AccessSecret    string        `mapstructure:"access_secret"`
	AccessExpiresIn time.Duration `mapstructure:"access_expires_in"`
}

// MatchingConfig holds process-level limits for the recommendation engine.
// Tunable scoring knobs live in the persisted matching config document.
type MatchingConfig struct {
	MaxCorpusJobs   int           `mapstructure:"max_corpus_jobs"`
	SinglePageLimit int           `mapstructure:"single_page_limit"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// quoteDSNValue wraps v in single quotes for a key/value DSN.
func quoteDSNValue(v string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

var errMissingRequired = errors.New("missing required configuration")

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "jobmatch")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_port", "8080")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("store.driver", StoreDriverPostgres)
	v.SetDefault("store.fixture_file", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.pool_max_conns", 10)
	v.SetDefault("database.pool_min_conns", 0)
	v.SetDefault("database.pool_max_conn_lifetime", time.Hour)
	v.SetDefault("database.pool_max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.pool_health_check_period", time.Minute)
	v.SetDefault("database.run_migrations", true)
	v.SetDefault("database.application_name", "jobmatch")
	v.SetDefault("database.statement_timeout", 15*time.Second)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "jobmatch")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_secret", "")
	v.SetDefault("jwt.access_expires_in", 15*time.Minute)

	v.SetDefault("matching.max_corpus_jobs", 10000)
	v.SetDefault("matching.single_page_limit", 500)
	v.SetDefault("matching.sweep_interval", time.Hour)
	v.SetDefault("matching.request_timeout", 30*time.Second)
}

// Load reads configuration from an optional file, a .env file and the
// environment. Environment keys use the JOBMATCH_ prefix with dots replaced
// by underscores, e.g. JOBMATCH_DATABASE_HOST.
func Load(file string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}

	req("app.http_port", c.App.HTTPPort)
	req("jwt.access_secret", c.JWT.AccessSecret)

	database := func() {
		if strings.TrimSpace(c.Database.URL) != "" {
			return
		}
		req("database.host", c.Database.DBHost)
		req("database.name", c.Database.DBName)
		req("database.user", c.Database.DBUser)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		database()
	case StoreDriverMongo:
		req("mongo.uri", c.Mongo.URI)
		// candidate and job readers always live in Postgres
		database()
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}
