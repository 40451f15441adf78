package app

import (
	"context"
	"fmt"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/database"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/domain/user"
	"jobmatch/internal/infrastructure/cache"
	"jobmatch/internal/infrastructure/persistence/memory"
	docmongo "jobmatch/internal/infrastructure/persistence/mongo"
	docpostgres "jobmatch/internal/infrastructure/persistence/postgres"
	"jobmatch/internal/logger"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"
	"jobmatch/internal/ws"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Log    *zap.Logger

	// DB is nil for the memory driver.
	DB    database.DB
	Store database.DocumentStore
	Cache *cache.Redis
	JWT   jwt.Service
	Hub   *ws.Hub

	Candidates user.CandidateReader
	Corpus     job.CorpusReader

	Profiles *usecase.ProfileStore
	Matching *usecase.MatchingEngine
	Feedback *usecase.FeedbackTracker
	Sweeper  *usecase.ExpirySweeper
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)
	c := &Container{Config: cfg, Log: log}

	if err := c.openStore(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Cache = cache.NewRedis(cfg.Redis, log)
	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn)
	c.Hub = ws.NewHub(log)
	notifier := ws.NewNotifier(c.Hub)

	configs := repository.NewDocumentMatchingConfigRepository(c.Store)
	results := repository.NewDocumentMatchResultRepository(c.Store)
	activity := usecase.NewActivityLog(repository.NewDocumentActivityRepository(c.Store), log)
	scorer := matching.NewEngine(nil)

	c.Profiles = usecase.NewProfileStore(configs, activity, notifier, scorer, log)
	c.Matching = usecase.NewMatchingEngine(configs, c.Candidates, c.Corpus, results, scorer, c.Cache, notifier, log, usecase.MatchingEngineOptions{
		SinglePageLimit: cfg.Matching.SinglePageLimit,
		MaxCorpusJobs:   cfg.Matching.MaxCorpusJobs,
		SharedTimeout:   cfg.Matching.RequestTimeout,
	})
	c.Feedback = usecase.NewFeedbackTracker(results, log)
	c.Sweeper = usecase.NewExpirySweeper(results, log)

	return c, nil
}

// openStore connects the document store and the candidate and job readers
// for the configured driver.
func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		c.Store = memory.NewDocumentStore()
		if cfg.Store.FixtureFile == "" {
			c.Candidates = repository.NewMemoryCandidateRepository()
			c.Corpus = repository.NewMemoryJobCorpus()
			return nil
		}
		f, err := repository.LoadFixture(cfg.Store.FixtureFile)
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
		c.Candidates, c.Corpus = repository.FromFixture(f)
		c.Log.Info("memory store seeded from fixture",
			zap.String("file", cfg.Store.FixtureFile),
			zap.Int("candidates", len(f.Candidates)),
			zap.Int("jobs", len(f.Jobs)),
		)
		return nil

	case config.StoreDriverPostgres, config.StoreDriverMongo:
		if err := c.openPostgres(ctx); err != nil {
			return err
		}
		c.Candidates = repository.NewPostgresCandidateRepository(c.DB)
		c.Corpus = repository.NewPostgresJobCorpusRepository(c.DB)

		if cfg.Store.Driver == config.StoreDriverPostgres {
			c.Store = docpostgres.NewDocumentStore(c.DB)
			return nil
		}

		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		ms, err := docmongo.Connect(mctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		c.Store = ms
		if err := ms.EnsureIndexes(mctx, database.CollectionMatchResults, database.CollectionActivityLog); err != nil {
			return fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func (c *Container) openPostgres(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(pctx, c.Config.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	c.DB = db

	if c.Config.Database.RunMigrations {
		if err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var firstErr error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
