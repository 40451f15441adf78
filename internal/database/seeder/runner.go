package seeder

import (
	"context"
	"fmt"
	"time"

	"jobmatch/internal/database"
	"jobmatch/internal/logger"

	"go.uber.org/zap"
)

// Runner applies seeders in order and stops at the first failure. Seeders
// upsert, so a rerun after a partial failure is safe.
type Runner struct {
	Seeders []Seeder
	Log     *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := logger.OrNop(r.Log).Named("seed")
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder applied", zap.String("seeder", s.Name()), zap.Duration("took", time.Since(start)))
	}
	return nil
}
