package usecase

import (
	"context"
	"time"

	"jobmatch/internal/logger"
	"jobmatch/internal/repository"

	"go.uber.org/zap"
)

// ExpirySweeper removes recommendations past their retention window.
type ExpirySweeper struct {
	results repository.MatchResultRepository
	log     *zap.Logger
	now     func() time.Time
}

func NewExpirySweeper(results repository.MatchResultRepository, log *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		results: results,
		log:     logger.OrNop(log).Named("sweeper"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ExpirySweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.results.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("delete expired recommendations", zap.Error(err))
		return 0, ErrInternal
	}
	if n > 0 {
		s.log.Info("expired recommendations deleted", zap.Int64("count", n))
	}
	return n, nil
}

// Run sweeps once immediately and then every interval until ctx ends.
// Failed sweeps are logged and retried on the next tick.
func (s *ExpirySweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	_, _ = s.Sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}
