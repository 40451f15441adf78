package usecase

import (
	"context"
	"time"

	"jobmatch/internal/logger"
	"jobmatch/internal/repository"

	"go.uber.org/zap"
)

// ActivityRecorder receives audit entries for admin mutations. Record never
// fails the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, action string, severity repository.Severity, actorID, summary string)
}

type ActivityLog struct {
	repo    repository.ActivityRepository
	log     *zap.Logger
	timeout time.Duration
}

func NewActivityLog(repo repository.ActivityRepository, log *zap.Logger) *ActivityLog {
	return &ActivityLog{repo: repo, log: logger.OrNop(log).Named("activity"), timeout: 3 * time.Second}
}

func (a *ActivityLog) Record(ctx context.Context, action string, severity repository.Severity, actorID, summary string) {
	if a == nil {
		return
	}
	a.log.Info("admin activity",
		zap.String("action", action),
		zap.String("severity", string(severity)),
		zap.String("actor_id", actorID),
		zap.String("summary", summary),
	)
	if a.repo == nil {
		return
	}

	// the entry is written even when the request context is already done
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	err := a.repo.Append(wctx, repository.ActivityEntry{
		Action:        action,
		Severity:      severity,
		ActorID:       actorID,
		ChangeSummary: summary,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		a.log.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}
