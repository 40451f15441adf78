package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobmatch/internal/domain/match"
	"jobmatch/internal/logger"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultInsightWeeks = 4

type FeedbackRequest struct {
	// UserID scopes the update to the owner's recommendations. uuid.Nil
	// skips the ownership check.
	UserID           uuid.UUID `json:"userId"`
	RecommendationID uuid.UUID `json:"recommendationId"`
	Action           string    `json:"action" validate:"omitempty,action"`
	Feedback         string    `json:"feedback" validate:"omitempty,feedback"`
}

type FeedbackUsecase interface {
	RecordFeedback(ctx context.Context, req FeedbackRequest) (match.MatchResult, error)
	ListRecommendations(ctx context.Context, userID uuid.UUID, weeks int) ([]match.MatchResult, error)
	SummarizeInsights(ctx context.Context, userID uuid.UUID, weeks int) (match.InsightSnapshot, error)
}

type FeedbackTracker struct {
	results repository.MatchResultRepository
	log     *zap.Logger
	now     func() time.Time

	mu sync.Mutex
}

func NewFeedbackTracker(results repository.MatchResultRepository, log *zap.Logger) *FeedbackTracker {
	return &FeedbackTracker{
		results: results,
		log:     logger.OrNop(log).Named("feedback"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RecordFeedback applies a click, an apply or a feedback annotation to a
// recommendation. Repeated clicks and applies keep the first timestamp.
func (t *FeedbackTracker) RecordFeedback(ctx context.Context, req FeedbackRequest) (match.MatchResult, error) {
	if req.RecommendationID == uuid.Nil {
		return match.MatchResult{}, invalidField("recommendationId", "required", "recommendationId is required")
	}
	if err := checkStruct(req); err != nil {
		return match.MatchResult{}, err
	}
	if req.Action == "" && req.Feedback == "" {
		return match.MatchResult{}, invalidField("action", "required", "action or feedback is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	m, err := t.results.GetByID(ctx, req.RecommendationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return match.MatchResult{}, ErrRecommendationNotFound
		}
		t.log.Error("load recommendation", zap.String("recommendation_id", req.RecommendationID.String()), zap.Error(err))
		return match.MatchResult{}, ErrInternal
	}
	if req.UserID != uuid.Nil && m.UserID != req.UserID {
		return match.MatchResult{}, ErrRecommendationNotFound
	}

	now := t.now()
	switch match.Action(req.Action) {
	case match.ActionClick:
		m.Click(now)
	case match.ActionApply:
		m.Apply(now)
	}
	if req.Feedback != "" {
		m.SetFeedback(match.Feedback(req.Feedback), now)
	}

	if err := t.results.Save(ctx, m); err != nil {
		t.log.Error("save recommendation", zap.String("recommendation_id", m.ID.String()), zap.Error(err))
		return match.MatchResult{}, ErrInternal
	}
	t.log.Debug("feedback recorded",
		zap.String("recommendation_id", m.ID.String()),
		zap.String("action", req.Action),
		zap.String("feedback", req.Feedback),
	)
	return m, nil
}

// ListRecommendations returns the user's live recommendations created in
// the last weeks weeks, newest first.
func (t *FeedbackTracker) ListRecommendations(ctx context.Context, userID uuid.UUID, weeks int) ([]match.MatchResult, error) {
	from, _, err := t.window(userID, &weeks)
	if err != nil {
		return nil, err
	}
	out, err := t.results.ListByUser(ctx, userID, from, 0)
	if err != nil {
		t.log.Error("list recommendations", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	if out == nil {
		out = []match.MatchResult{}
	}
	return out, nil
}

func (t *FeedbackTracker) SummarizeInsights(ctx context.Context, userID uuid.UUID, weeks int) (match.InsightSnapshot, error) {
	from, to, err := t.window(userID, &weeks)
	if err != nil {
		return match.InsightSnapshot{}, err
	}
	results, err := t.results.ListByUser(ctx, userID, from, 0)
	if err != nil {
		t.log.Error("load insight window", zap.String("user_id", userID.String()), zap.Error(err))
		return match.InsightSnapshot{}, ErrInternal
	}
	return match.Summarize(userID, weeks, from, to, results), nil
}

func (t *FeedbackTracker) window(userID uuid.UUID, weeks *int) (time.Time, time.Time, error) {
	if userID == uuid.Nil {
		return time.Time{}, time.Time{}, invalidField("userId", "required", "userId is required")
	}
	if *weeks == 0 {
		*weeks = DefaultInsightWeeks
	}
	if *weeks < 1 || *weeks > 52 {
		return time.Time{}, time.Time{}, invalidField("weeks", "range", "weeks must be between 1 and 52")
	}
	to := t.now()
	return to.Add(-time.Duration(*weeks) * 7 * 24 * time.Hour), to, nil
}
