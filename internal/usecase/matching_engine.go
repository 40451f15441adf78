package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/domain/user"
	"jobmatch/internal/logger"
	"jobmatch/internal/pkg/workerpool"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRecommendationLimit = 20
	MaxRecommendationLimit     = 1000

	recentJobBoost = 5.0
)

// ResultCache stores finished recommendation lists.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RecommendRequest struct {
	UserID    uuid.UUID  `json:"userId"`
	Algorithm string     `json:"algorithm" validate:"omitempty,variant"`
	Limit     int        `json:"limit" validate:"gte=0,lte=1000"`
	ProfileID *uuid.UUID `json:"profileId"`
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, req RecommendRequest) ([]match.MatchResult, error)
}

type MatchingEngineOptions struct {
	// SinglePageLimit is the corpus size read when batch processing is off.
	SinglePageLimit int
	// MaxCorpusJobs bounds the jobs read across all pages.
	MaxCorpusJobs int
	// SharedTimeout bounds a cached run shared by concurrent callers.
	SharedTimeout time.Duration
}

type MatchingEngine struct {
	configs    repository.MatchingConfigRepository
	candidates user.CandidateReader
	corpus     job.CorpusReader
	results    repository.MatchResultRepository
	scorer     *matching.Engine
	cache      ResultCache
	notifier   Notifier
	log        *zap.Logger
	opts       MatchingEngineOptions
	now        func() time.Time

	group singleflight.Group
}

func NewMatchingEngine(
	configs repository.MatchingConfigRepository,
	candidates user.CandidateReader,
	corpus job.CorpusReader,
	results repository.MatchResultRepository,
	scorer *matching.Engine,
	cache ResultCache,
	notifier Notifier,
	log *zap.Logger,
	opts MatchingEngineOptions,
) *MatchingEngine {
	if scorer == nil {
		scorer = matching.NewEngine(nil)
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if opts.SinglePageLimit <= 0 {
		opts.SinglePageLimit = 500
	}
	if opts.MaxCorpusJobs <= 0 {
		opts.MaxCorpusJobs = 10000
	}
	if opts.SharedTimeout <= 0 {
		opts.SharedTimeout = 30 * time.Second
	}
	return &MatchingEngine{
		configs:    configs,
		candidates: candidates,
		corpus:     corpus,
		results:    results,
		scorer:     scorer,
		cache:      cache,
		notifier:   notifier,
		log:        logger.OrNop(log).Named("matching"),
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// run is one resolved recommendation request.
type run struct {
	userID    uuid.UUID
	candidate matching.Candidate
	cfg       matching.MatchingConfig
	profile   *matching.MatchingProfile
	variant   matching.Variant
	blend     matching.Blend
	limit     int
}

// Recommend scores the active corpus for the user and persists the
// surviving results, best first.
func (e *MatchingEngine) Recommend(ctx context.Context, req RecommendRequest) ([]match.MatchResult, error) {
	if req.UserID == uuid.Nil {
		return nil, invalidField("userId", "required", "userId is required")
	}
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	cfg, err := e.configs.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConfigNotFound
		}
		e.log.Error("load matching config", zap.Error(err))
		return nil, ErrInternal
	}
	if !cfg.MatchingEnabled {
		return nil, ErrMatchingDisabled
	}

	r := run{userID: req.UserID, cfg: cfg}
	if err := e.resolve(&r, req); err != nil {
		return nil, err
	}

	var (
		cand    user.Candidate
		version job.CorpusVersion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := e.candidates.GetCandidate(gctx, req.UserID)
		if err != nil {
			return err
		}
		cand = c
		return nil
	})
	if e.cacheEnabled(cfg) {
		g.Go(func() error {
			v, err := e.corpus.CorpusVersion(gctx)
			if err != nil {
				return err
			}
			version = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.log.Error("load candidate", zap.String("user_id", req.UserID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	r.candidate = cand.ToMatching()

	if !e.cacheEnabled(cfg) {
		return e.generate(ctx, r)
	}

	var profileID *uuid.UUID
	if r.profile != nil {
		profileID = &r.profile.ID
	}
	key := RecommendationCacheKey(req.UserID, string(r.variant), profileID, version.String(), cfg.UpdatedAt, r.limit)

	var cached []match.MatchResult
	if hit, err := e.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		e.log.Debug("recommendation cache hit", zap.String("user_id", req.UserID.String()), zap.String("key", key))
		return cached, nil
	}

	// every caller on key waits on one run; it outlives any single caller
	ch := e.group.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.SharedTimeout)
		defer cancel()
		out, err := e.generate(sctx, r)
		if err != nil {
			return nil, err
		}
		if err := e.cache.SetJSON(sctx, key, out, cfg.CacheDuration()); err != nil {
			e.log.Warn("recommendation cache write failed", zap.String("key", key), zap.Error(err))
		}
		return out, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	out := res.Val.([]match.MatchResult)
	if res.Shared {
		out = append([]match.MatchResult(nil), out...)
	}
	return out, nil
}

func (e *MatchingEngine) cacheEnabled(cfg matching.MatchingConfig) bool {
	return e.cache != nil && cfg.CacheMatchResults && cfg.CacheDuration() > 0
}

// resolve picks the profile, variant and limit. An explicit profile must
// exist and be enabled; the default profile applies only when enabled.
func (e *MatchingEngine) resolve(r *run, req RecommendRequest) error {
	switch {
	case req.ProfileID != nil:
		p, idx := r.cfg.Profile(*req.ProfileID)
		if idx < 0 {
			return ErrProfileNotFound
		}
		if !p.Enabled {
			return invalidField("profileId", "enabled", "profile is disabled")
		}
		r.profile = &p
	case r.cfg.DefaultProfileID != nil:
		if p, idx := r.cfg.Profile(*r.cfg.DefaultProfileID); idx >= 0 && p.Enabled {
			r.profile = &p
		}
	}

	switch {
	case strings.TrimSpace(req.Algorithm) != "":
		r.variant, _ = matching.ParseVariant(req.Algorithm)
	case r.profile != nil && r.profile.MatchingAlgorithm != "":
		r.variant = r.profile.MatchingAlgorithm
	default:
		r.variant = r.cfg.DefaultAlgorithm.Variant()
	}
	b, err := matching.BlendFor(r.variant, r.cfg.WeightFactors)
	if err != nil {
		return invalidField("algorithm", "variant", err.Error())
	}
	r.blend = b

	r.limit = req.Limit
	if r.limit <= 0 {
		r.limit = DefaultRecommendationLimit
	}
	if r.limit > MaxRecommendationLimit {
		r.limit = MaxRecommendationLimit
	}
	if r.profile != nil && r.profile.MaxResultsPerQuery > 0 && r.limit > r.profile.MaxResultsPerQuery {
		r.limit = r.profile.MaxResultsPerQuery
	}
	return nil
}

type scoredJob struct {
	job     job.Job
	score   matching.Score
	matched []string
}

// generate streams the corpus, keeps the best r.limit results and persists
// them in one batch.
func (e *MatchingEngine) generate(ctx context.Context, r run) ([]match.MatchResult, error) {
	start := time.Now()
	now := e.now()

	pageSize, maxJobs := e.opts.SinglePageLimit, e.opts.SinglePageLimit
	if r.cfg.BatchProcessingEnabled {
		pageSize, maxJobs = r.cfg.BatchSize, e.opts.MaxCorpusJobs
		if pageSize <= 0 {
			pageSize = matching.DefaultConfig().BatchSize
		}
	}
	workers := r.cfg.MaxConcurrentMatches
	if workers <= 0 {
		workers = 1
	}

	var (
		top     []scoredJob
		seen    = map[string]struct{}{}
		read    int
		skipped int
	)
	for offset := 0; offset < maxJobs; offset += pageSize {
		n := pageSize
		if offset+n > maxJobs {
			n = maxJobs - offset
		}
		page, err := e.corpus.ListActiveJobs(ctx, n, offset)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			e.log.Error("list active jobs", zap.Int("offset", offset), zap.Error(err))
			return nil, ErrInternal
		}
		read += len(page)

		eligible := make([]job.Job, 0, len(page))
		for _, j := range page {
			if e.gated(r.cfg, j, seen, now) {
				skipped++
				continue
			}
			eligible = append(eligible, j)
		}

		scored := make([]*scoredJob, len(eligible))
		err = workerpool.Each(ctx, workers, len(eligible), func(_ context.Context, i int) error {
			scored[i] = e.score(r, eligible[i], now)
			return nil
		})
		if err != nil {
			return nil, err
		}
		for _, s := range scored {
			if s != nil {
				top = append(top, *s)
			}
		}
		sortScored(top)
		if len(top) > r.limit {
			top = top[:r.limit]
		}

		if len(page) < n {
			break
		}
	}

	// nothing is written for a run cancelled during scoring
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]match.MatchResult, 0, len(top))
	for _, s := range top {
		m := match.NewMatchResult(r.userID, s.job.CompanyID, s.score, r.variant, now)
		if r.profile != nil {
			id := r.profile.ID
			m.ProfileID = &id
			m.MatchedRules = s.matched
		}
		out = append(out, m)
	}
	if err := e.results.SaveMany(ctx, out); err != nil {
		e.log.Error("persist recommendations", zap.String("user_id", r.userID.String()), zap.Int("count", len(out)), zap.Error(err))
		return nil, ErrInternal
	}

	e.log.Info("recommendations generated",
		zap.String("user_id", r.userID.String()),
		zap.String("algorithm", string(r.variant)),
		zap.Int("corpus_size", read),
		zap.Int("skipped", skipped),
		zap.Int("kept", len(out)),
		zap.Duration("duration", time.Since(start)),
	)
	if len(out) > 0 {
		e.notifier.NotifyUser(r.userID, EventRecommendationsReady, map[string]any{
			"count":     len(out),
			"algorithm": r.variant,
			"topScore":  out[0].MatchScore,
		})
	}
	return out, nil
}

// gated reports whether a quality gate removes j before scoring.
func (e *MatchingEngine) gated(cfg matching.MatchingConfig, j job.Job, seen map[string]struct{}, now time.Time) bool {
	if j.QualityScore < cfg.MinJobQualityScore {
		return true
	}
	if cfg.FilterOutExpiredJobs && j.Expired(now) {
		return true
	}
	if cfg.FilterOutDuplicateJobs {
		k := j.DedupKey()
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

// score returns nil when the job does not qualify.
func (e *MatchingEngine) score(r run, j job.Job, now time.Time) *scoredJob {
	mj := j.ToMatching()
	s := e.scorer.Score(r.candidate, mj, r.blend)
	if s.MatchScore < matching.MinMatchQuality {
		return nil
	}

	out := &scoredJob{job: j, score: s}
	p := r.profile
	if p == nil {
		return out
	}
	if p.BoostRecentJobs && j.PostedWithin(p.RecentJobDaysThreshold, now) {
		out.score.MatchScore = min(100, out.score.MatchScore+recentJobBoost)
		out.score.ConfidenceLevel = min(1, out.score.MatchScore/100)
	}
	if !p.IncludePartialMatches && out.score.MatchScore < p.MinimumMatchScore {
		return nil
	}
	c := r.candidate
	out.matched = e.scorer.MatchedRules(*p, mj, &c)
	return out
}

// sortScored orders by score, best first, then by job id ascending.
func sortScored(s []scoredJob) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].score.MatchScore != s[j].score.MatchScore {
			return s[i].score.MatchScore > s[j].score.MatchScore
		}
		return s[i].job.ID.String() < s[j].job.ID.String()
	})
}
