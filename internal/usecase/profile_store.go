package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"jobmatch/internal/domain/matching"
	"jobmatch/internal/logger"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfigPatch lists the config fields an admin may change. Nil fields are
// left untouched. Out-of-range values are rejected.
type ConfigPatch struct {
	MatchingEnabled           *bool    `json:"matchingEnabled"`
	DefaultAlgorithm          *string  `json:"defaultAlgorithm" validate:"omitempty,algorithm"`
	SkillWeightFactor         *float64 `json:"skillWeightFactor" validate:"omitempty,gte=0,lte=1"`
	LocationWeightFactor      *float64 `json:"locationWeightFactor" validate:"omitempty,gte=0,lte=1"`
	SalaryWeightFactor        *float64 `json:"salaryWeightFactor" validate:"omitempty,gte=0,lte=1"`
	ExperienceWeightFactor    *float64 `json:"experienceWeightFactor" validate:"omitempty,gte=0,lte=1"`
	QualificationWeightFactor *float64 `json:"qualificationWeightFactor" validate:"omitempty,gte=0,lte=1"`
	MaxConcurrentMatches      *int     `json:"maxConcurrentMatches" validate:"omitempty,gte=1,lte=256"`
	BatchSize                 *int     `json:"batchSize" validate:"omitempty,gte=10,lte=5000"`
	BatchProcessingEnabled    *bool    `json:"batchProcessingEnabled"`
	CacheMatchResults         *bool    `json:"cacheMatchResults"`
	CacheTTL                  *int     `json:"cacheTTL" validate:"omitempty,gte=0,lte=604800"`
	MinJobQualityScore        *float64 `json:"minJobQualityScore" validate:"omitempty,gte=0,lte=100"`
	FilterOutExpiredJobs      *bool    `json:"filterOutExpiredJobs"`
	FilterOutDuplicateJobs    *bool    `json:"filterOutDuplicateJobs"`
}

// WeightsPatch updates the five weight factors. At least one factor must
// remain positive afterwards.
type WeightsPatch struct {
	SkillWeightFactor         *float64 `json:"skillWeightFactor" validate:"omitempty,gte=0,lte=1"`
	LocationWeightFactor      *float64 `json:"locationWeightFactor" validate:"omitempty,gte=0,lte=1"`
	SalaryWeightFactor        *float64 `json:"salaryWeightFactor" validate:"omitempty,gte=0,lte=1"`
	ExperienceWeightFactor    *float64 `json:"experienceWeightFactor" validate:"omitempty,gte=0,lte=1"`
	QualificationWeightFactor *float64 `json:"qualificationWeightFactor" validate:"omitempty,gte=0,lte=1"`
}

type RuleInput struct {
	Name     string          `json:"name" validate:"required,max=120"`
	RuleType string          `json:"ruleType" validate:"required,rule_type"`
	Operator string          `json:"operator" validate:"required,rule_operator"`
	Value    json.RawMessage `json:"value"`
	Weight   float64         `json:"weight" validate:"gte=0,lte=100"`
	Priority int             `json:"priority"`
	Enabled  *bool           `json:"enabled"`
}

type ProfileInput struct {
	ProfileName            string      `json:"profileName" validate:"required,max=120"`
	Description            string      `json:"description" validate:"max=1000"`
	MatchingAlgorithm      string      `json:"matchingAlgorithm" validate:"omitempty,variant"`
	Rules                  []RuleInput `json:"rules" validate:"dive"`
	MinimumMatchScore      *float64    `json:"minimumMatchScore"`
	MaxResultsPerQuery     *int        `json:"maxResultsPerQuery"`
	IncludePartialMatches  *bool       `json:"includePartialMatches"`
	BoostRecentJobs        *bool       `json:"boostRecentJobs"`
	RecentJobDaysThreshold *int        `json:"recentJobDaysThreshold" validate:"omitempty,gte=1,lte=365"`
	Enabled                *bool       `json:"enabled"`
}

// ProfilePatch updates a profile. A non-nil Rules replaces the whole list.
type ProfilePatch struct {
	ProfileName            *string     `json:"profileName" validate:"omitempty,min=1,max=120"`
	Description            *string     `json:"description" validate:"omitempty,max=1000"`
	MatchingAlgorithm      *string     `json:"matchingAlgorithm" validate:"omitempty,variant"`
	Rules                  []RuleInput `json:"rules" validate:"omitempty,dive"`
	MinimumMatchScore      *float64    `json:"minimumMatchScore"`
	MaxResultsPerQuery     *int        `json:"maxResultsPerQuery"`
	IncludePartialMatches  *bool       `json:"includePartialMatches"`
	BoostRecentJobs        *bool       `json:"boostRecentJobs"`
	RecentJobDaysThreshold *int        `json:"recentJobDaysThreshold" validate:"omitempty,gte=1,lte=365"`
	Enabled                *bool       `json:"enabled"`
}

// SampleJob is the job a profile is tested against.
type SampleJob struct {
	Title              string           `json:"title" validate:"max=300"`
	RequiredSkills     []string         `json:"requiredSkills" validate:"max=200"`
	Location           string           `json:"location" validate:"max=300"`
	Salary             *matching.Salary `json:"salary"`
	ExperienceRequired float64          `json:"experienceRequired" validate:"gte=0"`
	GrowthPotential    float64          `json:"growthPotential" validate:"gte=0"`
}

type MatchingAdminUsecase interface {
	GetConfig(ctx context.Context) (matching.MatchingConfig, error)
	UpdateConfig(ctx context.Context, actorID string, p ConfigPatch) (matching.MatchingConfig, error)
	UpdateWeights(ctx context.Context, actorID string, p WeightsPatch) (matching.WeightFactors, error)
	ListProfiles(ctx context.Context) (ProfileList, error)
	GetProfile(ctx context.Context, id uuid.UUID) (matching.MatchingProfile, error)
	CreateProfile(ctx context.Context, actorID string, in ProfileInput) (matching.MatchingProfile, error)
	UpdateProfile(ctx context.Context, actorID string, id uuid.UUID, in ProfilePatch) (matching.MatchingProfile, error)
	DeleteProfile(ctx context.Context, actorID string, id uuid.UUID) (*uuid.UUID, error)
	SetDefaultProfile(ctx context.Context, actorID string, id uuid.UUID) error
	TestProfile(ctx context.Context, id uuid.UUID, sample SampleJob) (matching.ProfileTestResult, error)
}

// ProfileStore owns the matching config document and the profiles embedded
// in it. Writes are read-modify-write on the whole document; the mutex only
// orders writers inside this process.
type ProfileStore struct {
	configs  repository.MatchingConfigRepository
	activity ActivityRecorder
	notifier Notifier
	engine   *matching.Engine
	log      *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewProfileStore(configs repository.MatchingConfigRepository, activity ActivityRecorder, notifier Notifier, engine *matching.Engine, log *zap.Logger) *ProfileStore {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if engine == nil {
		engine = matching.NewEngine(nil)
	}
	if activity == nil {
		activity = (*ActivityLog)(nil)
	}
	return &ProfileStore{
		configs:  configs,
		activity: activity,
		notifier: notifier,
		engine:   engine,
		log:      logger.OrNop(log).Named("profile_store"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EnsureDefault creates the default config when none exists. It reports
// whether a config was created.
func (s *ProfileStore) EnsureDefault(ctx context.Context) (matching.MatchingConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.configs.Get(ctx)
	if err == nil {
		return cfg, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("load matching config", zap.Error(err))
		return matching.MatchingConfig{}, false, ErrInternal
	}

	cfg = matching.DefaultConfig()
	cfg.UpdatedAt = s.now()
	cfg.CreatedAt = cfg.UpdatedAt
	cfg.UpdatedBy = "system"
	if err := s.configs.Save(ctx, cfg); err != nil {
		s.log.Error("save default matching config", zap.Error(err))
		return matching.MatchingConfig{}, false, ErrInternal
	}
	s.log.Info("default matching config created")
	return cfg, true, nil
}

func (s *ProfileStore) GetConfig(ctx context.Context) (matching.MatchingConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matching.MatchingConfig{}, ErrConfigNotFound
		}
		s.log.Error("load matching config", zap.Error(err))
		return matching.MatchingConfig{}, ErrInternal
	}
	return cfg, nil
}

func (s *ProfileStore) UpdateConfig(ctx context.Context, actorID string, p ConfigPatch) (matching.MatchingConfig, error) {
	if err := checkStruct(p); err != nil {
		return matching.MatchingConfig{}, err
	}

	var changes changeSet
	cfg, err := s.mutate(ctx, actorID, func(cfg *matching.MatchingConfig) error {
		changes.setBool("matchingEnabled", &cfg.MatchingEnabled, p.MatchingEnabled)
		if p.DefaultAlgorithm != nil {
			alg := matching.Algorithm(strings.ToLower(strings.TrimSpace(*p.DefaultAlgorithm)))
			changes.add("defaultAlgorithm", cfg.DefaultAlgorithm, alg)
			cfg.DefaultAlgorithm = alg
		}
		changes.setFloat("skillWeightFactor", &cfg.SkillWeightFactor, p.SkillWeightFactor)
		changes.setFloat("locationWeightFactor", &cfg.LocationWeightFactor, p.LocationWeightFactor)
		changes.setFloat("salaryWeightFactor", &cfg.SalaryWeightFactor, p.SalaryWeightFactor)
		changes.setFloat("experienceWeightFactor", &cfg.ExperienceWeightFactor, p.ExperienceWeightFactor)
		changes.setFloat("qualificationWeightFactor", &cfg.QualificationWeightFactor, p.QualificationWeightFactor)
		changes.setInt("maxConcurrentMatches", &cfg.MaxConcurrentMatches, p.MaxConcurrentMatches)
		changes.setInt("batchSize", &cfg.BatchSize, p.BatchSize)
		changes.setBool("batchProcessingEnabled", &cfg.BatchProcessingEnabled, p.BatchProcessingEnabled)
		changes.setBool("cacheMatchResults", &cfg.CacheMatchResults, p.CacheMatchResults)
		changes.setInt("cacheTTL", &cfg.CacheTTL, p.CacheTTL)
		changes.setFloat("minJobQualityScore", &cfg.MinJobQualityScore, p.MinJobQualityScore)
		changes.setBool("filterOutExpiredJobs", &cfg.FilterOutExpiredJobs, p.FilterOutExpiredJobs)
		changes.setBool("filterOutDuplicateJobs", &cfg.FilterOutDuplicateJobs, p.FilterOutDuplicateJobs)

		if cfg.WeightFactors.Sum() <= 0 {
			return invalidField("weightFactors", "positive", "at least one weight factor must be greater than 0")
		}
		return nil
	})
	if err != nil {
		return matching.MatchingConfig{}, err
	}

	s.activity.Record(ctx, "matching.config.update", repository.SeverityWarning, actorID, changes.String())
	s.notifier.Broadcast(EventMatchingConfigUpdated, map[string]any{"updatedAt": cfg.UpdatedAt, "updatedBy": actorID})
	return cfg, nil
}

func (s *ProfileStore) UpdateWeights(ctx context.Context, actorID string, p WeightsPatch) (matching.WeightFactors, error) {
	if err := checkStruct(p); err != nil {
		return matching.WeightFactors{}, err
	}
	if p.SkillWeightFactor == nil && p.LocationWeightFactor == nil && p.SalaryWeightFactor == nil &&
		p.ExperienceWeightFactor == nil && p.QualificationWeightFactor == nil {
		return matching.WeightFactors{}, invalidField("weightFactors", "required", "at least one weight factor is required")
	}

	var changes changeSet
	cfg, err := s.mutate(ctx, actorID, func(cfg *matching.MatchingConfig) error {
		changes.setFloat("skillWeightFactor", &cfg.SkillWeightFactor, p.SkillWeightFactor)
		changes.setFloat("locationWeightFactor", &cfg.LocationWeightFactor, p.LocationWeightFactor)
		changes.setFloat("salaryWeightFactor", &cfg.SalaryWeightFactor, p.SalaryWeightFactor)
		changes.setFloat("experienceWeightFactor", &cfg.ExperienceWeightFactor, p.ExperienceWeightFactor)
		changes.setFloat("qualificationWeightFactor", &cfg.QualificationWeightFactor, p.QualificationWeightFactor)

		if cfg.WeightFactors.Sum() <= 0 {
			return invalidField("weightFactors", "positive", "at least one weight factor must be greater than 0")
		}
		return nil
	})
	if err != nil {
		return matching.WeightFactors{}, err
	}

	s.activity.Record(ctx, "matching.weights.update", repository.SeverityHigh, actorID, changes.String())
	s.notifier.Broadcast(EventMatchingConfigUpdated, map[string]any{"updatedAt": cfg.UpdatedAt, "updatedBy": actorID})
	return cfg.WeightFactors, nil
}

type ProfileList struct {
	Profiles         []matching.MatchingProfile `json:"profiles"`
	DefaultProfileID *uuid.UUID                 `json:"defaultProfileId,omitempty"`
}

func (s *ProfileStore) ListProfiles(ctx context.Context) (ProfileList, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return ProfileList{}, err
	}
	return ProfileList{Profiles: cfg.Profiles, DefaultProfileID: cfg.DefaultProfileID}, nil
}

func (s *ProfileStore) GetProfile(ctx context.Context, id uuid.UUID) (matching.MatchingProfile, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return matching.MatchingProfile{}, err
	}
	p, idx := cfg.Profile(id)
	if idx < 0 {
		return matching.MatchingProfile{}, ErrProfileNotFound
	}
	return p, nil
}

func (s *ProfileStore) CreateProfile(ctx context.Context, actorID string, in ProfileInput) (matching.MatchingProfile, error) {
	if err := checkStruct(in); err != nil {
		return matching.MatchingProfile{}, err
	}
	rules, err := buildRules(in.Rules)
	if err != nil {
		return matching.MatchingProfile{}, err
	}

	now := s.now()
	p := matching.MatchingProfile{
		ID:                     uuid.New(),
		ProfileName:            in.ProfileName,
		Description:            strings.TrimSpace(in.Description),
		Rules:                  rules,
		MaxResultsPerQuery:     matching.DefaultMaxResultsPerQuery,
		RecentJobDaysThreshold: matching.DefaultRecentJobDaysThreshold,
		Enabled:                true,
		CreatedBy:              actorID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if in.MatchingAlgorithm != "" {
		p.MatchingAlgorithm, _ = matching.ParseVariant(in.MatchingAlgorithm)
	}
	if in.MinimumMatchScore != nil {
		p.MinimumMatchScore = *in.MinimumMatchScore
	}
	if in.MaxResultsPerQuery != nil {
		p.MaxResultsPerQuery = *in.MaxResultsPerQuery
	}
	if in.IncludePartialMatches != nil {
		p.IncludePartialMatches = *in.IncludePartialMatches
	}
	if in.BoostRecentJobs != nil {
		p.BoostRecentJobs = *in.BoostRecentJobs
	}
	if in.RecentJobDaysThreshold != nil {
		p.RecentJobDaysThreshold = *in.RecentJobDaysThreshold
	}
	if in.Enabled != nil {
		p.Enabled = *in.Enabled
	}
	p.Normalize()
	if p.ProfileName == "" {
		return matching.MatchingProfile{}, invalidField("profileName", "required", "profileName is required")
	}

	var isDefault bool
	_, err = s.mutate(ctx, actorID, func(cfg *matching.MatchingConfig) error {
		if cfg.ProfileNameTaken(p.ProfileName, p.ID) {
			return invalidField("profileName", "unique", fmt.Sprintf("profileName %q is already used", p.ProfileName))
		}
		cfg.AddProfile(p)
		isDefault = cfg.IsDefaultProfile(p.ID)
		return nil
	})
	if err != nil {
		return matching.MatchingProfile{}, err
	}

	summary := fmt.Sprintf("created profile %q (%s) with %d rules", p.ProfileName, p.ID, len(p.Rules))
	if isDefault {
		summary += ", set as default"
	}
	s.activity.Record(ctx, "matching.profile.create", repository.SeverityInfo, actorID, summary)
	return p, nil
}

func (s *ProfileStore) UpdateProfile(ctx context.Context, actorID string, id uuid.UUID, in ProfilePatch) (matching.MatchingProfile, error) {
	if err := checkStruct(in); err != nil {
		return matching.MatchingProfile{}, err
	}
	var rules []matching.MatchingRule
	if in.Rules != nil {
		var err error
		if rules, err = buildRules(in.Rules); err != nil {
			return matching.MatchingProfile{}, err
		}
	}

	var (
		updated matching.MatchingProfile
		changes changeSet
	)
	_, err := s.mutate(ctx, actorID, func(cfg *matching.MatchingConfig) error {
		p, idx := cfg.Profile(id)
		if idx < 0 {
			return ErrProfileNotFound
		}
		if in.ProfileName != nil {
			name := strings.TrimSpace(*in.ProfileName)
			if name == "" {
				return invalidField("profileName", "required", "profileName is required")
			}
			if cfg.ProfileNameTaken(name, id) {
				return invalidField("profileName", "unique", fmt.Sprintf("profileName %q is already used", name))
			}
			changes.add("profileName", p.ProfileName, name)
			p.ProfileName = name
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
			changes.names = append(changes.names, "description")
		}
		if in.MatchingAlgorithm != nil {
			v, _ := matching.ParseVariant(*in.MatchingAlgorithm)
			changes.add("matchingAlgorithm", p.MatchingAlgorithm, v)
			p.MatchingAlgorithm = v
		}
		if rules != nil {
			changes.add("rules", len(p.Rules), len(rules))
			p.Rules = rules
		}
		changes.setFloat("minimumMatchScore", &p.MinimumMatchScore, in.MinimumMatchScore)
		changes.setInt("maxResultsPerQuery", &p.MaxResultsPerQuery, in.MaxResultsPerQuery)
		changes.setBool("includePartialMatches", &p.IncludePartialMatches, in.IncludePartialMatches)
		changes.setBool("boostRecentJobs", &p.BoostRecentJobs, in.BoostRecentJobs)
		changes.setInt("recentJobDaysThreshold", &p.RecentJobDaysThreshold, in.RecentJobDaysThreshold)
		changes.setBool("enabled", &p.Enabled, in.Enabled)

		p.UpdatedAt = s.now()
		p.Normalize()
		cfg.Profiles[idx] = p
		updated = p
		return nil
	})
	if err != nil {
		return matching.MatchingProfile{}, err
	}

	s.activity.Record(ctx, "matching.profile.update", repository.SeverityInfo, actorID,
		fmt.Sprintf("profile %s: %s", id, changes.String()))
	return updated, nil
}

// DeleteProfile removes a profile and returns the default profile id that
// is in effect afterwards.
func (s *ProfileStore) DeleteProfile(ctx context.Context, actorID string, id uuid.UUID) (*uuid.UUID, error) {
	var (
		name       string
		wasDefault bool
		newDefault *uuid.UUID
	)
	_, err := s.mutate(ctx, actorID, func(cfg *matching.MatchingConfig) error {
		p, idx := cfg.Profile(id)
		if idx < 0 {
			return ErrProfileNotFound
		}
		name = p.ProfileName
		wasDefault = cfg.IsDefaultProfile(id)
		cfg.RemoveProfile(id)
		newDefault = cfg.DefaultProfileID
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("deleted profile %q (%s)", name, id)
	if wasDefault {
		if newDefault != nil {
			summary += fmt.Sprintf(", default moved to %s", *newDefault)
		} else {
			summary += ", default cleared"
		}
	}
	s.activity.Record(ctx, "matching.profile.delete", repository.SeverityWarning, actorID, summary)
	return newDefault, nil
}

func (s *ProfileStore) SetDefaultProfile(ctx context.Context, actorID string, id uuid.UUID) error {
	var prev *uuid.UUID
	_, err := s.mutate(ctx, actorID, func(cfg *matching.MatchingConfig) error {
		if _, idx := cfg.Profile(id); idx < 0 {
			return ErrProfileNotFound
		}
		prev = cfg.DefaultProfileID
		next := id
		cfg.DefaultProfileID = &next
		return nil
	})
	if err != nil {
		return err
	}

	from := "none"
	if prev != nil {
		from = prev.String()
	}
	s.activity.Record(ctx, "matching.profile.default", repository.SeverityInfo, actorID,
		fmt.Sprintf("defaultProfileId: %s -> %s", from, id))
	return nil
}

// TestProfile scores the sample job against the stored profile's rules.
func (s *ProfileStore) TestProfile(ctx context.Context, id uuid.UUID, sample SampleJob) (matching.ProfileTestResult, error) {
	if err := checkStruct(sample); err != nil {
		return matching.ProfileTestResult{}, err
	}
	p, err := s.GetProfile(ctx, id)
	if err != nil {
		return matching.ProfileTestResult{}, err
	}
	j := matching.Job{
		Title:              sample.Title,
		RequiredSkills:     sample.RequiredSkills,
		Location:           sample.Location,
		Salary:             sample.Salary,
		ExperienceRequired: sample.ExperienceRequired,
		GrowthPotential:    sample.GrowthPotential,
	}
	return s.engine.TestProfile(p, j, nil), nil
}

// mutate loads the config, applies fn and saves the result. fn errors are
// returned unchanged; storage errors become ErrInternal.
func (s *ProfileStore) mutate(ctx context.Context, actorID string, fn func(cfg *matching.MatchingConfig) error) (matching.MatchingConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return matching.MatchingConfig{}, err
	}
	if err := fn(&cfg); err != nil {
		return matching.MatchingConfig{}, err
	}
	cfg.UpdatedAt = s.now()
	cfg.UpdatedBy = actorID
	if err := s.configs.Save(ctx, cfg); err != nil {
		s.log.Error("save matching config", zap.Error(err))
		return matching.MatchingConfig{}, ErrInternal
	}
	return cfg, nil
}

func buildRules(in []RuleInput) ([]matching.MatchingRule, error) {
	out := make([]matching.MatchingRule, 0, len(in))
	for i, r := range in {
		val, err := matching.ParseRuleValue(r.Value)
		if err != nil {
			return nil, invalidField(fmt.Sprintf("rules[%d].value", i), "value", err.Error())
		}
		enabled := true
		if r.Enabled != nil {
			enabled = *r.Enabled
		}
		rule, err := matching.NewRule(r.Name, matching.RuleType(r.RuleType), matching.Operator(r.Operator), val, r.Weight, r.Priority, enabled)
		if err != nil {
			var ire *matching.InvalidRuleError
			if errors.As(err, &ire) {
				return nil, invalidField(fmt.Sprintf("rules[%d].%s", i, ire.Field), "rule", fmt.Sprintf("rules[%d].%s %s", i, ire.Field, ire.Reason))
			}
			return nil, invalidField(fmt.Sprintf("rules[%d]", i), "rule", err.Error())
		}
		out = append(out, rule)
	}
	matching.SortRules(out)
	return out, nil
}

// changeSet collects "field: old -> new" entries for the activity log.
type changeSet struct {
	names []string
}

func (c *changeSet) add(field string, from, to any) {
	c.names = append(c.names, fmt.Sprintf("%s: %v -> %v", field, from, to))
}

func (c *changeSet) setBool(field string, dst *bool, v *bool) {
	if v == nil {
		return
	}
	c.add(field, *dst, *v)
	*dst = *v
}

func (c *changeSet) setInt(field string, dst *int, v *int) {
	if v == nil {
		return
	}
	c.add(field, *dst, *v)
	*dst = *v
}

func (c *changeSet) setFloat(field string, dst *float64, v *float64) {
	if v == nil {
		return
	}
	c.add(field, *dst, *v)
	*dst = *v
}

func (c changeSet) String() string {
	if len(c.names) == 0 {
		return "no changes"
	}
	return strings.Join(c.names, ", ")
}
