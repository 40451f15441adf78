package matching

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConfigID is the document id of the process-wide matching config.
const ConfigID = "default"

// Algorithm is the admin-facing algorithm selector stored in the config.
type Algorithm string

const (
	AlgorithmWeighted Algorithm = "weighted"
	AlgorithmML       Algorithm = "ml"
	AlgorithmHybrid   Algorithm = "hybrid"
)

func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmWeighted, AlgorithmML, AlgorithmHybrid:
		return true
	}
	return false
}

// Variant maps the config algorithm onto a scoring blend.
func (a Algorithm) Variant() Variant {
	switch a {
	case AlgorithmWeighted:
		return VariantContentBased
	case AlgorithmML:
		return VariantCollaborative
	default:
		return VariantHybrid
	}
}

// Variant names a fixed weight blend over the five scoring dimensions.
type Variant string

const (
	VariantContentBased  Variant = "content-based"
	VariantCollaborative Variant = "collaborative"
	VariantHybrid        Variant = "hybrid"
	// VariantCustom blends with the config weight factors.
	VariantCustom Variant = "custom"
)

// ParseVariant accepts a variant name or a config algorithm name.
func ParseVariant(s string) (Variant, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Variant(s) {
	case VariantContentBased, VariantCollaborative, VariantHybrid, VariantCustom:
		return Variant(s), true
	}
	if a := Algorithm(s); a.Valid() {
		return a.Variant(), true
	}
	return "", false
}

type WeightFactors struct {
	SkillWeightFactor         float64 `json:"skillWeightFactor"`
	LocationWeightFactor      float64 `json:"locationWeightFactor"`
	SalaryWeightFactor        float64 `json:"salaryWeightFactor"`
	ExperienceWeightFactor    float64 `json:"experienceWeightFactor"`
	QualificationWeightFactor float64 `json:"qualificationWeightFactor"`
}

func (w WeightFactors) Sum() float64 {
	return w.SkillWeightFactor + w.LocationWeightFactor + w.SalaryWeightFactor +
		w.ExperienceWeightFactor + w.QualificationWeightFactor
}

type MatchingProfile struct {
	ID                     uuid.UUID      `json:"id"`
	ProfileName            string         `json:"profileName"`
	Description            string         `json:"description,omitempty"`
	MatchingAlgorithm      Variant        `json:"matchingAlgorithm"`
	Rules                  []MatchingRule `json:"rules"`
	MinimumMatchScore      float64        `json:"minimumMatchScore"`
	MaxResultsPerQuery     int            `json:"maxResultsPerQuery"`
	IncludePartialMatches  bool           `json:"includePartialMatches"`
	BoostRecentJobs        bool           `json:"boostRecentJobs"`
	RecentJobDaysThreshold int            `json:"recentJobDaysThreshold"`
	Enabled                bool           `json:"enabled"`
	CreatedBy              string         `json:"createdBy,omitempty"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

const (
	DefaultMaxResultsPerQuery     = 50
	DefaultRecentJobDaysThreshold = 7
)

// Normalize clamps the profile thresholds into range and orders the rules
// by priority. Out-of-range thresholds are clamped, never rejected.
func (p *MatchingProfile) Normalize() {
	p.ProfileName = strings.TrimSpace(p.ProfileName)
	p.MinimumMatchScore = clampFloat(p.MinimumMatchScore, 0, 100)
	p.MaxResultsPerQuery = clampInt(p.MaxResultsPerQuery, 1, 1000)
	if p.RecentJobDaysThreshold <= 0 {
		p.RecentJobDaysThreshold = DefaultRecentJobDaysThreshold
	}
	if p.MatchingAlgorithm == "" {
		p.MatchingAlgorithm = VariantHybrid
	}
	if p.Rules == nil {
		p.Rules = []MatchingRule{}
	}
	SortRules(p.Rules)
}

// EnabledRules returns enabled rules in evaluation order.
func (p MatchingProfile) EnabledRules() []MatchingRule {
	out := make([]MatchingRule, 0, len(p.Rules))
	for _, r := range p.Rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	SortRules(out)
	return out
}

type MatchingConfig struct {
	ID               string    `json:"id"`
	MatchingEnabled  bool      `json:"matchingEnabled"`
	DefaultAlgorithm Algorithm `json:"defaultAlgorithm"`
	WeightFactors

	MaxConcurrentMatches   int  `json:"maxConcurrentMatches"`
	BatchSize              int  `json:"batchSize"`
	BatchProcessingEnabled bool `json:"batchProcessingEnabled"`
	CacheMatchResults      bool `json:"cacheMatchResults"`
	// CacheTTL is in seconds.
	CacheTTL int `json:"cacheTTL"`

	MinJobQualityScore     float64 `json:"minJobQualityScore"`
	FilterOutExpiredJobs   bool    `json:"filterOutExpiredJobs"`
	FilterOutDuplicateJobs bool    `json:"filterOutDuplicateJobs"`

	Profiles         []MatchingProfile `json:"profiles"`
	DefaultProfileID *uuid.UUID        `json:"defaultProfileId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

func DefaultConfig() MatchingConfig {
	return MatchingConfig{
		ID:               ConfigID,
		MatchingEnabled:  true,
		DefaultAlgorithm: AlgorithmHybrid,
		WeightFactors: WeightFactors{
			SkillWeightFactor:         0.35,
			LocationWeightFactor:      0.10,
			SalaryWeightFactor:        0.17,
			ExperienceWeightFactor:    0.28,
			QualificationWeightFactor: 0.10,
		},
		MaxConcurrentMatches:   8,
		BatchSize:              100,
		BatchProcessingEnabled: false,
		CacheMatchResults:      false,
		CacheTTL:               3600,
		MinJobQualityScore:     0,
		FilterOutExpiredJobs:   true,
		FilterOutDuplicateJobs: true,
		Profiles:               []MatchingProfile{},
	}
}

func (c MatchingConfig) CacheDuration() time.Duration {
	if c.CacheTTL <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTL) * time.Second
}

// Profile returns the index of the profile with id, or -1.
func (c MatchingConfig) Profile(id uuid.UUID) (MatchingProfile, int) {
	for i, p := range c.Profiles {
		if p.ID == id {
			return p, i
		}
	}
	return MatchingProfile{}, -1
}

// ProfileNameTaken reports whether another profile already uses name.
func (c MatchingConfig) ProfileNameTaken(name string, except uuid.UUID) bool {
	for _, p := range c.Profiles {
		if p.ID != except && strings.EqualFold(p.ProfileName, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// AddProfile appends p; the first profile becomes the default.
func (c *MatchingConfig) AddProfile(p MatchingProfile) {
	c.Profiles = append(c.Profiles, p)
	if c.DefaultProfileID == nil {
		id := p.ID
		c.DefaultProfileID = &id
	}
}

// RemoveProfile deletes the profile with id. When it was the default, the
// profile that followed it becomes the default (wrapping to the first), or
// the default is cleared when none remain.
func (c *MatchingConfig) RemoveProfile(id uuid.UUID) bool {
	_, idx := c.Profile(id)
	if idx < 0 {
		return false
	}
	c.Profiles = append(c.Profiles[:idx], c.Profiles[idx+1:]...)

	if c.DefaultProfileID == nil || *c.DefaultProfileID != id {
		return true
	}
	if len(c.Profiles) == 0 {
		c.DefaultProfileID = nil
		return true
	}
	if idx >= len(c.Profiles) {
		idx = 0
	}
	next := c.Profiles[idx].ID
	c.DefaultProfileID = &next
	return true
}

func (c MatchingConfig) IsDefaultProfile(id uuid.UUID) bool {
	return c.DefaultProfileID != nil && *c.DefaultProfileID == id
}
