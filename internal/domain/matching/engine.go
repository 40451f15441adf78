package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinMatchQuality is the absolute score below which a job is never recommended.
const MinMatchQuality = 40.0

type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Candidate struct {
	UserID             uuid.UUID
	Skills             []string
	AvgExperienceYears float64
	SalaryRange        *SalaryRange
	PreferredLocations []string
}

type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

type Job struct {
	ID                 uuid.UUID
	CompanyID          uuid.UUID
	Title              string
	RequiredSkills     []string
	ExperienceRequired float64
	Salary             *Salary
	Location           string
	GrowthPotential    float64
	PostedAt           *time.Time
}

// Reasoning holds the five named sub-scores, each in [0,100].
type Reasoning struct {
	SkillMatch        float64 `json:"skillMatch"`
	ExperienceMatch   float64 `json:"experienceMatch"`
	SalaryMatch       float64 `json:"salaryMatch"`
	LocationMatch     float64 `json:"locationMatch"`
	CareerGrowthMatch float64 `json:"careerGrowthMatch"`
}

// Blend weighs the sub-scores in skill/experience/salary/location/growth order.
type Blend struct {
	Skill      float64
	Experience float64
	Salary     float64
	Location   float64
	Growth     float64
}

func (b Blend) sum() float64 {
	return b.Skill + b.Experience + b.Salary + b.Location + b.Growth
}

var fixedBlends = map[Variant]Blend{
	VariantContentBased:  {Skill: 0.40, Experience: 0.25, Salary: 0.15, Location: 0.10, Growth: 0.10},
	VariantCollaborative: {Skill: 0.30, Experience: 0.30, Salary: 0.20, Location: 0.10, Growth: 0.10},
	VariantHybrid:        {Skill: 0.35, Experience: 0.28, Salary: 0.17, Location: 0.10, Growth: 0.10},
}

// BlendFor returns the weight blend for v. The custom variant uses the config
// weight factors scaled to sum to one, with the qualification factor
// weighting career growth.
func BlendFor(v Variant, w WeightFactors) (Blend, error) {
	if b, ok := fixedBlends[v]; ok {
		return b, nil
	}
	if v != VariantCustom {
		return Blend{}, fmt.Errorf("unknown algorithm variant %q", v)
	}
	b := Blend{
		Skill:      math.Max(0, w.SkillWeightFactor),
		Experience: math.Max(0, w.ExperienceWeightFactor),
		Salary:     math.Max(0, w.SalaryWeightFactor),
		Location:   math.Max(0, w.LocationWeightFactor),
		Growth:     math.Max(0, w.QualificationWeightFactor),
	}
	total := b.sum()
	if total <= 0 {
		return Blend{}, fmt.Errorf("custom blend needs at least one positive weight factor")
	}
	b.Skill /= total
	b.Experience /= total
	b.Salary /= total
	b.Location /= total
	b.Growth /= total
	return b, nil
}

type Score struct {
	JobID           uuid.UUID
	MatchScore      float64
	Reasoning       Reasoning
	ConfidenceLevel float64
}

// Engine scores jobs for candidates. It keeps no state between calls.
type Engine struct {
	rules *RuleEvaluator
}

func NewEngine(rules *RuleEvaluator) *Engine {
	if rules == nil {
		rules = NewRuleEvaluator()
	}
	return &Engine{rules: rules}
}

// Score computes the weighted match of candidate against job.
func (e *Engine) Score(c Candidate, j Job, b Blend) Score {
	r := Reasoning{
		SkillMatch:        SkillMatch(j.RequiredSkills, c.Skills),
		ExperienceMatch:   ExperienceMatch(c.AvgExperienceYears, j.ExperienceRequired),
		SalaryMatch:       SalaryMatch(j.Salary, c.SalaryRange),
		LocationMatch:     LocationMatch(j.Location, c.PreferredLocations),
		CareerGrowthMatch: GrowthMatch(j.GrowthPotential),
	}

	total := r.SkillMatch*b.Skill +
		r.ExperienceMatch*b.Experience +
		r.SalaryMatch*b.Salary +
		r.LocationMatch*b.Location +
		r.CareerGrowthMatch*b.Growth

	score := round2(clampFloat(total, 0, 100))
	return Score{
		JobID:           j.ID,
		MatchScore:      score,
		Reasoning:       r,
		ConfidenceLevel: math.Min(1, score/100),
	}
}

// SkillMatch is the share of required skills the candidate covers, where a
// skill is covered when either name contains the other. No requirements
// scores 100.
func SkillMatch(required, have []string) float64 {
	req := nonEmptyNormalized(required)
	if len(req) == 0 {
		return 100
	}
	own := nonEmptyNormalized(have)

	matched := 0
	for _, r := range req {
		for _, h := range own {
			if containsEither(r, h) {
				matched++
				break
			}
		}
	}
	return clampFloat(float64(matched)/math.Max(1, float64(len(req)))*100, 0, 100)
}

func ExperienceMatch(candidateYears, requiredYears float64) float64 {
	if candidateYears >= requiredYears {
		return 100
	}
	if candidateYears <= 0 {
		return 0
	}
	return math.Min(100, candidateYears/math.Max(requiredYears, 1)*100)
}

// SalaryMatch scores the job's minimum salary against the preferred range:
// 100 inside it, 75 under its ceiling, 50 otherwise. A candidate without a
// preference scores 100; a job without a salary scores 50.
func SalaryMatch(salary *Salary, pref *SalaryRange) float64 {
	if pref == nil || (pref.Min <= 0 && pref.Max <= 0) {
		return 100
	}
	if salary == nil {
		return 50
	}
	ceiling := pref.Max
	if ceiling <= 0 {
		ceiling = math.Inf(1)
	}
	switch {
	case salary.Min >= pref.Min && salary.Min <= ceiling:
		return 100
	case salary.Min < ceiling:
		return 75
	default:
		return 50
	}
}

func LocationMatch(jobLocation string, preferred []string) float64 {
	prefs := nonEmptyNormalized(preferred)
	if len(prefs) == 0 {
		return 100
	}
	loc := normalize(jobLocation)
	for _, p := range prefs {
		if strings.Contains(loc, p) {
			return 100
		}
	}
	return 40
}

func GrowthMatch(potential float64) float64 {
	return clampFloat(potential*100, 0, 100)
}

type ProfileTestResult struct {
	MatchScore        int      `json:"matchScore"`
	IsMatch           bool     `json:"isMatch"`
	MinimumMatchScore float64  `json:"minimumMatchScore"`
	EvaluatedRules    int      `json:"evaluatedRules"`
	MatchedRules      []string `json:"matchedRules"`
}

// TestProfile scores a job against the profile's enabled rules: the weight
// of matched rules over the weight of all enabled rules, as a rounded
// percentage. candidate may be nil.
func (e *Engine) TestProfile(p MatchingProfile, j Job, c *Candidate) ProfileTestResult {
	rules := p.EnabledRules()
	res := ProfileTestResult{
		MinimumMatchScore: p.MinimumMatchScore,
		EvaluatedRules:    len(rules),
		MatchedRules:      []string{},
	}

	var matchedWeight, totalWeight float64
	for _, r := range rules {
		totalWeight += r.Weight
		if e.rules.Evaluate(r, j, c) {
			matchedWeight += r.Weight
			res.MatchedRules = append(res.MatchedRules, r.Name)
		}
	}

	if totalWeight > 0 {
		res.MatchScore = clampInt(int(math.Round(matchedWeight/totalWeight*100)), 0, 100)
	}
	res.IsMatch = float64(res.MatchScore) >= p.MinimumMatchScore
	return res
}

// MatchedRules returns the names of the profile's enabled rules that match.
func (e *Engine) MatchedRules(p MatchingProfile, j Job, c *Candidate) []string {
	var out []string
	for _, r := range p.EnabledRules() {
		if e.rules.Evaluate(r, j, c) {
			out = append(out, r.Name)
		}
	}
	return out
}

func nonEmptyNormalized(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = normalize(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampFloat(v, minV, maxV float64) float64 {
	if math.IsNaN(v) {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
