package matching

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRule(t *testing.T, name string, rt RuleType, op Operator, v RuleValue, weight float64) MatchingRule {
	t.Helper()
	r, err := NewRule(name, rt, op, v, weight, 0, true)
	require.NoError(t, err)
	return r
}

func TestSkillMatch(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		have     []string
		want     float64
	}{
		{name: "no requirements", required: nil, have: []string{"Go"}, want: 100},
		{name: "blank requirements", required: []string{" ", ""}, have: nil, want: 100},
		{name: "half covered", required: []string{"Python", "AWS"}, have: []string{"Python"}, want: 50},
		{name: "case insensitive", required: []string{"postgresql"}, have: []string{"PostgreSQL"}, want: 100},
		{name: "candidate skill contains requirement", required: []string{"React"}, have: []string{"React Native"}, want: 100},
		{name: "requirement contains candidate skill", required: []string{"Amazon AWS"}, have: []string{"aws"}, want: 100},
		{name: "nothing covered", required: []string{"Rust"}, have: []string{"Go"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SkillMatch(tt.required, tt.have))
		})
	}
}

func TestExperienceMatch(t *testing.T) {
	assert.Equal(t, 100.0, ExperienceMatch(5, 3))
	assert.Equal(t, 100.0, ExperienceMatch(3, 3))
	assert.Equal(t, 100.0, ExperienceMatch(0, 0))
	assert.Equal(t, 50.0, ExperienceMatch(2, 4))
	assert.Equal(t, 0.0, ExperienceMatch(0, 2))
}

func TestSalaryMatch(t *testing.T) {
	pref := &SalaryRange{Min: 50000, Max: 80000}

	assert.Equal(t, 100.0, SalaryMatch(&Salary{Min: 60000}, pref))
	assert.Equal(t, 75.0, SalaryMatch(&Salary{Min: 30000}, pref))
	assert.Equal(t, 50.0, SalaryMatch(&Salary{Min: 90000}, pref))
	assert.Equal(t, 50.0, SalaryMatch(nil, pref))
	assert.Equal(t, 100.0, SalaryMatch(&Salary{Min: 1}, nil))
}

func TestLocationMatch(t *testing.T) {
	assert.Equal(t, 100.0, LocationMatch("Jakarta, Indonesia", nil))
	assert.Equal(t, 100.0, LocationMatch("Jakarta, Indonesia", []string{"jakarta"}))
	assert.Equal(t, 40.0, LocationMatch("Bandung", []string{"Jakarta", "Remote"}))
}

func TestGrowthMatch(t *testing.T) {
	assert.Equal(t, 80.0, GrowthMatch(0.8))
	assert.Equal(t, 100.0, GrowthMatch(3))
	assert.Equal(t, 0.0, GrowthMatch(-1))
}

func TestEngine_Score_HybridSkillContribution(t *testing.T) {
	e := NewEngine(nil)
	b, err := BlendFor(VariantHybrid, WeightFactors{})
	require.NoError(t, err)

	c := Candidate{Skills: []string{"Python"}}
	j := Job{ID: uuid.New(), RequiredSkills: []string{"Python", "AWS"}}

	s := e.Score(c, j, b)
	assert.Equal(t, 50.0, s.Reasoning.SkillMatch)
	assert.InDelta(t, 17.5, s.Reasoning.SkillMatch*b.Skill, 1e-9)

	// experience, salary, location all default to 100, growth 0
	want := 17.5 + 0.28*100 + 0.17*100 + 0.10*100
	assert.InDelta(t, want, s.MatchScore, 0.01)
	assert.InDelta(t, s.MatchScore/100, s.ConfidenceLevel, 1e-9)
}

func TestEngine_Score_BoundedForEveryVariant(t *testing.T) {
	e := NewEngine(nil)
	candidates := []Candidate{
		{},
		{Skills: []string{"Go", "SQL"}, AvgExperienceYears: 20, SalaryRange: &SalaryRange{Min: 1, Max: 2}, PreferredLocations: []string{"Mars"}},
		{Skills: []string{""}, AvgExperienceYears: -5},
	}
	jobs := []Job{
		{},
		{RequiredSkills: []string{"Go"}, ExperienceRequired: 3, Salary: &Salary{Min: 100}, Location: "Earth", GrowthPotential: 50},
		{RequiredSkills: []string{"x", "y", "z"}, ExperienceRequired: -1, GrowthPotential: -3},
	}
	weights := []WeightFactors{
		{SkillWeightFactor: 1},
		{SkillWeightFactor: 1, LocationWeightFactor: 1, SalaryWeightFactor: 1, ExperienceWeightFactor: 1, QualificationWeightFactor: 1},
		{QualificationWeightFactor: 0.01},
	}

	variants := []Variant{VariantContentBased, VariantCollaborative, VariantHybrid, VariantCustom}
	for _, v := range variants {
		for wi, w := range weights {
			b, err := BlendFor(v, w)
			require.NoError(t, err)
			for ci, c := range candidates {
				for ji, j := range jobs {
					t.Run(fmt.Sprintf("%s/w%d/c%d/j%d", v, wi, ci, ji), func(t *testing.T) {
						s := e.Score(c, j, b)
						assert.GreaterOrEqual(t, s.MatchScore, 0.0)
						assert.LessOrEqual(t, s.MatchScore, 100.0)
						assert.GreaterOrEqual(t, s.ConfidenceLevel, 0.0)
						assert.LessOrEqual(t, s.ConfidenceLevel, 1.0)
					})
				}
			}
		}
	}
}

func TestBlendFor(t *testing.T) {
	_, err := BlendFor(Variant("neural"), WeightFactors{})
	assert.Error(t, err)

	_, err = BlendFor(VariantCustom, WeightFactors{})
	assert.Error(t, err)

	b, err := BlendFor(VariantCustom, WeightFactors{SkillWeightFactor: 0.5, LocationWeightFactor: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, b.Skill, 1e-9)
	assert.InDelta(t, 0.5, b.Location, 1e-9)
	assert.InDelta(t, 1.0, b.sum(), 1e-9)
}

func TestEngine_TestProfile_BackendIndia(t *testing.T) {
	e := NewEngine(nil)
	p := MatchingProfile{
		ProfileName:       "Backend India",
		Rules:             []MatchingRule{mustRule(t, "React skill", RuleTypeSkill, OperatorContains, TextValue("React"), 50)},
		MinimumMatchScore: 50,
	}
	job := Job{Title: "Frontend Dev", RequiredSkills: []string{"React", "TypeScript"}}

	res := e.TestProfile(p, job, nil)
	assert.Equal(t, 100, res.MatchScore)
	assert.True(t, res.IsMatch)
	assert.Equal(t, []string{"React skill"}, res.MatchedRules)
}

func TestEngine_TestProfile_NonDecreasingInMatchedRules(t *testing.T) {
	e := NewEngine(nil)
	job := Job{RequiredSkills: []string{"Go"}, Location: "Berlin", Salary: &Salary{Min: 1}}

	base := []MatchingRule{
		mustRule(t, "go", RuleTypeSkill, OperatorContains, TextValue("go"), 30),
		mustRule(t, "rust", RuleTypeSkill, OperatorEquals, TextValue("rust"), 70),
	}
	additions := []MatchingRule{
		mustRule(t, "berlin", RuleTypeLocation, OperatorContains, TextValue("berlin"), 40),
		mustRule(t, "salary", RuleTypeSalary, OperatorRange, RangeValue(0, 10), 100),
		mustRule(t, "zero", RuleTypeSkill, OperatorEquals, TextValue("go"), 0),
	}

	prev := e.TestProfile(MatchingProfile{Rules: base}, job, nil).MatchScore
	rules := append([]MatchingRule{}, base...)
	for _, add := range additions {
		rules = append(rules, add)
		got := e.TestProfile(MatchingProfile{Rules: rules}, job, nil).MatchScore
		assert.GreaterOrEqual(t, got, prev)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
}

func TestEngine_TestProfile_DisabledAndEmpty(t *testing.T) {
	e := NewEngine(nil)
	job := Job{RequiredSkills: []string{"Go"}}

	res := e.TestProfile(MatchingProfile{MinimumMatchScore: 0}, job, nil)
	assert.Equal(t, 0, res.MatchScore)
	assert.True(t, res.IsMatch)

	r := mustRule(t, "go", RuleTypeSkill, OperatorEquals, TextValue("go"), 100)
	r.Enabled = false
	res = e.TestProfile(MatchingProfile{Rules: []MatchingRule{r}, MinimumMatchScore: 10}, job, nil)
	assert.Equal(t, 0, res.EvaluatedRules)
	assert.False(t, res.IsMatch)
}
