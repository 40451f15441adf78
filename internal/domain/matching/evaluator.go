package matching

import (
	"strings"
)

// RuleFunc evaluates one rule type. Implementations must be pure: the same
// rule, job and candidate always yield the same answer. candidate is nil when
// a profile is tested against a sample job alone.
type RuleFunc func(rule MatchingRule, job Job, candidate *Candidate) bool

// RuleEvaluator dispatches rules to the evaluator registered for their type.
// Register is meant for setup; it must not race with Evaluate.
type RuleEvaluator struct {
	funcs map[RuleType]RuleFunc
}

func NewRuleEvaluator() *RuleEvaluator {
	e := &RuleEvaluator{funcs: make(map[RuleType]RuleFunc, 7)}
	e.funcs[RuleTypeSkill] = evalSkill
	e.funcs[RuleTypeLocation] = evalLocation
	e.funcs[RuleTypeSalary] = evalSalary

	// extension points, no behaviour yet
	e.funcs[RuleTypeExperience] = neverMatches
	e.funcs[RuleTypeQualification] = neverMatches
	e.funcs[RuleTypeIndustry] = neverMatches
	e.funcs[RuleTypeCustom] = neverMatches
	return e
}

// Register installs fn for t, replacing any previous evaluator.
func (e *RuleEvaluator) Register(t RuleType, fn RuleFunc) {
	if e == nil || fn == nil {
		return
	}
	e.funcs[t] = fn
}

// Evaluate reports whether rule matches the job/candidate pair. Disabled
// rules never match.
func (e *RuleEvaluator) Evaluate(rule MatchingRule, job Job, candidate *Candidate) bool {
	if e == nil || !rule.Enabled {
		return false
	}
	fn, ok := e.funcs[rule.RuleType]
	if !ok || fn == nil {
		return false
	}
	return fn(rule, job, candidate)
}

func neverMatches(MatchingRule, Job, *Candidate) bool { return false }

func evalSkill(rule MatchingRule, job Job, candidate *Candidate) bool {
	subjects := make([]string, 0, len(job.RequiredSkills))
	subjects = append(subjects, job.RequiredSkills...)
	if candidate != nil {
		subjects = append(subjects, candidate.Skills...)
	}
	return matchAny(rule, subjects)
}

func evalLocation(rule MatchingRule, job Job, candidate *Candidate) bool {
	subjects := []string{job.Location}
	if candidate != nil {
		subjects = append(subjects, candidate.PreferredLocations...)
	}
	return matchAny(rule, subjects)
}

// evalSalary only checks that the job advertises a salary; the rule's range
// is not compared against it.
func evalSalary(_ MatchingRule, job Job, _ *Candidate) bool {
	return job.Salary != nil
}

func matchAny(rule MatchingRule, subjects []string) bool {
	for _, s := range subjects {
		s = normalize(s)
		if s == "" {
			continue
		}
		if matchText(rule, s) {
			return true
		}
	}
	return false
}

func matchText(rule MatchingRule, subject string) bool {
	v := rule.Value
	switch rule.Operator {
	case OperatorEquals:
		return subject == normalize(v.Text())
	case OperatorContains:
		return containsEither(subject, normalize(v.Text()))
	case OperatorIn:
		for _, it := range v.list {
			if subject == normalize(it) {
				return true
			}
		}
		return false
	case OperatorRegex:
		return v.pattern != nil && v.pattern.MatchString(subject)
	}
	return false
}

// containsEither reports whether a contains b or b contains a. Empty strings
// never match.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
