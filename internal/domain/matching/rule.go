package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type RuleType string

const (
	RuleTypeSkill         RuleType = "skill"
	RuleTypeLocation      RuleType = "location"
	RuleTypeSalary        RuleType = "salary"
	RuleTypeExperience    RuleType = "experience"
	RuleTypeQualification RuleType = "qualification"
	RuleTypeIndustry      RuleType = "industry"
	RuleTypeCustom        RuleType = "custom"
)

type Operator string

const (
	OperatorEquals   Operator = "equals"
	OperatorContains Operator = "contains"
	OperatorRange    Operator = "range"
	OperatorIn       Operator = "in"
	OperatorRegex    Operator = "regex"
)

// operatorsByType lists the operators each rule type accepts.
var operatorsByType = map[RuleType][]Operator{
	RuleTypeSkill:         {OperatorEquals, OperatorContains, OperatorIn, OperatorRegex},
	RuleTypeLocation:      {OperatorEquals, OperatorContains, OperatorIn, OperatorRegex},
	RuleTypeSalary:        {OperatorRange, OperatorEquals},
	RuleTypeExperience:    {OperatorEquals, OperatorRange},
	RuleTypeQualification: {OperatorEquals, OperatorContains, OperatorIn},
	RuleTypeIndustry:      {OperatorEquals, OperatorContains, OperatorIn, OperatorRegex},
	RuleTypeCustom:        {OperatorEquals, OperatorContains, OperatorRange, OperatorIn, OperatorRegex},
}

func (t RuleType) Valid() bool {
	_, ok := operatorsByType[t]
	return ok
}

func (o Operator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorContains, OperatorRange, OperatorIn, OperatorRegex:
		return true
	}
	return false
}

type ValueKind string

const (
	ValueNone   ValueKind = ""
	ValueText   ValueKind = "text"
	ValueNumber ValueKind = "number"
	ValueList   ValueKind = "list"
	ValueRange  ValueKind = "range"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RuleValue is the typed value a rule compares against. Exactly one variant
// is populated, selected by Kind.
type RuleValue struct {
	kind    ValueKind
	text    string
	number  float64
	list    []string
	rng     Range
	pattern *regexp.Regexp
}

func TextValue(s string) RuleValue { return RuleValue{kind: ValueText, text: s} }

func NumberValue(n float64) RuleValue { return RuleValue{kind: ValueNumber, number: n} }

func RangeValue(lo, hi float64) RuleValue {
	return RuleValue{kind: ValueRange, rng: Range{Min: lo, Max: hi}}
}

func ListValue(items []string) RuleValue {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
	}
	return RuleValue{kind: ValueList, list: out}
}

func (v RuleValue) Kind() ValueKind { return v.kind }
func (v RuleValue) Range() Range    { return v.rng }
func (v RuleValue) Number() float64 { return v.number }

func (v RuleValue) List() []string {
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out
}

// Text returns the textual form of text and number values.
func (v RuleValue) Text() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return ""
}

func (v RuleValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueNumber:
		return json.Marshal(v.number)
	case ValueList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case ValueRange:
		return json.Marshal(v.rng)
	}
	return []byte("null"), nil
}

func (v *RuleValue) UnmarshalJSON(b []byte) error {
	parsed, err := ParseRuleValue(b)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseRuleValue decodes the JSON shape of a rule value: a string, a number,
// an array of strings or a {min,max} object.
func ParseRuleValue(raw []byte) (RuleValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return RuleValue{}, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return RuleValue{}, err
		}
		return TextValue(s), nil
	case '[':
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return RuleValue{}, fmt.Errorf("list value must contain strings: %w", err)
		}
		return ListValue(items), nil
	case '{':
		var r struct {
			Min *float64 `json:"min"`
			Max *float64 `json:"max"`
		}
		if err := json.Unmarshal(raw, &r); err != nil {
			return RuleValue{}, err
		}
		if r.Min == nil || r.Max == nil {
			return RuleValue{}, fmt.Errorf("range value requires min and max")
		}
		return RangeValue(*r.Min, *r.Max), nil
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return RuleValue{}, fmt.Errorf("unsupported value: %w", err)
		}
		return NumberValue(n), nil
	}
}

type MatchingRule struct {
	Name     string    `json:"name"`
	RuleType RuleType  `json:"ruleType"`
	Operator Operator  `json:"operator"`
	Value    RuleValue `json:"value"`
	Weight   float64   `json:"weight"`
	Priority int       `json:"priority"`
	Enabled  bool      `json:"enabled"`
}

// InvalidRuleError reports which rule field failed construction.
type InvalidRuleError struct {
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return "invalid rule " + e.Field + ": " + e.Reason
}

// NewRule validates the (ruleType, operator, value) combination and returns
// a rule ready for evaluation.
func NewRule(name string, ruleType RuleType, op Operator, value RuleValue, weight float64, priority int, enabled bool) (MatchingRule, error) {
	r := MatchingRule{
		Name:     strings.TrimSpace(name),
		RuleType: ruleType,
		Operator: op,
		Value:    value,
		Weight:   weight,
		Priority: priority,
		Enabled:  enabled,
	}
	if err := r.compile(); err != nil {
		return MatchingRule{}, err
	}
	return r, nil
}

// Validate reports whether the rule would pass NewRule.
func (r MatchingRule) Validate() error {
	return r.compile()
}

func (r *MatchingRule) compile() error {
	if r.Name == "" {
		return &InvalidRuleError{Field: "name", Reason: "is required"}
	}
	if r.RuleType == "" {
		return &InvalidRuleError{Field: "ruleType", Reason: "is required"}
	}
	if !r.RuleType.Valid() {
		return &InvalidRuleError{Field: "ruleType", Reason: fmt.Sprintf("unknown rule type %q", r.RuleType)}
	}
	if r.Operator == "" {
		return &InvalidRuleError{Field: "operator", Reason: "is required"}
	}
	if !r.Operator.Valid() {
		return &InvalidRuleError{Field: "operator", Reason: fmt.Sprintf("unknown operator %q", r.Operator)}
	}
	if !operatorAllowed(r.RuleType, r.Operator) {
		return &InvalidRuleError{Field: "operator", Reason: fmt.Sprintf("%s rules do not support %s", r.RuleType, r.Operator)}
	}
	if r.Weight < 0 || r.Weight > 100 {
		return &InvalidRuleError{Field: "weight", Reason: "must be between 0 and 100"}
	}

	v := r.Value
	switch r.Operator {
	case OperatorRange:
		if v.kind != ValueRange {
			return &InvalidRuleError{Field: "value", Reason: "range operator requires a {min,max} value"}
		}
		if v.rng.Min > v.rng.Max {
			return &InvalidRuleError{Field: "value", Reason: "range min exceeds max"}
		}
	case OperatorIn:
		if v.kind != ValueList || len(v.list) == 0 {
			return &InvalidRuleError{Field: "value", Reason: "in operator requires a non-empty list"}
		}
	case OperatorRegex:
		if v.kind != ValueText || v.text == "" {
			return &InvalidRuleError{Field: "value", Reason: "regex operator requires a pattern"}
		}
		p, err := regexp.Compile("(?i)" + v.text)
		if err != nil {
			return &InvalidRuleError{Field: "value", Reason: "invalid pattern: " + err.Error()}
		}
		r.Value.pattern = p
	case OperatorEquals, OperatorContains:
		if v.kind != ValueText && v.kind != ValueNumber {
			return &InvalidRuleError{Field: "value", Reason: string(r.Operator) + " operator requires a text or number value"}
		}
		if v.kind == ValueText && strings.TrimSpace(v.text) == "" {
			return &InvalidRuleError{Field: "value", Reason: "must not be empty"}
		}
	}
	return nil
}

// UnmarshalJSON restores compiled state for rules read back from storage.
// Stored rules that no longer validate keep their data but never compile a
// pattern, so regex rules among them never match.
func (r *MatchingRule) UnmarshalJSON(b []byte) error {
	type alias MatchingRule
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*r = MatchingRule(a)
	if r.Operator == OperatorRegex && r.Value.kind == ValueText {
		if p, err := regexp.Compile("(?i)" + r.Value.text); err == nil {
			r.Value.pattern = p
		}
	}
	return nil
}

func operatorAllowed(t RuleType, op Operator) bool {
	for _, it := range operatorsByType[t] {
		if it == op {
			return true
		}
	}
	return false
}

// SortRules orders rules by priority, highest first, keeping input order for ties.
func SortRules(rules []MatchingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
}
