package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"

	"github.com/go-playground/validator/v10"
)

var (
	v    *validator.Validate
	once sync.Once
)

// FieldError describes one rejected input field. Field is the json path,
// for example "rules[0].weight".
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("rule_type", func(fl validator.FieldLevel) bool {
			return matching.RuleType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("rule_operator", func(fl validator.FieldLevel) bool {
			return matching.Operator(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
			return matching.Algorithm(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
			_, ok := matching.ParseVariant(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("feedback", func(fl validator.FieldLevel) bool {
			return match.Feedback(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("action", func(fl validator.FieldLevel) bool {
			return match.Action(fl.Field().String()).Valid()
		})
	})
	return v
}

// Struct validates s and returns Errors when any field is rejected.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	f := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f)
	case "min":
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", f, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", f)
	case "rule_type":
		return fmt.Sprintf("%s must be one of: skill, location, salary, experience, qualification, industry, custom", f)
	case "rule_operator":
		return fmt.Sprintf("%s must be one of: equals, contains, range, in, regex", f)
	case "algorithm":
		return fmt.Sprintf("%s must be one of: weighted, ml, hybrid", f)
	case "variant":
		return fmt.Sprintf("%s must be one of: content-based, collaborative, hybrid, custom, weighted, ml", f)
	case "feedback":
		return fmt.Sprintf("%s must be one of: relevant, irrelevant, already-applied", f)
	case "action":
		return fmt.Sprintf("%s must be one of: click, apply", f)
	default:
		return fmt.Sprintf("%s is invalid", f)
	}
}
