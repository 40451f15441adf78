package usecase

import (
	"errors"
	"strings"

	"jobmatch/internal/pkg/validate"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrInternal         = errors.New("internal error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMatchingDisabled = errors.New("matching is disabled")
)

var (
	ErrConfigNotFound         = &kindError{msg: "matching config not found", kind: ErrNotFound}
	ErrProfileNotFound        = &kindError{msg: "matching profile not found", kind: ErrNotFound}
	ErrRecommendationNotFound = &kindError{msg: "recommendation not found", kind: ErrNotFound}
	ErrCandidateNotFound      = &kindError{msg: "candidate not found", kind: ErrNotFound}
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// ValidationError lists the rejected input fields. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidField(field, tag, message string) *ValidationError {
	return &ValidationError{Fields: []validate.FieldError{{Field: field, Tag: tag, Message: message}}}
}

// checkStruct runs struct-tag validation and converts failures to a
// ValidationError.
func checkStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fes validate.Errors
	if errors.As(err, &fes) {
		return &ValidationError{Fields: fes}
	}
	return &ValidationError{Fields: []validate.FieldError{{Field: "", Tag: "invalid", Message: err.Error()}}}
}
