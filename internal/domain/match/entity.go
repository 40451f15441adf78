package match

import (
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
)

// RetentionWindow is how long a recommendation stays visible after creation.
const RetentionWindow = 30 * 24 * time.Hour

type Feedback string

const (
	FeedbackRelevant       Feedback = "relevant"
	FeedbackIrrelevant     Feedback = "irrelevant"
	FeedbackAlreadyApplied Feedback = "already-applied"
)

func (f Feedback) Valid() bool {
	switch f {
	case FeedbackRelevant, FeedbackIrrelevant, FeedbackAlreadyApplied:
		return true
	}
	return false
}

type Action string

const (
	ActionClick Action = "click"
	ActionApply Action = "apply"
)

func (a Action) Valid() bool {
	return a == ActionClick || a == ActionApply
}

// MatchResult is one persisted job recommendation. The scoring fields are
// fixed at creation; only the engagement fields change afterwards.
type MatchResult struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"userId"`
	JobID           uuid.UUID          `json:"jobId"`
	CompanyID       uuid.UUID          `json:"companyId"`
	MatchScore      float64            `json:"matchScore"`
	MatchReasoning  matching.Reasoning `json:"matchReasoning"`
	AlgorithmType   matching.Variant   `json:"algorithmType"`
	ConfidenceLevel float64            `json:"confidenceLevel"`
	ProfileID       *uuid.UUID         `json:"profileId,omitempty"`
	MatchedRules    []string           `json:"matchedRules,omitempty"`

	Clicked    bool       `json:"clicked"`
	ClickedAt  *time.Time `json:"clickedAt,omitempty"`
	Applied    bool       `json:"applied"`
	AppliedAt  *time.Time `json:"appliedAt,omitempty"`
	Feedback   *Feedback  `json:"feedback,omitempty"`
	FeedbackAt *time.Time `json:"feedbackAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewMatchResult builds a recommendation from a score created at now.
func NewMatchResult(userID uuid.UUID, companyID uuid.UUID, s matching.Score, v matching.Variant, now time.Time) MatchResult {
	return MatchResult{
		ID:              uuid.New(),
		UserID:          userID,
		JobID:           s.JobID,
		CompanyID:       companyID,
		MatchScore:      s.MatchScore,
		MatchReasoning:  s.Reasoning,
		AlgorithmType:   v,
		ConfidenceLevel: s.ConfidenceLevel,
		CreatedAt:       now,
		ExpiresAt:       now.Add(RetentionWindow),
	}
}

func (m MatchResult) Expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && !now.Before(m.ExpiresAt)
}

// Click marks the result clicked. The first timestamp wins.
func (m *MatchResult) Click(now time.Time) {
	if m.Clicked && m.ClickedAt != nil {
		return
	}
	m.Clicked = true
	t := now
	m.ClickedAt = &t
}

// Apply marks the result applied. The first timestamp wins.
func (m *MatchResult) Apply(now time.Time) {
	if m.Applied && m.AppliedAt != nil {
		return
	}
	m.Applied = true
	t := now
	m.AppliedAt = &t
}

// SetFeedback overwrites any earlier annotation.
func (m *MatchResult) SetFeedback(f Feedback, now time.Time) {
	v := f
	t := now
	m.Feedback = &v
	m.FeedbackAt = &t
}
