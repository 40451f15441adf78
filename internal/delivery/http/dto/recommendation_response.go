package dto

import (
	"time"

	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
)

type RecommendationResponse struct {
	ID              uuid.UUID          `json:"id"`
	JobID           uuid.UUID          `json:"jobId"`
	CompanyID       uuid.UUID          `json:"companyId"`
	MatchScore      float64            `json:"matchScore"`
	MatchReasoning  matching.Reasoning `json:"matchReasoning"`
	AlgorithmType   matching.Variant   `json:"algorithmType"`
	ConfidenceLevel float64            `json:"confidenceLevel"`
	ProfileID       *uuid.UUID         `json:"profileId,omitempty"`
	MatchedRules    []string           `json:"matchedRules,omitempty"`
	Clicked         bool               `json:"clicked"`
	ClickedAt       *time.Time         `json:"clickedAt,omitempty"`
	Applied         bool               `json:"applied"`
	AppliedAt       *time.Time         `json:"appliedAt,omitempty"`
	Feedback        *match.Feedback    `json:"feedback,omitempty"`
	FeedbackAt      *time.Time         `json:"feedbackAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	ExpiresAt       time.Time          `json:"expiresAt"`
}

type RecommendationListResponse struct {
	UserID uuid.UUID                `json:"userId"`
	Count  int                      `json:"count"`
	Items  []RecommendationResponse `json:"items"`
}

func NewRecommendationResponse(m match.MatchResult) RecommendationResponse {
	return RecommendationResponse{
		ID:              m.ID,
		JobID:           m.JobID,
		CompanyID:       m.CompanyID,
		MatchScore:      m.MatchScore,
		MatchReasoning:  m.MatchReasoning,
		AlgorithmType:   m.AlgorithmType,
		ConfidenceLevel: m.ConfidenceLevel,
		ProfileID:       m.ProfileID,
		MatchedRules:    m.MatchedRules,
		Clicked:         m.Clicked,
		ClickedAt:       m.ClickedAt,
		Applied:         m.Applied,
		AppliedAt:       m.AppliedAt,
		Feedback:        m.Feedback,
		FeedbackAt:      m.FeedbackAt,
		CreatedAt:       m.CreatedAt,
		ExpiresAt:       m.ExpiresAt,
	}
}

func NewRecommendationListResponse(userID uuid.UUID, items []match.MatchResult) RecommendationListResponse {
	out := RecommendationListResponse{UserID: userID, Count: len(items), Items: make([]RecommendationResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, NewRecommendationResponse(it))
	}
	return out
}
