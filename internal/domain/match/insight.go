package match

import (
	"math"
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
)

type EngagementTier string

const (
	EngagementHigh   EngagementTier = "high"
	EngagementMedium EngagementTier = "medium"
	EngagementLow    EngagementTier = "low"
	EngagementNone   EngagementTier = "none"
)

// TierFor buckets a click-through rate given in percent.
func TierFor(ctr float64) EngagementTier {
	switch {
	case ctr > 40:
		return EngagementHigh
	case ctr > 20:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

type InsightSnapshot struct {
	UserID           uuid.UUID                `json:"userId"`
	WindowWeeks      int                      `json:"windowWeeks"`
	From             time.Time                `json:"from"`
	To               time.Time                `json:"to"`
	HasData          bool                     `json:"hasData"`
	Total            int                      `json:"totalRecommendations"`
	Clicked          int                      `json:"clicked"`
	Applied          int                      `json:"applied"`
	ClickThroughRate float64                  `json:"clickThroughRate"`
	ConversionRate   float64                  `json:"conversionRate"`
	AverageScore     float64                  `json:"averageScore"`
	EngagementTier   EngagementTier           `json:"engagementTier"`
	FeedbackCounts   map[Feedback]int         `json:"feedbackCounts"`
	AlgorithmCounts  map[matching.Variant]int `json:"algorithmCounts"`
}

// Summarize aggregates results already restricted to the reporting window.
// An empty input yields HasData=false and zero rates.
func Summarize(userID uuid.UUID, weeks int, from, to time.Time, results []MatchResult) InsightSnapshot {
	s := InsightSnapshot{
		UserID:          userID,
		WindowWeeks:     weeks,
		From:            from,
		To:              to,
		EngagementTier:  EngagementNone,
		FeedbackCounts:  map[Feedback]int{},
		AlgorithmCounts: map[matching.Variant]int{},
	}
	if len(results) == 0 {
		return s
	}

	var scoreSum float64
	for _, r := range results {
		s.Total++
		if r.Clicked {
			s.Clicked++
		}
		if r.Applied {
			s.Applied++
		}
		if r.Feedback != nil {
			s.FeedbackCounts[*r.Feedback]++
		}
		s.AlgorithmCounts[r.AlgorithmType]++
		scoreSum += r.MatchScore
	}

	total := float64(s.Total)
	s.HasData = true
	s.ClickThroughRate = round2(float64(s.Clicked) / total * 100)
	s.ConversionRate = round2(float64(s.Applied) / total * 100)
	s.AverageScore = round2(scoreSum / total)
	s.EngagementTier = TierFor(s.ClickThroughRate)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
