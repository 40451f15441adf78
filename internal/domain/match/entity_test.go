package match

import (
	"testing"
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchResult_ClickKeepsFirstTimestamp(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMatchResult(uuid.New(), uuid.New(), matching.Score{JobID: uuid.New(), MatchScore: 70}, matching.VariantHybrid, first)

	m.Click(first)
	m.Click(first.Add(time.Hour))

	require.NotNil(t, m.ClickedAt)
	assert.True(t, m.Clicked)
	assert.Equal(t, first, *m.ClickedAt)
	assert.False(t, m.Applied)
}

func TestMatchResult_ApplyIndependentOfClick(t *testing.T) {
	now := time.Now().UTC()
	m := MatchResult{}

	m.Apply(now)
	assert.True(t, m.Applied)
	assert.False(t, m.Clicked)

	m.Click(now.Add(time.Minute))
	assert.True(t, m.Clicked)
	assert.Equal(t, now, *m.AppliedAt)
}

func TestMatchResult_FeedbackLastWins(t *testing.T) {
	now := time.Now().UTC()
	m := MatchResult{}

	m.SetFeedback(FeedbackRelevant, now)
	m.SetFeedback(FeedbackIrrelevant, now.Add(time.Second))

	require.NotNil(t, m.Feedback)
	assert.Equal(t, FeedbackIrrelevant, *m.Feedback)
	assert.Equal(t, now.Add(time.Second), *m.FeedbackAt)
}

func TestNewMatchResult_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMatchResult(uuid.New(), uuid.New(), matching.Score{}, matching.VariantHybrid, now)

	assert.Equal(t, now.Add(RetentionWindow), m.ExpiresAt)
	assert.False(t, m.Expired(now.Add(29*24*time.Hour)))
	assert.True(t, m.Expired(now.Add(30*24*time.Hour)))
}

func TestSummarize(t *testing.T) {
	uid := uuid.New()
	now := time.Now().UTC()

	t.Run("empty window", func(t *testing.T) {
		s := Summarize(uid, 4, now.Add(-28*24*time.Hour), now, nil)
		assert.False(t, s.HasData)
		assert.Equal(t, 0, s.Total)
		assert.Equal(t, 0.0, s.ClickThroughRate)
		assert.Equal(t, EngagementNone, s.EngagementTier)
	})

	t.Run("rates and tier", func(t *testing.T) {
		rel := FeedbackRelevant
		results := []MatchResult{
			{MatchScore: 80, Clicked: true, Applied: true, Feedback: &rel, AlgorithmType: matching.VariantHybrid},
			{MatchScore: 60, Clicked: true, AlgorithmType: matching.VariantHybrid},
			{MatchScore: 50, AlgorithmType: matching.VariantContentBased},
			{MatchScore: 50, AlgorithmType: matching.VariantContentBased},
		}
		s := Summarize(uid, 4, now.Add(-28*24*time.Hour), now, results)

		assert.True(t, s.HasData)
		assert.Equal(t, 4, s.Total)
		assert.Equal(t, 50.0, s.ClickThroughRate)
		assert.Equal(t, 25.0, s.ConversionRate)
		assert.Equal(t, 60.0, s.AverageScore)
		assert.Equal(t, EngagementHigh, s.EngagementTier)
		assert.Equal(t, 1, s.FeedbackCounts[FeedbackRelevant])
		assert.Equal(t, 2, s.AlgorithmCounts[matching.VariantContentBased])
	})
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, EngagementHigh, TierFor(40.01))
	assert.Equal(t, EngagementMedium, TierFor(40))
	assert.Equal(t, EngagementMedium, TierFor(20.5))
	assert.Equal(t, EngagementLow, TierFor(20))
	assert.Equal(t, EngagementLow, TierFor(0))
}
