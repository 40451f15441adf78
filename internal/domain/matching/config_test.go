package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfiles(n int) []MatchingProfile {
	out := make([]MatchingProfile, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, MatchingProfile{ID: uuid.New(), ProfileName: uuid.NewString()})
	}
	return out
}

func TestMatchingConfig_AddProfile_FirstBecomesDefault(t *testing.T) {
	cfg := DefaultConfig()
	ps := newProfiles(2)

	cfg.AddProfile(ps[0])
	cfg.AddProfile(ps[1])

	require.NotNil(t, cfg.DefaultProfileID)
	assert.Equal(t, ps[0].ID, *cfg.DefaultProfileID)
}

func TestMatchingConfig_RemoveProfile_DefaultReassignment(t *testing.T) {
	t.Run("no profiles remain", func(t *testing.T) {
		cfg := DefaultConfig()
		ps := newProfiles(1)
		cfg.AddProfile(ps[0])

		require.True(t, cfg.RemoveProfile(ps[0].ID))
		assert.Nil(t, cfg.DefaultProfileID)
		assert.Empty(t, cfg.Profiles)
	})

	t.Run("one profile remains", func(t *testing.T) {
		cfg := DefaultConfig()
		ps := newProfiles(2)
		cfg.AddProfile(ps[0])
		cfg.AddProfile(ps[1])

		require.True(t, cfg.RemoveProfile(ps[0].ID))
		require.NotNil(t, cfg.DefaultProfileID)
		assert.Equal(t, ps[1].ID, *cfg.DefaultProfileID)
	})

	t.Run("many remain, next profile takes over", func(t *testing.T) {
		cfg := DefaultConfig()
		ps := newProfiles(4)
		for _, p := range ps {
			cfg.AddProfile(p)
		}
		id := ps[2].ID
		cfg.DefaultProfileID = &id

		require.True(t, cfg.RemoveProfile(ps[2].ID))
		require.NotNil(t, cfg.DefaultProfileID)
		assert.Equal(t, ps[3].ID, *cfg.DefaultProfileID)
		assert.Len(t, cfg.Profiles, 3)
	})

	t.Run("removing the last default wraps to first", func(t *testing.T) {
		cfg := DefaultConfig()
		ps := newProfiles(3)
		for _, p := range ps {
			cfg.AddProfile(p)
		}
		id := ps[2].ID
		cfg.DefaultProfileID = &id

		require.True(t, cfg.RemoveProfile(ps[2].ID))
		assert.Equal(t, ps[0].ID, *cfg.DefaultProfileID)
	})

	t.Run("non-default removal keeps default", func(t *testing.T) {
		cfg := DefaultConfig()
		ps := newProfiles(3)
		for _, p := range ps {
			cfg.AddProfile(p)
		}

		require.True(t, cfg.RemoveProfile(ps[1].ID))
		assert.Equal(t, ps[0].ID, *cfg.DefaultProfileID)
	})

	t.Run("unknown id", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.False(t, cfg.RemoveProfile(uuid.New()))
	})
}

func TestMatchingProfile_NormalizeClamps(t *testing.T) {
	p := MatchingProfile{ProfileName: "  p ", MinimumMatchScore: 140, MaxResultsPerQuery: 0}
	p.Normalize()

	assert.Equal(t, "p", p.ProfileName)
	assert.Equal(t, 100.0, p.MinimumMatchScore)
	assert.Equal(t, 1, p.MaxResultsPerQuery)
	assert.Equal(t, DefaultRecentJobDaysThreshold, p.RecentJobDaysThreshold)
	assert.Equal(t, VariantHybrid, p.MatchingAlgorithm)

	p = MatchingProfile{MinimumMatchScore: -3, MaxResultsPerQuery: 5000}
	p.Normalize()
	assert.Equal(t, 0.0, p.MinimumMatchScore)
	assert.Equal(t, 1000, p.MaxResultsPerQuery)
}

func TestParseVariant(t *testing.T) {
	v, ok := ParseVariant("Content-Based")
	require.True(t, ok)
	assert.Equal(t, VariantContentBased, v)

	v, ok = ParseVariant("ml")
	require.True(t, ok)
	assert.Equal(t, VariantCollaborative, v)

	v, ok = ParseVariant("weighted")
	require.True(t, ok)
	assert.Equal(t, VariantContentBased, v)

	_, ok = ParseVariant("deep")
	assert.False(t, ok)
}

func TestMatchingConfig_ProfileNameTaken(t *testing.T) {
	cfg := DefaultConfig()
	p := MatchingProfile{ID: uuid.New(), ProfileName: "Backend India"}
	cfg.AddProfile(p)

	assert.True(t, cfg.ProfileNameTaken("backend india", uuid.New()))
	assert.False(t, cfg.ProfileNameTaken("backend india", p.ID))
	assert.False(t, cfg.ProfileNameTaken("Frontend", uuid.New()))
}
