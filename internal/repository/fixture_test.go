package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dbQuery(k, v string) database.Query {
	return database.Query{Keys: map[string]string{k: v}}
}

func TestLoadFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	uid := uuid.New()
	jid := uuid.New()
	raw := `{
		"candidates": [{"userId": "` + uid.String() + `", "skills": ["Go"], "avgExperienceYears": 3,
			"salaryRange": {"min": 100, "max": 200}, "preferredLocations": ["Remote"]}],
		"jobs": [{"id": "` + jid.String() + `", "companyId": "` + uuid.NewString() + `", "title": "Backend",
			"requiredSkills": ["Go"], "salary": {"min": 150, "max": 180, "currency": "USD"}, "growthPotential": 0.5}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	f, err := LoadFixture(path)
	require.NoError(t, err)

	cands, corpus := FromFixture(f)
	c, err := cands.GetCandidate(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, c.Skills)
	assert.Equal(t, 200.0, c.SalaryRange.Max)

	_, err = cands.GetCandidate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrNotFound)

	jobs, err := corpus.ListActiveJobs(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 100.0, jobs[0].QualityScore)
	assert.Equal(t, "USD", jobs[0].Salary.Currency)
}

func TestMemoryJobCorpus_PagingAndVersion(t *testing.T) {
	ctx := context.Background()
	jobs := make([]job.Job, 0, 5)
	for i := 0; i < 5; i++ {
		jobs = append(jobs, job.Job{ID: uuid.New(), Title: "j"})
	}
	corpus := NewMemoryJobCorpus(jobs...)

	var seen []uuid.UUID
	for offset := 0; ; offset += 2 {
		page, err := corpus.ListActiveJobs(ctx, 2, offset)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, j := range page {
			seen = append(seen, j.ID)
		}
	}
	require.Len(t, seen, 5)
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i-1].String(), seen[i].String())
	}

	before, err := corpus.CorpusVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), before.Count)

	require.NoError(t, corpus.UpsertJob(ctx, job.Job{ID: jobs[0].ID, Title: "changed", UpdatedAt: before.UpdatedAt}))
	after, err := corpus.CorpusVersion(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.String(), after.String())
}
