package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/domain/user"

	"github.com/google/uuid"
)

// Fixture is the JSON shape of a candidate/job data set used by the memory
// store driver and the seed command.
type Fixture struct {
	Candidates []FixtureCandidate `json:"candidates"`
	Jobs       []FixtureJob       `json:"jobs"`
}

type FixtureCandidate struct {
	UserID             uuid.UUID             `json:"userId"`
	Skills             []string              `json:"skills"`
	AvgExperienceYears float64               `json:"avgExperienceYears"`
	SalaryRange        *matching.SalaryRange `json:"salaryRange,omitempty"`
	PreferredLocations []string              `json:"preferredLocations"`
}

type FixtureJob struct {
	ID                 uuid.UUID        `json:"id"`
	CompanyID          uuid.UUID        `json:"companyId"`
	Title              string           `json:"title"`
	Location           string           `json:"location"`
	RequiredSkills     []string         `json:"requiredSkills"`
	ExperienceRequired float64          `json:"experienceRequired"`
	Salary             *matching.Salary `json:"salary,omitempty"`
	GrowthPotential    float64          `json:"growthPotential"`
	QualityScore       *float64         `json:"qualityScore,omitempty"`
	PostedAt           *time.Time       `json:"postedAt,omitempty"`
	ExpiresAt          *time.Time       `json:"expiresAt,omitempty"`
}

func LoadFixture(path string) (Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var f Fixture
	if err := json.Unmarshal(b, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

func (c FixtureCandidate) Candidate() user.Candidate {
	return user.Candidate{
		UserID:             c.UserID,
		Skills:             c.Skills,
		AvgExperienceYears: c.AvgExperienceYears,
		SalaryRange:        c.SalaryRange,
		PreferredLocations: c.PreferredLocations,
	}
}

// Job converts the fixture entry; a missing quality score counts as 100.
func (j FixtureJob) Job() job.Job {
	quality := 100.0
	if j.QualityScore != nil {
		quality = *j.QualityScore
	}
	return job.Job{
		ID:                 j.ID,
		CompanyID:          j.CompanyID,
		Title:              j.Title,
		Location:           j.Location,
		RequiredSkills:     j.RequiredSkills,
		ExperienceRequired: j.ExperienceRequired,
		Salary:             j.Salary,
		GrowthPotential:    j.GrowthPotential,
		QualityScore:       quality,
		PostedAt:           j.PostedAt,
		ExpiresAt:          j.ExpiresAt,
	}
}

// MemoryCandidateRepository serves candidates from memory.
type MemoryCandidateRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]user.Candidate
}

func NewMemoryCandidateRepository(cs ...user.Candidate) *MemoryCandidateRepository {
	r := &MemoryCandidateRepository{items: make(map[uuid.UUID]user.Candidate, len(cs))}
	for _, c := range cs {
		r.items[c.UserID] = c
	}
	return r
}

func (r *MemoryCandidateRepository) GetCandidate(_ context.Context, userID uuid.UUID) (user.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[userID]
	if !ok {
		return user.Candidate{}, user.ErrNotFound
	}
	return c, nil
}

func (r *MemoryCandidateRepository) UpsertCandidate(_ context.Context, c user.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.UpdatedAt = time.Now().UTC()
	r.items[c.UserID] = c
	return nil
}

// MemoryJobCorpus serves an active job corpus from memory, ordered by id.
type MemoryJobCorpus struct {
	mu      sync.RWMutex
	jobs    []job.Job
	version job.CorpusVersion
}

func NewMemoryJobCorpus(jobs ...job.Job) *MemoryJobCorpus {
	c := &MemoryJobCorpus{}
	for _, j := range jobs {
		c.put(j)
	}
	return c
}

func (c *MemoryJobCorpus) ListActiveJobs(_ context.Context, limit, offset int) ([]job.Job, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(c.jobs) {
		return []job.Job{}, nil
	}
	end := len(c.jobs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]job.Job, end-offset)
	copy(out, c.jobs[offset:end])
	return out, nil
}

func (c *MemoryJobCorpus) CorpusVersion(context.Context) (job.CorpusVersion, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version, nil
}

func (c *MemoryJobCorpus) UpsertJob(_ context.Context, j job.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(j)
	return nil
}

func (c *MemoryJobCorpus) put(j job.Job) {
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = time.Now().UTC()
	}
	replaced := false
	for i := range c.jobs {
		if c.jobs[i].ID == j.ID {
			c.jobs[i] = j
			replaced = true
			break
		}
	}
	if !replaced {
		c.jobs = append(c.jobs, j)
		sort.Slice(c.jobs, func(a, b int) bool {
			return c.jobs[a].ID.String() < c.jobs[b].ID.String()
		})
	}
	c.version.Count = int64(len(c.jobs))
	if j.UpdatedAt.After(c.version.UpdatedAt) {
		c.version.UpdatedAt = j.UpdatedAt
	} else {
		c.version.UpdatedAt = c.version.UpdatedAt.Add(time.Nanosecond)
	}
}

// FromFixture builds memory readers holding the fixture data.
func FromFixture(f Fixture) (*MemoryCandidateRepository, *MemoryJobCorpus) {
	cands := make([]user.Candidate, 0, len(f.Candidates))
	for _, c := range f.Candidates {
		cands = append(cands, c.Candidate())
	}
	jobs := make([]job.Job, 0, len(f.Jobs))
	for _, j := range f.Jobs {
		jobs = append(jobs, j.Job())
	}
	return NewMemoryCandidateRepository(cands...), NewMemoryJobCorpus(jobs...)
}
