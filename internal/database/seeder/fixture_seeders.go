package seeder

import (
	"context"
	"fmt"

	"jobmatch/internal/database"
	"jobmatch/internal/repository"
)

// CandidatesSeeder upserts the fixture candidates and their skills.
type CandidatesSeeder struct {
	Fixture repository.Fixture
}

func (CandidatesSeeder) Name() string { return "candidates" }

func (s CandidatesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "candidates", "user_id", "avg_experience_years", "salary_min", "salary_max", "preferred_locations"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "candidate_skills", "user_id", "skill_name"); err != nil {
		return err
	}

	repo := repository.NewPostgresCandidateRepository(db)
	for _, c := range s.Fixture.Candidates {
		if err := repo.UpsertCandidate(ctx, c.Candidate()); err != nil {
			return fmt.Errorf("candidate %s: %w", c.UserID, err)
		}
	}
	return nil
}

// JobsSeeder upserts the fixture jobs as active corpus entries.
type JobsSeeder struct {
	Fixture repository.Fixture
}

func (JobsSeeder) Name() string { return "jobs" }

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "company_id", "title", "location", "required_skills", "quality_score", "status"); err != nil {
		return err
	}

	repo := repository.NewPostgresJobCorpusRepository(db)
	for _, j := range s.Fixture.Jobs {
		if err := repo.UpsertJob(ctx, j.Job()); err != nil {
			return fmt.Errorf("job %s: %w", j.ID, err)
		}
	}
	return nil
}

func Defaults(f repository.Fixture) []Seeder {
	return []Seeder{
		CandidatesSeeder{Fixture: f},
		JobsSeeder{Fixture: f},
	}
}
