package repository

import (
	"context"
	"time"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
)

type PostgresJobCorpusRepository struct {
	db database.DB
}

func NewPostgresJobCorpusRepository(db database.DB) *PostgresJobCorpusRepository {
	return &PostgresJobCorpusRepository{db: db}
}

func (r *PostgresJobCorpusRepository) ListActiveJobs(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 5000 {
		limit = 5000
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, company_id, title, location, required_skills, experience_required,
			salary_min, salary_max, salary_currency, growth_potential, quality_score,
			posted_at, expires_at, updated_at
		 FROM jobs
		 WHERE status = 'active'
		 ORDER BY id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		var (
			j        job.Job
			salMin   *float64
			salMax   *float64
			currency *string
		)
		if err := rows.Scan(
			&j.ID, &j.CompanyID, &j.Title, &j.Location, &j.RequiredSkills, &j.ExperienceRequired,
			&salMin, &salMax, &currency, &j.GrowthPotential, &j.QualityScore,
			&j.PostedAt, &j.ExpiresAt, &j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if salMin != nil || salMax != nil {
			j.Salary = &matching.Salary{}
			if salMin != nil {
				j.Salary.Min = *salMin
			}
			if salMax != nil {
				j.Salary.Max = *salMax
			}
			if currency != nil {
				j.Salary.Currency = *currency
			}
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobCorpusRepository) CorpusVersion(ctx context.Context) (job.CorpusVersion, error) {
	var (
		v       job.CorpusVersion
		updated *time.Time
	)
	row := r.db.QueryRow(ctx, `SELECT count(*), max(updated_at) FROM jobs WHERE status = 'active'`)
	if err := row.Scan(&v.Count, &updated); err != nil {
		return job.CorpusVersion{}, err
	}
	if updated != nil {
		v.UpdatedAt = *updated
	}
	return v, nil
}

// UpsertJob inserts or replaces one active job.
func (r *PostgresJobCorpusRepository) UpsertJob(ctx context.Context, j job.Job) error {
	var salMin, salMax *float64
	var currency *string
	if j.Salary != nil {
		lo, hi, cur := j.Salary.Min, j.Salary.Max, j.Salary.Currency
		salMin, salMax = &lo, &hi
		if cur != "" {
			currency = &cur
		}
	}
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, company_id, title, location, required_skills, experience_required,
			salary_min, salary_max, salary_currency, growth_potential, quality_score, posted_at, expires_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (id) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			required_skills = EXCLUDED.required_skills,
			experience_required = EXCLUDED.experience_required,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency,
			growth_potential = EXCLUDED.growth_potential,
			quality_score = EXCLUDED.quality_score,
			posted_at = EXCLUDED.posted_at,
			expires_at = EXCLUDED.expires_at,
			status = 'active',
			updated_at = now()`,
		j.ID, j.CompanyID, j.Title, j.Location, skills, j.ExperienceRequired,
		salMin, salMax, currency, j.GrowthPotential, j.QualityScore, j.PostedAt, j.ExpiresAt,
	)
	return err
}
