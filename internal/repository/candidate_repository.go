package repository

import (
	"context"
	"errors"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetCandidate(ctx context.Context, userID uuid.UUID) (user.Candidate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT c.user_id,
			c.avg_experience_years,
			c.salary_min,
			c.salary_max,
			c.preferred_locations,
			c.updated_at,
			COALESCE(array_agg(s.skill_name ORDER BY s.skill_name) FILTER (WHERE s.skill_name IS NOT NULL), '{}')
		 FROM candidates c
		 LEFT JOIN candidate_skills s ON s.user_id = c.user_id
		 WHERE c.user_id = $1
		 GROUP BY c.user_id`,
		userID,
	)

	var (
		c          user.Candidate
		salMin     *float64
		salMax     *float64
		locations  []string
		skillNames []string
	)
	if err := row.Scan(&c.UserID, &c.AvgExperienceYears, &salMin, &salMax, &locations, &c.UpdatedAt, &skillNames); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Candidate{}, user.ErrNotFound
		}
		return user.Candidate{}, err
	}
	if salMin != nil || salMax != nil {
		c.SalaryRange = &matching.SalaryRange{}
		if salMin != nil {
			c.SalaryRange.Min = *salMin
		}
		if salMax != nil {
			c.SalaryRange.Max = *salMax
		}
	}
	c.PreferredLocations = locations
	c.Skills = skillNames
	return c, nil
}

// UpsertCandidate replaces the candidate row and its skill set.
func (r *PostgresCandidateRepository) UpsertCandidate(ctx context.Context, c user.Candidate) error {
	var salMin, salMax *float64
	if c.SalaryRange != nil {
		lo, hi := c.SalaryRange.Min, c.SalaryRange.Max
		salMin, salMax = &lo, &hi
	}
	locations := c.PreferredLocations
	if locations == nil {
		locations = []string{}
	}

	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO candidates (user_id, avg_experience_years, salary_min, salary_max, preferred_locations)
			 VALUES ($1,$2,$3,$4,$5)
			 ON CONFLICT (user_id) DO UPDATE SET
				avg_experience_years = EXCLUDED.avg_experience_years,
				salary_min = EXCLUDED.salary_min,
				salary_max = EXCLUDED.salary_max,
				preferred_locations = EXCLUDED.preferred_locations,
				updated_at = now()`,
			c.UserID, c.AvgExperienceYears, salMin, salMax, locations,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM candidate_skills WHERE user_id = $1`, c.UserID); err != nil {
			return err
		}
		for _, s := range c.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO candidate_skills (user_id, skill_name) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
				c.UserID, s,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
