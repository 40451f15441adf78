package user

import (
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
)

// Candidate holds the attributes a candidate reader exposes for matching.
type Candidate struct {
	UserID             uuid.UUID
	Skills             []string
	AvgExperienceYears float64
	SalaryRange        *matching.SalaryRange
	PreferredLocations []string
	UpdatedAt          time.Time
}

func (c Candidate) ToMatching() matching.Candidate {
	return matching.Candidate{
		UserID:             c.UserID,
		Skills:             c.Skills,
		AvgExperienceYears: c.AvgExperienceYears,
		SalaryRange:        c.SalaryRange,
		PreferredLocations: c.PreferredLocations,
	}
}
