package job

import (
	"strconv"
	"time"

	"jobmatch/internal/domain/matching"
	"jobmatch/internal/search"

	"github.com/google/uuid"
)

// Job is one posting of the active corpus as the job reader returns it.
type Job struct {
	ID                 uuid.UUID
	CompanyID          uuid.UUID
	Title              string
	Location           string
	RequiredSkills     []string
	ExperienceRequired float64
	Salary             *matching.Salary
	GrowthPotential    float64
	QualityScore       float64
	PostedAt           *time.Time
	ExpiresAt          *time.Time
	UpdatedAt          time.Time
}

func (j Job) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && !now.Before(*j.ExpiresAt)
}

// PostedWithin reports whether the job was posted in the last days days.
func (j Job) PostedWithin(days int, now time.Time) bool {
	if j.PostedAt == nil || days <= 0 {
		return false
	}
	return now.Sub(*j.PostedAt) <= time.Duration(days)*24*time.Hour
}

// DedupKey identifies postings that describe the same opening: same
// company, same canonical title and same normalized location.
func (j Job) DedupKey() string {
	return search.CanonicalTitle(j.Title) + "|" +
		j.CompanyID.String() + "|" +
		search.Normalize(j.Location)
}

func (j Job) ToMatching() matching.Job {
	return matching.Job{
		ID:                 j.ID,
		CompanyID:          j.CompanyID,
		Title:              j.Title,
		RequiredSkills:     j.RequiredSkills,
		ExperienceRequired: j.ExperienceRequired,
		Salary:             j.Salary,
		Location:           j.Location,
		GrowthPotential:    j.GrowthPotential,
		PostedAt:           j.PostedAt,
	}
}

// CorpusVersion changes whenever a job of the active corpus is added,
// removed or updated.
type CorpusVersion struct {
	Count     int64
	UpdatedAt time.Time
}

func (v CorpusVersion) String() string {
	return v.UpdatedAt.UTC().Format(time.RFC3339Nano) + "#" + strconv.FormatInt(v.Count, 10)
}
