package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("candidate not found")

type CandidateReader interface {
	GetCandidate(ctx context.Context, userID uuid.UUID) (Candidate, error)
}
