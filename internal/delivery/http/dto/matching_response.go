package dto

import (
	"github.com/google/uuid"
)

type ProfileDeletedResponse struct {
	DeletedProfileID uuid.UUID  `json:"deletedProfileId"`
	DefaultProfileID *uuid.UUID `json:"defaultProfileId"`
}

type DefaultProfileResponse struct {
	DefaultProfileID uuid.UUID `json:"defaultProfileId"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
