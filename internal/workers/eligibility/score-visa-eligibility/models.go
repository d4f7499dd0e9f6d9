package scorevisaeligibility

import (
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/models"
)

type Input struct {
	UserID      string              `json:"userId,omitempty"`
	UserProfile *models.UserProfile `json:"userProfile,omitempty"`
	VisaIDs     []string            `json:"visaIds,omitempty"`
}

type Output struct {
	UserID string              `json:"userId,omitempty"`
	Scores []eligibility.Score `json:"scores"`
	eligibility.Summary
	UnknownVisaIDs []string `json:"unknownVisaIds,omitempty"`
}
