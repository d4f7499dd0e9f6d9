package sendpathsummary

import (
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/pathway"
)

type Input struct {
	UserID          string                   `json:"userId,omitempty"`
	UserProfile     *models.UserProfile      `json:"userProfile,omitempty"`
	Email           string                   `json:"email"`
	RecommendedPath *pathway.RecommendedPath `json:"recommendedPath,omitempty"`
}

type Output struct {
	Sent      bool   `json:"sent"`
	MessageID string `json:"messageId,omitempty"`
	HasPath   bool   `json:"hasPath"`
}
