package recommendvisapath

import (
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/pathway"
)

type Input struct {
	UserID      string              `json:"userId,omitempty"`
	UserProfile *models.UserProfile `json:"userProfile,omitempty"`
}

// Output always carries hasPath so gateways can branch on it. RecommendedPath
// is null when no viable first step exists.
type Output struct {
	UserID          string                   `json:"userId,omitempty"`
	HasPath         bool                     `json:"hasPath"`
	RecommendedPath *pathway.RecommendedPath `json:"recommendedPath"`
}
