package explorevisagraph

import (
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/pathway"
)

type Input struct {
	UserID            string              `json:"userId,omitempty"`
	UserProfile       *models.UserProfile `json:"userProfile,omitempty"`
	StartVisa         *string             `json:"startVisa,omitempty"`
	AllowedCategories []string            `json:"allowedCategories,omitempty"`
	MaxDepth          *int                `json:"maxDepth,omitempty"`
}

type Output struct {
	// StartVisa is the level-0 node: a visa id or the start sentinel.
	StartVisa string                        `json:"startVisa"`
	Tiers     pathway.Tiers                 `json:"tiers"`
	Reachable []string                      `json:"reachable"`
	Positions map[string]pathway.Position   `json:"positions"`
	Edges     []pathway.Edge                `json:"edges"`
	Statuses  map[string]eligibility.Status `json:"statuses,omitempty"`
}
