package loaduserprofile

import "visa-pathway-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	UserID      string              `json:"userId"`
	Found       bool                `json:"found"`
	UserProfile *models.UserProfile `json:"userProfile"`
}
