package saveuserprofile

import (
	"time"

	"visa-pathway-workers/internal/models"
)

type Input struct {
	UserID      string              `json:"userId,omitempty"`
	UserProfile *models.UserProfile `json:"userProfile"`
}

type Output struct {
	UserID         string `json:"userId"`
	Saved          bool   `json:"saved"`
	Created        bool   `json:"created"`
	EventPublished bool   `json:"eventPublished"`
	EventMessageID string `json:"eventMessageId,omitempty"`
}

// ProfileUpdatedEvent is published after every successful save.
type ProfileUpdatedEvent struct {
	EventID     string     `json:"eventId"`
	UserID      string     `json:"userId"`
	CurrentVisa *string    `json:"currentVisa"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
