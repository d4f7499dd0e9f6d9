// Package profile persists user profiles in Postgres with a Redis read-through cache.
package profile

import (
	"context"
	"errors"

	"visa-pathway-workers/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type Store interface {
	Load(ctx context.Context, userID string) (*models.UserProfile, error)
	Save(ctx context.Context, userID string, p *models.UserProfile) error
}
