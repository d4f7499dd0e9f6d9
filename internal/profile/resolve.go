package profile

import (
	"context"
	"errors"
	"strings"

	commonerrors "visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/models"
)

// Resolve returns the inline profile when given, otherwise loads userID from
// store. Failures come back as *StandardError values ready for the job error handler.
func Resolve(ctx context.Context, store Store, userID string, inline *models.UserProfile) (*models.UserProfile, error) {
	if inline != nil {
		if err := inline.Validate(); err != nil {
			return nil, commonerrors.NewProfileInvalidError(err.Error())
		}
		return inline, nil
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, commonerrors.NewInvalidInputError("either userId or userProfile is required")
	}
	if store == nil {
		return nil, commonerrors.NewProfileLoadFailedError(userID, errors.New("no profile store configured"))
	}

	p, err := store.Load(ctx, userID)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, ErrProfileNotFound):
		return nil, commonerrors.NewProfileNotFoundError(userID)
	default:
		return nil, commonerrors.NewProfileLoadFailedError(userID, err)
	}
}
