// Package services holds the lifecycle controllers. Every method that acts
// for a user takes that user as actor and checks it through the
// AuthorizationService before touching the store.
package services

import (
	"errors"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/repository"
)

// storeError maps a repository failure onto the service error kinds.
func storeError(err error, notFoundKey string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(notFoundKey, err)
	}
	return apperrors.Internal(i18n.KeyInternalError, err)
}

// transitionError reports a rejected status change from one state to another.
func transitionError(key string, from, to interface{}) error {
	return apperrors.InvalidState(key).WithArgs(from, to)
}
