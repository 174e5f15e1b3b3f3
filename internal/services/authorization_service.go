// internal/services/authorization_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/session"
)

type Capability int

const (
	CapabilityAuthenticated Capability = iota
	CapabilityOwnerOrAdmin
	CapabilityAdmin
)

// AuthorizationService is the access control gate. It resolves session
// tokens to users and checks capabilities; it never writes.
type AuthorizationService struct {
	users    repository.UserRepository
	sessions *session.Manager
}

func NewAuthorizationService(users repository.UserRepository, sessions *session.Manager) *AuthorizationService {
	return &AuthorizationService{
		users:    users,
		sessions: sessions,
	}
}

// Resolve returns the user a session token belongs to.
func (s *AuthorizationService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.Unauthenticated(i18n.KeyAuthRequired)
	}

	userID, err := s.sessions.Resolve(ctx, token)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrInvalidToken):
		return nil, apperrors.Unauthenticated(i18n.KeyAuthRequired)
	case err != nil:
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthenticated(i18n.KeyAuthRequired)
	}
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return user, nil
}

// Authorize checks that actor holds capability. For CapabilityOwnerOrAdmin
// the actor must be an admin or one of owners.
func (s *AuthorizationService) Authorize(actor *models.User, capability Capability, owners ...uuid.UUID) error {
	if actor == nil {
		return apperrors.Unauthenticated(i18n.KeyAuthRequired)
	}

	switch capability {
	case CapabilityAuthenticated:
		return nil
	case CapabilityAdmin:
		if !actor.IsAdmin {
			return apperrors.Forbidden(i18n.KeyAdminRequired)
		}
		return nil
	case CapabilityOwnerOrAdmin:
		if actor.IsAdmin {
			return nil
		}
		for _, owner := range owners {
			if owner == actor.ID {
				return nil
			}
		}
		return apperrors.Forbidden(i18n.KeyAccessDenied)
	default:
		return apperrors.Forbidden(i18n.KeyAccessDenied)
	}
}
