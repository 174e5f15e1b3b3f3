// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/metrics"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/session"
	"github.com/swordshop/backend/internal/utils"
)

type AuthService struct {
	users    repository.UserRepository
	sessions *session.Manager
	activity *ActivityService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AuthResult is a started session. Token is sent back as the session cookie
// and is also accepted as a bearer token.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(users repository.UserRepository, sessions *session.Manager, activity *ActivityService) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		activity: activity,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}

	// Registration never grants admin or seller rights.
	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation(i18n.KeyAuthEmailTaken, err)
		}
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, user, models.ActionUserRegistered, user.Name)
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		metrics.RecordLogin("user", "failure")
		return nil, err
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RecordLogin("user", "success")
	s.activity.Record(ctx, user, models.ActionUserLogin, user.Name)
	return result, nil
}

// AdminLogin is Login restricted to admins. Valid credentials of a regular
// user are rejected as Forbidden and open no session.
func (s *AuthService) AdminLogin(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		metrics.RecordLogin("admin", "failure")
		return nil, err
	}
	if !user.IsAdmin {
		metrics.RecordLogin("admin", "forbidden")
		return nil, apperrors.Forbidden(i18n.KeyAdminRequired)
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RecordLogin("admin", "success")
	s.activity.Record(ctx, user, models.ActionAdminLogin, user.Name)
	return result, nil
}

// Logout destroys the server-side session so the token stops resolving.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.End(ctx, token)
	if err != nil && !errors.Is(err, session.ErrInvalidToken) {
		return apperrors.Internal(i18n.KeyInternalError, err)
	}
	return nil
}

func (s *AuthService) authenticate(ctx context.Context, req *LoginRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthenticated(i18n.KeyAuthInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Unauthenticated(i18n.KeyAuthInvalidCredentials)
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, sess, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}
