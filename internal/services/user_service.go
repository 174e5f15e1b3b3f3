// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/utils"
)

type UserService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	gate       *AuthorizationService
	activity   *ActivityService
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
	Icon string `json:"icon" validate:"required,notblank,max=100"`
}

func NewUserService(users repository.UserRepository, categories repository.CategoryRepository, gate *AuthorizationService, activity *ActivityService) *UserService {
	return &UserService{
		users:      users,
		categories: categories,
		gate:       gate,
		activity:   activity,
	}
}

// Profile returns what anyone may see about a user.
func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*models.PublicProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyUserNotFound)
	}
	profile := user.PublicProfile()
	return &profile, nil
}

func (s *UserService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return categories, nil
}

func (s *UserService) CreateCategory(ctx context.Context, actor *models.User, req *CreateCategoryRequest) (*models.Category, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Icon = strings.TrimSpace(req.Icon)
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}

	category := &models.Category{Name: req.Name, Icon: req.Icon}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation(i18n.KeyCategoryExists, err)
		}
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	s.activity.Record(ctx, actor, models.ActionCategoryCreated, category.Name)
	return category, nil
}
