// internal/services/admin_service.go
package services

import (
	"context"
	"time"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
)

type AdminService struct {
	users    repository.UserRepository
	stats    repository.StatsRepository
	gate     *AuthorizationService
	activity *ActivityService
	now      func() time.Time
}

func NewAdminService(users repository.UserRepository, stats repository.StatsRepository, gate *AuthorizationService, activity *ActivityService) *AdminService {
	return &AdminService{
		users:    users,
		stats:    stats,
		gate:     gate,
		activity: activity,
		now:      time.Now,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, actor *models.User, page repository.Page) ([]models.User, int64, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, 0, err
	}

	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return users, total, nil
}

// Statistics returns the dashboard counters. todayTransactions counts from
// local midnight.
func (s *AdminService) Statistics(ctx context.Context, actor *models.User) (*models.Statistics, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.stats.Statistics(ctx, midnight)
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return stats, nil
}

func (s *AdminService) RecentActivity(ctx context.Context, actor *models.User, query ActivityQuery) ([]models.ActivityLog, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	return s.activity.Recent(ctx, query)
}
