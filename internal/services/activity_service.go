package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/metrics"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
)

// ActivityService is the audit trail sink. Controllers write to it after a
// mutation succeeds and never read from it.
type ActivityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record appends an entry. A nil actor marks a system action. Failures are
// logged and dropped so the caller's mutation still succeeds.
func (s *ActivityService) Record(ctx context.Context, actor *models.User, action, details string) {
	entry := &models.ActivityLog{Action: action}
	if actor != nil {
		id := actor.ID
		entry.UserID = &id
	}
	if details != "" {
		entry.Details = &details
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		metrics.RecordActivityFailure()
		logrus.WithError(err).WithField("action", action).Warn("Failed to record activity")
	}
}

type ActivityQuery struct {
	Actions []string
	Limit   int
}

// Recent returns the newest entries first. Limit defaults to 10 and is
// capped at 100.
func (s *ActivityService) Recent(ctx context.Context, query ActivityQuery) ([]models.ActivityLog, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries, err := s.repo.List(ctx, repository.ActivityFilter{Actions: query.Actions, Limit: limit})
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return entries, nil
}
