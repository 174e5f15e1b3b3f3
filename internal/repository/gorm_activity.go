package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/swordshop/backend/internal/models"
)

type gormActivityRepository struct {
	db *gorm.DB
}

func (r *gormActivityRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	return translate("append activity", r.db.WithContext(ctx).Create(entry).Error)
}

func (r *gormActivityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if len(filter.Actions) > 0 {
		query = query.Where("action = ANY(?)", pq.Array(filter.Actions))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []models.ActivityLog
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}

type gormStatsRepository struct {
	db *gorm.DB
}

func (r *gormStatsRepository) Statistics(ctx context.Context, since time.Time) (*models.Statistics, error) {
	db := r.db.WithContext(ctx)
	stats := &models.Statistics{}

	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"users", db.Model(&models.User{}), &stats.TotalUsers},
		{"sellers", db.Model(&models.User{}).Where("is_seller = ?", true), &stats.TotalSellers},
		{"products", db.Model(&models.Product{}), &stats.TotalProducts},
		{"active products", db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive), &stats.ActiveProducts},
		{"pending approvals", db.Model(&models.Product{}).Where("approval_status = ?", models.ApprovalStatusPending), &stats.PendingApprovals},
		{"today transactions", db.Model(&models.Transaction{}).Where("created_at >= ?", since), &stats.TodayTransactions},
		{"pending reports", db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending), &stats.PendingReports},
		{"open tickets", db.Model(&models.SupportTicket{}).Where("status IN ?", []models.TicketStatus{models.TicketStatusOpen, models.TicketStatusInProgress}), &stats.OpenTickets},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return stats, nil
}

type gormHealthChecker struct {
	db *gorm.DB
}

func (h *gormHealthChecker) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
