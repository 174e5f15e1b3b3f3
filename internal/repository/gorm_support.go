package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swordshop/backend/internal/database"
	"github.com/swordshop/backend/internal/models"
)

type gormReportRepository struct {
	db *gorm.DB
}

func (r *gormReportRepository) Create(ctx context.Context, report *models.Report) error {
	return translate("create report", r.db.WithContext(ctx).Create(report).Error)
}

func (r *gormReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, translate("get report", err)
	}
	return &report, nil
}

func (r *gormReportRepository) List(ctx context.Context, page Page) ([]models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	var reports []models.Report
	if err := paginate(query.Order("created_at DESC"), page).Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return reports, total, nil
}

func (r *gormReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ReportStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return conditional("update report status", result, rowExists(ctx, r.db, &models.Report{}, id))
}

type gormSupportRepository struct {
	db *gorm.DB
}

func (r *gormSupportRepository) CreateTicket(ctx context.Context, ticket *models.SupportTicket, first *models.SupportMessage) error {
	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return translate("create ticket", err)
		}
		if first == nil {
			return nil
		}
		first.TicketID = ticket.ID
		if err := tx.Create(first).Error; err != nil {
			return translate("create ticket message", err)
		}
		return nil
	})
}

func (r *gormSupportRepository) GetTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, translate("get ticket", err)
	}
	return &ticket, nil
}

func (r *gormSupportRepository) ListTickets(ctx context.Context, filter TicketFilter, page Page) ([]models.SupportTicket, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SupportTicket{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	var tickets []models.SupportTicket
	if err := paginate(query.Order("created_at DESC"), page).Find(&tickets).Error; err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, total, nil
}

func (r *gormSupportRepository) UpdateTicketStatus(ctx context.Context, id uuid.UUID, from, to models.TicketStatus, resolvedAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.SupportTicket{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"resolved_at": resolvedAt,
		})
	return conditional("update ticket status", result, rowExists(ctx, r.db, &models.SupportTicket{}, id))
}

func (r *gormSupportRepository) AddMessage(ctx context.Context, msg *models.SupportMessage) error {
	return translate("create ticket message", r.db.WithContext(ctx).Create(msg).Error)
}

func (r *gormSupportRepository) ListMessages(ctx context.Context, ticketID uuid.UUID) ([]models.SupportMessage, error) {
	var messages []models.SupportMessage
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list ticket messages: %w", err)
	}
	return messages, nil
}
