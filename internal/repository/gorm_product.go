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

type gormProductRepository struct {
	db *gorm.DB
}

func (r *gormProductRepository) CreateForSeller(ctx context.Context, product *models.Product) error {
	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return translate("create product", err)
		}

		result := tx.Model(&models.User{}).
			Where("id = ? AND is_seller = ?", product.SellerID, false).
			Update("is_seller", true)
		if result.Error != nil {
			return fmt.Errorf("flag seller: %w", result.Error)
		}
		return nil
	})
}

func (r *gormProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate("get product", err)
	}
	return &product, nil
}

func (r *gormProductRepository) List(ctx context.Context, filter ProductFilter, page Page) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ApprovalStatus != nil {
		query = query.Where("approval_status = ?", *filter.ApprovalStatus)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []models.Product
	if err := paginate(query.Order("created_at DESC"), page).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *gormProductRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ProductStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return conditional("update product status", result, rowExists(ctx, r.db, &models.Product{}, id))
}

func (r *gormProductRepository) UpdateApproval(ctx context.Context, id uuid.UUID, from, to models.ApprovalStatus, reason *string) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND approval_status = ?", id, from).
		Updates(map[string]interface{}{
			"approval_status":  to,
			"rejection_reason": reason,
		})
	return conditional("update product approval", result, rowExists(ctx, r.db, &models.Product{}, id))
}

type gormTransactionRepository struct {
	db *gorm.DB
}

func (r *gormTransactionRepository) Purchase(ctx context.Context, txn *models.Transaction) error {
	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Model(&models.Product{}).
			Where("id = ? AND status = ?", txn.ProductID, models.ProductStatusActive).
			Update("status", models.ProductStatusSold)
		if result.Error != nil {
			return fmt.Errorf("mark product sold: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("mark product sold: %w", ErrConflict)
		}

		if err := tx.Create(txn).Error; err != nil {
			return translate("create transaction", err)
		}
		return nil
	})
}

func (r *gormTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error; err != nil {
		return nil, translate("get transaction", err)
	}
	return &txn, nil
}

func (r *gormTransactionRepository) List(ctx context.Context, filter TransactionFilter, page Page) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.ParticipantID != nil {
		query = query.Where("buyer_id = ? OR seller_id = ?", *filter.ParticipantID, *filter.ParticipantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	var txns []models.Transaction
	if err := paginate(query.Order("created_at DESC"), page).Find(&txns).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txns, total, nil
}

func (r *gormTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus, completedAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":       to,
			"completed_at": completedAt,
		})
	return conditional("update transaction status", result, rowExists(ctx, r.db, &models.Transaction{}, id))
}
