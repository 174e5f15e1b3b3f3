package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// NewGormRepositories returns the relational implementation of every store.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        &gormUserRepository{db: db},
		Categories:   &gormCategoryRepository{db: db},
		Products:     &gormProductRepository{db: db},
		Transactions: &gormTransactionRepository{db: db},
		Reports:      &gormReportRepository{db: db},
		Support:      &gormSupportRepository{db: db},
		Activity:     &gormActivityRepository{db: db},
		Stats:        &gormStatsRepository{db: db},
		Health:       &gormHealthChecker{db: db},
	}
}

// translate maps gorm errors onto the package sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func paginate(query *gorm.DB, page Page) *gorm.DB {
	if page.Limit <= 0 {
		return query
	}
	return query.Offset(page.Offset()).Limit(page.Limit)
}

// likePattern builds a substring pattern with LIKE wildcards escaped.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(search) + "%"
}

// conditional runs a guarded update and reports ErrConflict when no row
// matched. exists distinguishes a missing row from a state mismatch.
func conditional(op string, result *gorm.DB, exists func() (bool, error)) error {
	if result.Error != nil {
		return translate(op, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	found, err := exists()
	if err != nil {
		return translate(op, err)
	}
	if !found {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrConflict)
}

func rowExists(ctx context.Context, db *gorm.DB, model interface{}, id interface{}) func() (bool, error) {
	return func() (bool, error) {
		var count int64
		err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
		return count > 0, err
	}
}
