// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/swordshop/backend/internal/config"
	"github.com/swordshop/backend/internal/logging"
	"github.com/swordshop/backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logging.GormLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Transaction{},
		&models.Report{},
		&models.SupportTicket{},
		&models.SupportMessage{},
		&models.ActivityLog{},
		&models.Session{},
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_browse ON products(approval_status, status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reports_status_created ON reports(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_participants ON transactions(buyer_id, seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_action_created ON activity_logs(action, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_support_messages_ticket_created ON support_messages(ticket_id, created_at)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// DefaultCategories is the catalogue the storefront ships with.
var DefaultCategories = []models.Category{
	{Name: "Contas", Icon: "Gamepad2"},
	{Name: "Armas & Skins", Icon: "Sword"},
	{Name: "Boosting", Icon: "Trophy"},
	{Name: "Itens Raros", Icon: "Gem"},
	{Name: "Escudos", Icon: "Shield"},
	{Name: "Moedas", Icon: "Coins"},
}

// SeedCategories inserts the default categories that do not exist yet.
func SeedCategories(db *gorm.DB) (int, error) {
	created := 0
	for _, category := range DefaultCategories {
		var count int64
		if err := db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to look up category %s: %w", category.Name, err)
		}
		if count > 0 {
			continue
		}

		category := category
		if err := db.Create(&category).Error; err != nil {
			return created, fmt.Errorf("failed to create category %s: %w", category.Name, err)
		}
		created++
	}

	logrus.WithField("created", created).Info("Category seeding completed")
	return created, nil
}

// EnsureAdmin creates the admin account, or promotes and re-keys an existing
// user with the same email.
func EnsureAdmin(db *gorm.DB, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("admin email and password are required")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if err := user.SetPassword(password); err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		user.IsAdmin = true
		if err := db.Model(&user).Updates(map[string]interface{}{
			"is_admin": true,
			"password": user.Password,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to promote admin: %w", err)
		}
		logrus.WithField("email", email).Info("Existing user promoted to admin")
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Email: email, IsAdmin: true}
		if err := user.SetPassword(password); err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create admin user: %w", err)
		}
		logrus.WithField("email", email).Info("Admin user created")
		return &user, nil

	default:
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
