// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/swordshop/backend/internal/config"
	"github.com/swordshop/backend/internal/database"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/logging"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/repository/memory"
	"github.com/swordshop/backend/internal/router"
	"github.com/swordshop/backend/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Configure(cfg.Log)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	repos, db, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize entity store")
	}
	if db != nil {
		defer database.Close(db)
	}

	store, err := openSessionStore(cfg, db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize session store")
	}
	sessions := session.NewManager(store, cfg.Session.Secret, cfg.Session.TTL())

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r, stop, err := router.Initialize(cfg, repos, sessions)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}
	defer stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"driver":   cfg.Database.Driver,
			"sessions": cfg.Session.Store,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

// openStore returns the entity store for the configured driver. The gorm
// handle is nil for the memory driver.
func openStore(cfg *config.Config) (*repository.Repositories, *gorm.DB, error) {
	if cfg.Database.Driver == "memory" {
		repos := memory.New()
		if err := bootstrapMemory(repos, cfg.Admin); err != nil {
			return nil, nil, err
		}
		logrus.Warn("Using the in-memory store; data is lost on restart")
		return repos, nil, nil
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}
	if _, err := database.SeedCategories(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}
	return repository.NewGormRepositories(db), db, nil
}

// bootstrapMemory loads the default categories and, when configured, the
// admin account into a fresh memory store.
func bootstrapMemory(repos *repository.Repositories, admin config.AdminConfig) error {
	ctx := context.Background()
	for _, category := range database.DefaultCategories {
		category := category
		if err := repos.Categories.Create(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
	}

	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	user := &models.User{Name: admin.Name, Email: strings.ToLower(strings.TrimSpace(admin.Email))}
	if err := user.SetPassword(admin.Password); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return memory.SetAdmin(repos, user.ID)
}

func openSessionStore(cfg *config.Config, db *gorm.DB) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := session.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, cfg.Redis.Prefix), nil
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		if db == nil {
			return nil, errors.New("database session store requires the postgres driver")
		}
		return session.NewGormStore(db), nil
	}
}
