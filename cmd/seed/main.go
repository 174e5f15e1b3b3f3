// Command seed prepares a Postgres database: it creates the tables, loads the
// default categories and creates or promotes the admin account.
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/swordshop/backend/internal/config"
	"github.com/swordshop/backend/internal/database"
	"github.com/swordshop/backend/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Configure(cfg.Log)

	name := flag.String("admin-name", cfg.Admin.Name, "admin display name")
	email := flag.String("admin-email", cfg.Admin.Email, "admin email (ADMIN_EMAIL)")
	password := flag.String("admin-password", cfg.Admin.Password, "admin password (ADMIN_PASSWORD)")
	skipAdmin := flag.Bool("skip-admin", false, "only migrate and seed categories")
	flag.Parse()

	if cfg.Database.Driver != "postgres" {
		logrus.WithField("driver", cfg.Database.Driver).Fatal("Seeding requires the postgres driver")
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	if _, err := database.SeedCategories(db); err != nil {
		logrus.WithError(err).Fatal("Failed to seed categories")
	}

	if *skipAdmin {
		return
	}
	admin, err := database.EnsureAdmin(db, *name, *email, *password)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to ensure admin account")
	}
	logrus.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("Admin account ready")
}
