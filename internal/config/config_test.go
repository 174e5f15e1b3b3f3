package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("DATABASE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "database", cfg.Session.Store)
	assert.Equal(t, "sword_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
	assert.False(t, cfg.IsProduction())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("RATE_LIMIT_ENABLED", "FALSE")
	t.Setenv("UPLOAD_MAX_MB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int64(3*1024*1024), cfg.Storage.MaxUploadBytes)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "production",
			Database:    DatabaseConfig{Driver: "postgres", Password: "secret"},
			Session:     SessionConfig{Secret: "prod-secret", Store: "redis", TTLHours: 1},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Session.Secret = defaultSessionSecret
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "memory"
	cfg.Session.Store = "database"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Session.TTLHours = 0
	assert.Error(t, cfg.Validate())
}

func TestDSNAndAddr(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", db.DSN())

	r := RedisConfig{Host: "r", Port: "6379"}
	assert.Equal(t, "r:6379", r.Addr())
}
