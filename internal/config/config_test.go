package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "JWT_EXPIRY", "LOG_LEVEL", "DB_MAX_OPEN_CONNS", "SENTRY_TRACES_RATE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 50, cfg.DBMaxOpenConns)
	assert.InDelta(t, 0.2, cfg.SentryTracesRate, 1e-9)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "15")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 15, cfg.RateLimitPerMinute)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "soon")
	t.Setenv("DB_MAX_IDLE_CONNS", "many")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 25, cfg.DBMaxIdleConns)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
