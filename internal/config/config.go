package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Runtime
	AppEnv   string
	LogLevel slog.Level

	// Database
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Server
	Port                   string
	CORSOrigins            string
	RateLimitPerMinute     int
	AuthRateLimitPerMinute int

	// Logging
	LogRetentionDays int

	// Sentry
	SentryDSN        string
	SentryTracesRate float64

	// Seed tool
	SeedPassword string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:   strings.ToLower(getEnv("APP_ENV", "development")),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "social_feed"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 25),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),

		Port:                   getEnv("PORT", "8080"),
		CORSOrigins:            getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMinute:     getInt("RATE_LIMIT_PER_MINUTE", 120),
		AuthRateLimitPerMinute: getInt("AUTH_RATE_LIMIT_PER_MINUTE", 20),

		LogRetentionDays: getInt("LOG_RETENTION_DAYS", 30),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		SentryTracesRate: getFloat("SENTRY_TRACES_RATE", 0.2),

		SeedPassword: getEnv("SEED_PASSWORD", "password123"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
