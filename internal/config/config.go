package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	RedisAddr   string
	LogLevel    string

	// Shared admin secret checked on every mutating request.
	AdminToken string
	// Lifetime of bearer tokens issued by POST /api/auth/token.
	SessionTTL time.Duration

	// Base URL used when rendering product links (QR codes).
	PublicBaseURL string

	// Directory searched first for bundled content snapshots.
	ContentDir string

	// S3 / Minio
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load returns the application configuration from environment variables.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "3001"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Placeholder default kept for parity with the legacy deployment.
		// Run cmd/gen-admin-token and set ADMIN_TOKEN in any real environment.
		AdminToken: getEnv("ADMIN_TOKEN", "admin123"),
		SessionTTL: getDuration("ADMIN_SESSION_TTL", 12*time.Hour),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3001"),
		ContentDir:    getEnv("CONTENT_DIR", ""),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// IsDatabaseConfigured reports whether a live store was supplied. Absence is
// not an error: the service runs in fallback-only mode without one.
func (c *Config) IsDatabaseConfigured() bool {
	return c.DatabaseURL != ""
}

// IsObjectStorageConfigured requires the full credential triple plus a bucket.
// When false, uploads are skipped and client-supplied URLs are persisted as-is.
func (c *Config) IsObjectStorageConfigured() bool {
	return c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

func (c *Config) IsCacheConfigured() bool {
	return c.RedisAddr != ""
}
