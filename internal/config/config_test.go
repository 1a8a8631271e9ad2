package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "admin123", cfg.AdminToken)
	assert.False(t, cfg.IsDatabaseConfigured())
	assert.False(t, cfg.IsObjectStorageConfigured())
	assert.False(t, cfg.IsCacheConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/storefront")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.AdminToken)
	assert.True(t, cfg.IsDatabaseConfigured())
	assert.True(t, cfg.IsCacheConfigured())
}

func TestIsObjectStorageConfigured_RequiresFullTriple(t *testing.T) {
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg := Load()
	assert.False(t, cfg.IsObjectStorageConfigured())

	t.Setenv("S3_BUCKET", "storefront-images")
	cfg = Load()
	assert.True(t, cfg.IsObjectStorageConfigured())
}
