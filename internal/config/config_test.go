package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, int64(5242880), cfg.MaxUploadSize)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.AppLogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "forum",
		DBPassword: "pw",
		DBName:     "forum",
		DBSSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=forum password=pw dbname=forum sslmode=disable TimeZone=UTC",
		cfg.DSN(),
	)
}

func TestValidate(t *testing.T) {
	cfg := Config{JWTSecret: "secret", MaxUploadSize: 1}
	assert.NoError(t, cfg.Validate())

	cfg.MaxUploadSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Config{MaxUploadSize: 1}
	assert.Error(t, cfg.Validate())
}
