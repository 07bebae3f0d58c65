package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/banquito")
	t.Setenv("BASE_CURRENCY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/banquito", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "NIO", cfg.BaseCurrency)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.BackupInterval)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, 21, cfg.BackupFTPPort)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_CURRENCY", "usd")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("BACKUP_INTERVAL", "0s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Duration(0), cfg.BackupInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
}
