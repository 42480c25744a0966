// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 24*time.Hour, cfg.Store.CartSessionTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("CART_SESSION_TTL", "48h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 48*time.Hour, cfg.Store.CartSessionTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Security.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("CART_SESSION_TTL", "soon")
	t.Setenv("APP_DEBUG", "yes-please")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.Store.CartSessionTTL)
	assert.True(t, cfg.App.Debug)
}

func TestValidateShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateMissingDatabaseHost(t *testing.T) {
	cfg := &Config{
		JWT:    JWTConfig{Secret: testSecret},
		Server: ServerConfig{Port: "8080"},
		Redis:  RedisConfig{Host: "localhost"},
		Database: DatabaseConfig{
			Name: "storefront_db",
			User: "storefront_user",
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     "5433",
			Name:     "shop",
			User:     "app",
			Password: "secret",
			SSLMode:  "require",
		},
	}

	dsn := cfg.GetDatabaseDSN()
	assert.Equal(t, "host=db.internal port=5433 user=app password=secret dbname=shop sslmode=require", dsn)
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "cache.internal", Port: "6380"}}
	assert.Equal(t, "cache.internal:6380", cfg.GetRedisAddr())
}
