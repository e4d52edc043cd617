package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRES_IN", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "socialmedia", cfg.MongoDatabase)
	assert.Equal(t, 72*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "loginToken", cfg.LoginCookieName)
	assert.False(t, cfg.IsProduction())

	secret, ok := cfg.Secret()
	assert.True(t, ok)
	assert.Equal(t, devJWTSecret, secret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_EXPIRES_IN", "1h")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)

	_, ok := cfg.Secret()
	assert.False(t, ok, "production requires an explicit secret")
}
