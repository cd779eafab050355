package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERVICE_ROLE_TOKEN", "")
	t.Setenv("VERIFY_EMAIL_DOMAINS", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.HasServiceRole())
	assert.True(t, cfg.VerifyEmailDomains)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVICE_ROLE_TOKEN", "svc")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("VERIFY_EMAIL_DOMAINS", "false")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.HasServiceRole())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.False(t, cfg.VerifyEmailDomains)
}
