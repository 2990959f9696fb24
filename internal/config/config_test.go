package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 2, cfg.FeedPageSize)
	assert.Equal(t, "images", cfg.ImageDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("FEED_PAGE_SIZE", "10")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, 10, cfg.FeedPageSize)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "not-a-duration")
	t.Setenv("FEED_PAGE_SIZE", "-3")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 2, cfg.FeedPageSize)
}
