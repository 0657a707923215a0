package security

import (
	"testing"
	"time"

	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, BurstSize: 2, CleanupInterval: time.Hour})
	defer rl.Close()

	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"), "burst exhausted")
	assert.True(t, rl.Allow("bob"), "buckets are independent")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("alice"), "one token refills per second")
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, BurstSize: 1, CleanupInterval: time.Hour})
	defer rl.Close()

	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("alice")
	now = now.Add(30 * time.Minute)
	rl.Allow("bob")
	now = now.Add(45 * time.Minute)

	rl.evictIdle()
	assert.Equal(t, 1, rl.Size())
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{})
	defer rl.Close()

	assert.Equal(t, 1, rl.burst)
	assert.InDelta(t, 1.0, float64(rl.limit), 0.0001)
	assert.Equal(t, 10*time.Minute, rl.idle)
}
