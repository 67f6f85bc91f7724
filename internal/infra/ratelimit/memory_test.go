package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

func TestMemoryLimiter_DefaultTierExhaustion(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	tier := domain.Tier{Name: domain.TierDefault, Limit: 100, Window: time.Minute}

	for i := 1; i <= 100; i++ {
		decision, err := limiter.Allow(context.Background(), "user:u1", tier)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 100-i, decision.Remaining)
	}

	decision, err := limiter.Allow(context.Background(), "user:u1", tier)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.True(t, decision.ResetAt.Equal(now.Add(time.Minute)), "ResetAt %v", decision.ResetAt)
}

func TestMemoryLimiter_BoundaryBlendPreventsDoubleBurst(t *testing.T) {
	windowBase := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	now := windowBase.Add(30 * time.Second)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	tier := domain.Tier{Name: domain.TierDefault, Limit: 100, Window: time.Minute}

	for i := 0; i < 100; i++ {
		decision, err := limiter.Allow(context.Background(), "user:u1", tier)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	// A quarter into the next window the previous 100 requests still weigh
	// in at 75, so only 25 more fit. A fixed window would have allowed a
	// fresh 100 here.
	now = windowBase.Add(75 * time.Second)
	for i := 1; i <= 25; i++ {
		decision, err := limiter.Allow(context.Background(), "user:u1", tier)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d in new window", i)
	}
	decision, err := limiter.Allow(context.Background(), "user:u1", tier)
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "26th request exceeds the blended count")
}

func TestMemoryLimiter_IdleWindowsResetQuota(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	tier := domain.Tier{Name: domain.TierProductCreation, Limit: 1, Window: 2 * time.Hour}

	first, err := limiter.Allow(context.Background(), "user:u1", tier)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	second, err := limiter.Allow(context.Background(), "user:u1", tier)
	require.NoError(t, err)
	assert.False(t, second.Allowed)

	now = now.Add(4 * time.Hour)
	third, err := limiter.Allow(context.Background(), "user:u1", tier)
	require.NoError(t, err)
	assert.True(t, third.Allowed)
}

func TestMemoryLimiter_RemainingNeverIncreasesWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	tier := domain.Tier{Name: domain.TierDefault, Limit: 10, Window: time.Minute}

	last := tier.Limit
	for i := 0; i < 12; i++ {
		decision, err := limiter.Allow(context.Background(), "user:u1", tier)
		require.NoError(t, err)
		assert.LessOrEqual(t, decision.Remaining, last)
		last = decision.Remaining
		now = now.Add(2 * time.Second)
	}
	assert.Equal(t, 0, last)
}

func TestMemoryLimiter_ConcurrentCallersShareOneCounter(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	tier := domain.Tier{Name: domain.TierDefault, Limit: 100, Window: time.Minute}

	const callers = 60
	var wg sync.WaitGroup
	allowed := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decision, err := limiter.Allow(context.Background(), "user:shared", tier)
			if err == nil {
				allowed[i] = decision.Allowed
			}
		}(i)
	}
	wg.Wait()

	for i := range allowed {
		assert.True(t, allowed[i], "caller %d", i)
	}
	// the next call sees exactly callers prior requests, no more, no fewer
	decision, err := limiter.Allow(context.Background(), "user:shared", tier)
	require.NoError(t, err)
	assert.Equal(t, tier.Limit-callers-1, decision.Remaining)
}

func TestMemoryLimiter_CapacityExceeded(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }, MaxKeys: 2})
	tier := domain.Tier{Name: domain.TierDefault, Limit: 10, Window: time.Minute}

	_, err := limiter.Allow(context.Background(), "user:a", tier)
	require.NoError(t, err)
	_, err = limiter.Allow(context.Background(), "user:b", tier)
	require.NoError(t, err)

	_, err = limiter.Allow(context.Background(), "user:c", tier)
	assert.Error(t, err, "live buckets cannot be evicted to make room")

	// once existing buckets go stale they are collected and new keys fit
	now = now.Add(5 * time.Minute)
	_, err = limiter.Allow(context.Background(), "user:c", tier)
	assert.NoError(t, err)
}
