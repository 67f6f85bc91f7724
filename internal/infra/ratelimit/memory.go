package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

// memoryLimiter is the in-process fallback for deployments without Redis.
// It applies the same two-window blend as the Redis backend but only sees
// traffic handled by this process.
type memoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*slidingBucket
	maxKeys int
}

type slidingBucket struct {
	windowID int64
	current  int64
	previous int64
	staleAt  time.Time
}

type MemoryLimiterConfig struct {
	Now     func() time.Time
	MaxKeys int
}

func NewMemoryLimiter(cfg MemoryLimiterConfig) domain.RateLimiter {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	return &memoryLimiter{
		now:     cfg.Now,
		buckets: make(map[string]*slidingBucket),
		maxKeys: cfg.MaxKeys,
	}
}

func (m *memoryLimiter) Allow(_ context.Context, key string, tier domain.Tier) (domain.RateLimitDecision, error) {
	if tier.Limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: tier.Limit, Remaining: tier.Limit}, nil
	}
	window := normalizeWindow(tier.Window)
	now := m.now()
	id := windowID(now, window)
	bucketID := string(tier.Name) + ":" + key

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.buckets[bucketID]
	if !ok {
		if len(m.buckets) >= m.maxKeys {
			m.gc(now)
		}
		if len(m.buckets) >= m.maxKeys {
			return domain.RateLimitDecision{}, errors.New("rate limiter capacity exceeded")
		}
		bucket = &slidingBucket{windowID: id}
		m.buckets[bucketID] = bucket
	}
	if bucket.windowID != id {
		if id == bucket.windowID+1 {
			bucket.previous = bucket.current
		} else {
			bucket.previous = 0
		}
		bucket.current = 0
		bucket.windowID = id
	}
	bucket.current++
	// keep the bucket around long enough to serve as "previous"
	bucket.staleAt = windowStart(id, window).Add(2 * window)

	return decide(tier, bucket.current, bucket.previous, now), nil
}

// gc drops buckets too old to contribute to any current window. Caller
// holds the mutex.
func (m *memoryLimiter) gc(now time.Time) {
	for key, bucket := range m.buckets {
		if now.After(bucket.staleAt) {
			delete(m.buckets, key)
		}
	}
}
