// Package ratelimit implements the shared-counter rate limiter backing the
// HTTP layer's quota enforcement.
//
// Both backends use the same sliding-window algorithm: requests are counted
// in fixed buckets of one window each, and the effective count blends the
// previous bucket with the current one in proportion to how much of the
// current window has elapsed. This avoids the doubled burst a pure fixed
// window permits around bucket boundaries.
package ratelimit

import (
	"math"
	"time"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

func normalizeWindow(window time.Duration) time.Duration {
	if window <= 0 {
		return time.Second
	}
	return window
}

func windowID(now time.Time, window time.Duration) int64 {
	return now.UnixMilli() / window.Milliseconds()
}

func windowStart(id int64, window time.Duration) time.Time {
	return time.UnixMilli(id * window.Milliseconds())
}

// decide turns raw bucket counts into a decision. current includes the
// request being evaluated; previous is the full count of the prior bucket.
func decide(tier domain.Tier, current, previous int64, now time.Time) domain.RateLimitDecision {
	window := normalizeWindow(tier.Window)
	id := windowID(now, window)
	start := windowStart(id, window)

	elapsed := float64(now.Sub(start)) / float64(window)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > 1 {
		elapsed = 1
	}

	effective := float64(previous)*(1-elapsed) + float64(current)
	count := int(math.Ceil(effective))
	remaining := tier.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   count <= tier.Limit,
		Limit:     tier.Limit,
		Remaining: remaining,
		ResetAt:   start.Add(window),
	}
}
