package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
	"github.com/tofaramususa/fastapi-production-api/internal/log"
)

const defaultEvaluateTimeout = 500 * time.Millisecond

// Guard wraps a RateLimiter and converts counter-store failures into
// fail-open decisions: when the store is unreachable or slow the request is
// allowed with a full quota, and the degradation is logged. Guard.Allow
// never returns a non-nil error, so availability cannot depend on Redis.
type Guard struct {
	limiter  domain.RateLimiter
	timeout  time.Duration
	degraded atomic.Int64
}

func NewGuard(limiter domain.RateLimiter, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = defaultEvaluateTimeout
	}
	return &Guard{limiter: limiter, timeout: timeout}
}

func (g *Guard) Allow(ctx context.Context, key string, tier domain.Tier) (domain.RateLimitDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	decision, err := g.limiter.Allow(ctx, key, tier)
	if err == nil {
		return decision, nil
	}

	g.degraded.Add(1)
	log.Logger().Warn("rate limit store unavailable, failing open",
		zap.String("key", key),
		zap.String("tier", string(tier.Name)),
		zap.Error(err))
	return domain.RateLimitDecision{
		Allowed:   true,
		Limit:     tier.Limit,
		Remaining: tier.Limit,
		ResetAt:   time.Now().Add(normalizeWindow(tier.Window)),
	}, nil
}

// Degradations reports how many evaluations have failed open.
func (g *Guard) Degradations() int64 {
	return g.degraded.Load()
}
