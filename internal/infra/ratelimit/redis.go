package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

const keyPrefix = "ratelimit:"

type redisLimiter struct {
	client redis.UniversalClient
	now    func() time.Time
}

// slidingWindowScript increments the current bucket and reads the previous
// one in a single atomic evaluation, so concurrent callers on the same key
// cannot lose updates. The bucket lives two windows so it can still serve
// as "previous" after its own window closes.
var slidingWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local previous = tonumber(redis.call("GET", KEYS[2])) or 0
return {current, previous}
`)

// NewRedisLimiter builds the Redis-backed sliding-window limiter. A nil now
// function defaults to time.Now.
func NewRedisLimiter(addr, password string, db int, now func() time.Time) (domain.RateLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisLimiterWithClient(client, now), nil
}

// NewRedisLimiterWithClient wraps an existing client, mainly for tests.
func NewRedisLimiterWithClient(client redis.UniversalClient, now func() time.Time) domain.RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &redisLimiter{client: client, now: now}
}

func (r *redisLimiter) Allow(ctx context.Context, key string, tier domain.Tier) (domain.RateLimitDecision, error) {
	if tier.Limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: tier.Limit, Remaining: tier.Limit}, nil
	}
	window := normalizeWindow(tier.Window)
	now := r.now()
	id := windowID(now, window)

	curKey := bucketKey(tier.Name, key, id)
	prevKey := bucketKey(tier.Name, key, id-1)
	result, err := slidingWindowScript.Run(ctx, r.client, []string{curKey, prevKey}, 2*window.Milliseconds()).Result()
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	values, ok := result.([]any)
	if !ok || len(values) < 2 {
		return domain.RateLimitDecision{}, errors.New("unexpected redis rate limit response")
	}
	current, ok := values[0].(int64)
	if !ok {
		return domain.RateLimitDecision{}, errors.New("invalid redis counter response")
	}
	previous, _ := values[1].(int64)

	return decide(tier, current, previous, now), nil
}

func bucketKey(tier domain.TierName, key string, id int64) string {
	return fmt.Sprintf("%s%s:%s:%d", keyPrefix, tier, key, id)
}
