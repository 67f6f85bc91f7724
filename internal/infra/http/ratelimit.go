package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// enforceRateLimit applies the subject's quota for the endpoint category.
// Master-key callers bypass limiting entirely. Returns false after writing
// the 429 response.
func (s *Server) enforceRateLimit(c *gin.Context, subject domain.Subject, category domain.ResourceCategory) bool {
	if s.limiter == nil || subject.BypassesRateLimit() {
		return true
	}

	tier := s.tiers.Classify(subject, category)
	decision, err := s.limiter.Allow(c.Request.Context(), subject.RateLimitKey(), tier)
	if err != nil {
		// The degradation guard fails open, so an error here means the
		// limiter itself is misconfigured. Let the request through.
		return true
	}
	writeRateLimitHeaders(c, decision)
	if !decision.Allowed {
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "rate limit exceeded")
		return false
	}
	return true
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit <= 0 {
		return
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	remaining := decision.Remaining
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.ResetAt.IsZero() {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
