package domain

import (
	"context"
	"time"
)

// TierName is the closed set of rate-limit policies. Adding a tier means
// adding a constant here and a field to TierSet; Classify stays exhaustive.
type TierName string

const (
	TierDefault         TierName = "default"
	TierAdmin           TierName = "admin"
	TierProductCreation TierName = "product-creation"
)

// Tier is a named rate-limit policy: at most Limit requests per Window.
type Tier struct {
	Name   TierName
	Limit  int
	Window time.Duration
}

// ResourceCategory is declared per endpoint and drives tier selection.
type ResourceCategory string

const (
	ResourceGeneral         ResourceCategory = "general"
	ResourceProductCreation ResourceCategory = "product-creation"
)

// TierSet holds the configured tiers.
type TierSet struct {
	Default         Tier
	Admin           Tier
	ProductCreation Tier
}

// Classify maps a subject and endpoint category to a tier. Product creation
// always uses its own tier regardless of role; admins get the admin tier
// everywhere else.
func (ts TierSet) Classify(subject Subject, category ResourceCategory) Tier {
	if category == ResourceProductCreation {
		return ts.ProductCreation
	}
	if subject.Admin {
		return ts.Admin
	}
	return ts.Default
}

// RateLimitDecision is the result of a single quota evaluation.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter decides whether a request identified by key fits within the
// given tier's quota. Implementations must make the underlying counter
// update atomic across concurrent callers sharing a key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, tier Tier) (RateLimitDecision, error)
}
