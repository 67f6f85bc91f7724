package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tofaramususa/fastapi-production-api/internal/domain"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	AuthMode          string
	OIDCIssuerURL     string
	OIDCAudience      string
	OIDCJWKSURL       string
	OIDCClockSkewSecs int

	MasterKey         string
	AdminEmailDomains []string
	TrustProxyHeaders bool

	RateLimitDefault               int
	RateLimitWindowSeconds         int
	RateLimitAdmin                 int
	RateLimitAdminWindowSeconds    int
	RateLimitProductCreationMax    int
	RateLimitProductCreationWindow int
	RateLimitTimeoutMillis         int
	RateLimitMaxKeys               int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:          addr,
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		AuthMode:          os.Getenv("AUTH_MODE"),
		OIDCIssuerURL:     os.Getenv("OIDC_ISSUER_URL"),
		OIDCAudience:      os.Getenv("OIDC_AUDIENCE"),
		OIDCJWKSURL:       os.Getenv("OIDC_JWKS_URL"),
		OIDCClockSkewSecs: envIntDefault("OIDC_CLOCK_SKEW_SECONDS", 60),
		MasterKey:         os.Getenv("MASTER_KEY"),
		AdminEmailDomains: envListDefault("ADMIN_EMAIL_DOMAINS", nil),
		TrustProxyHeaders: envBoolDefault("TRUST_PROXY_HEADERS", false),

		RateLimitDefault:               envIntDefault("RATE_LIMIT_DEFAULT", 100),
		RateLimitWindowSeconds:         envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitAdmin:                 envIntDefault("RATE_LIMIT_ADMIN", 10000),
		RateLimitAdminWindowSeconds:    envIntDefault("RATE_LIMIT_ADMIN_WINDOW_SECONDS", 60),
		RateLimitProductCreationMax:    envIntDefault("RATE_LIMIT_PRODUCT_CREATION_MAX", 1),
		RateLimitProductCreationWindow: envIntDefault("RATE_LIMIT_PRODUCT_CREATION_WINDOW_SECONDS", 7200),
		RateLimitTimeoutMillis:         envIntDefault("RATE_LIMIT_TIMEOUT_MS", 500),
		RateLimitMaxKeys:               envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntDefault("REDIS_DB", 0),
	}
}

// Tiers builds the closed tier set from the configured limits.
func (c Config) Tiers() domain.TierSet {
	return domain.TierSet{
		Default: domain.Tier{
			Name:   domain.TierDefault,
			Limit:  c.RateLimitDefault,
			Window: time.Duration(c.RateLimitWindowSeconds) * time.Second,
		},
		Admin: domain.Tier{
			Name:   domain.TierAdmin,
			Limit:  c.RateLimitAdmin,
			Window: time.Duration(c.RateLimitAdminWindowSeconds) * time.Second,
		},
		ProductCreation: domain.Tier{
			Name:   domain.TierProductCreation,
			Limit:  c.RateLimitProductCreationMax,
			Window: time.Duration(c.RateLimitProductCreationWindow) * time.Second,
		},
	}
}

// RateLimitTimeout bounds the counter-store round trip before the request
// is resolved fail-open.
func (c Config) RateLimitTimeout() time.Duration {
	if c.RateLimitTimeoutMillis <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.RateLimitTimeoutMillis) * time.Millisecond
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}

func envListDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
