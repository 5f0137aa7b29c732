package api

import (
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/ratelimit"
)

// RateLimiter limits requests per client key.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a rate limiter allowing ratePerInterval requests
// per interval with the given burst.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// clientKey picks the rate-limit key for an auth request from
// proxy-provided client IP headers. Requests without either header share
// one bucket.
func clientKey(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		// First IP in the chain is the client.
		for i := 0; i < len(forwardedFor); i++ {
			if forwardedFor[i] == ',' {
				return forwardedFor[:i]
			}
		}
		return forwardedFor
	}
	if realIP != "" {
		return realIP
	}
	return "direct"
}
