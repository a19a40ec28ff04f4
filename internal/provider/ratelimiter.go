package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by all calls to one upstream.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows a burst of maxTokens calls, refilling one token per refillInterval.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(refillInterval), maxTokens)}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow reports whether a token is available now, consuming it if so.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
