package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// TokenLimiter enforces a tokens-per-minute budget for model calls.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter creates a limiter refilling maxPerMinute tokens every minute.
// A non-positive budget disables limiting.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	if maxPerMinute <= 0 {
		return &TokenLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	perSecond := rate.Limit(float64(maxPerMinute) / time.Minute.Seconds())
	return &TokenLimiter{
		limiter: rate.NewLimiter(perSecond, maxPerMinute),
		max:     maxPerMinute,
	}
}

// Wait blocks until n tokens are available or ctx is done.
// Requests larger than the whole budget wait for a full bucket.
func (t *TokenLimiter) Wait(ctx context.Context, n int) error {
	if n <= 0 || t.max == 0 {
		return nil
	}
	if n > t.max {
		n = t.max
	}
	return t.limiter.WaitN(ctx, n)
}

// GetRemaining returns the tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	if t.max == 0 {
		return -1
	}
	return int(t.limiter.Tokens())
}
