package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// TokenLimiter limits the number of model tokens spent per minute.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter creates a limiter that refills maxTokensPerMinute tokens every minute.
func NewTokenLimiter(maxTokensPerMinute int) *TokenLimiter {
	if maxTokensPerMinute <= 0 {
		return &TokenLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(maxTokensPerMinute)/60.0), maxTokensPerMinute),
		max:     maxTokensPerMinute,
	}
}

// Wait blocks until n tokens are available or ctx is done.
// Requests larger than the per-minute budget are rejected.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	if l.max > 0 && n > l.max {
		return fmt.Errorf("request of %d tokens exceeds the limit of %d per minute", n, l.max)
	}
	return l.limiter.WaitN(ctx, n)
}

// GetRemaining returns the tokens currently available.
func (l *TokenLimiter) GetRemaining() int {
	if l.max <= 0 {
		return -1
	}
	return int(l.limiter.Tokens())
}
