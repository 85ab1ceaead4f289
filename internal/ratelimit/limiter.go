// Package ratelimit throttles outbound calls to a single upstream catalog.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates calls to one upstream source.
type Limiter interface {
	Wait(ctx context.Context) error
}

// nopLimiter allows unlimited throughput.
type nopLimiter struct{}

func (nopLimiter) Wait(ctx context.Context) error { return ctx.Err() }

// Unlimited returns a Limiter that never blocks.
func Unlimited() Limiter { return nopLimiter{} }

// Every returns a Limiter that lets one call through per interval, with the
// first call passing immediately. An interval <= 0 disables limiting.
// The returned Limiter is safe for concurrent use.
func Every(interval time.Duration) Limiter {
	if interval <= 0 {
		return nopLimiter{}
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
