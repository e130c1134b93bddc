// Package ratelimit fronts a token bucket with the per-request cost
// weights resolved by the venue adapters.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket refilled at a fixed number of weight
// units per second.
type Limiter struct {
	bucket *rate.Limiter
}

// New builds a limiter refilled at perSecond weight units. Burst
// capacity matches one second of refill.
func New(perSecond int) *Limiter {
	if perSecond < 1 {
		perSecond = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perSecond), perSecond)}
}

// Throttle blocks until cost units are available or ctx is done.
// Costs above the burst capacity are clamped so an expensive endpoint
// on a small budget still makes progress instead of erroring.
func (l *Limiter) Throttle(ctx context.Context, endpoint string, cost int) error {
	if cost < 1 {
		cost = 1
	}
	if burst := l.bucket.Burst(); cost > burst {
		cost = burst
	}
	return l.bucket.WaitN(ctx, cost)
}
