package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter with a burst of one,
// spacing requests evenly at the configured rate.
type RateLimiter struct {
	mu sync.Mutex

	// Configuration
	requestsPerSecond float64

	// Token bucket state
	tokens     float64
	lastUpdate time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// Non-positive rps disables limiting.
func NewRateLimiter(rps float64) *RateLimiter {
	return &RateLimiter{
		requestsPerSecond: rps,
		tokens:            1,
		lastUpdate:        time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.requestsPerSecond <= 0 {
		return nil
	}

	for {
		r.mu.Lock()
		r.refill()

		if r.tokens >= 1.0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}

		tokensNeeded := 1.0 - r.tokens
		waitTime := time.Duration(tokensNeeded / r.requestsPerSecond * float64(time.Second))
		r.mu.Unlock()

		// Wait outside the lock
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// refill adds tokens based on elapsed time. Must be called with lock held.
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastUpdate).Seconds()
	r.lastUpdate = now

	r.tokens += elapsed * r.requestsPerSecond
	if r.tokens > 1 {
		r.tokens = 1
	}
}
