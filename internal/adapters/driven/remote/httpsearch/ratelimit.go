package httpsearch

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate limiting defaults.
const (
	DefaultBurstSize = 2

	// DefaultBackoff applies after a 429 without a usable Retry-After header.
	DefaultBackoff = 30 * time.Second
)

// RateLimiter throttles requests to the remote endpoints. It uses a token
// bucket plus a backoff window set when the server answers 429.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond sustained
// requests. A non-positive rate means unlimited.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 || math.IsInf(requestsPerSecond, 1) {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = DefaultBurstSize
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent, honouring any backoff window.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	now := r.now()
	r.mu.Unlock()

	if now.Before(retryAt) {
		timer := time.NewTimer(retryAt.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff opens a backoff window of d, or DefaultBackoff if d is not positive.
func (r *RateLimiter) Backoff(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d <= 0 {
		d = DefaultBackoff
	}
	r.retryAt = r.now().Add(d)
}

// InBackoff reports whether a backoff window is open.
func (r *RateLimiter) InBackoff() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Before(r.retryAt)
}

// Allow reports whether a request may be sent immediately.
func (r *RateLimiter) Allow() bool {
	if r.InBackoff() {
		return false
	}
	return r.limiter.Allow()
}
