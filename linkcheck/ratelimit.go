package linkcheck

import (
	"context"
	"math"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

const (
	// backoffFactor is applied to the rate when a server asks us to slow down.
	backoffFactor = 0.5

	// recoveryFactor is applied after every successful response until the
	// configured ceiling is reached again.
	recoveryFactor = 1.1

	// floorDivisor bounds how far the rate can fall below the ceiling.
	floorDivisor = 10
)

// adaptiveLimiter caps outgoing requests at a configured rate and slows down
// when servers answer 429 or 503. Successful responses restore the rate step
// by step. It is safe for concurrent use.
type adaptiveLimiter struct {
	limiter *rate.Limiter
	ceiling float64
	floor   float64

	mu      sync.Mutex
	current float64
}

// newAdaptiveLimiter returns nil when rps is not positive, which disables
// rate limiting.
func newAdaptiveLimiter(rps float64) *adaptiveLimiter {
	if rps <= 0 {
		return nil
	}
	return &adaptiveLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burstFor(rps)),
		ceiling: rps,
		floor:   rps / floorDivisor,
		current: rps,
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (a *adaptiveLimiter) Wait(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}

// Observe adjusts the rate after a response with the given status.
func (a *adaptiveLimiter) Observe(status int) {
	if a == nil || status == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.current
	switch {
	case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable:
		next = math.Max(a.floor, a.current*backoffFactor)
	case a.current < a.ceiling:
		next = math.Min(a.ceiling, a.current*recoveryFactor)
	}
	if next == a.current {
		return
	}
	a.current = next
	a.limiter.SetLimit(rate.Limit(next))
	a.limiter.SetBurst(burstFor(next))
}

// Rate returns the current limit in requests per second, or 0 when disabled.
func (a *adaptiveLimiter) Rate() float64 {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func burstFor(rps float64) int {
	return max(1, int(math.Ceil(rps)))
}
