package linkcheck

import (
	"context"
	"net/http"
	"time"
)

// RetryPolicy configures extra attempts for transient HTTP statuses.
// Network errors are never retried beyond the HEAD to GET fallback.
type RetryPolicy struct {
	MaxRetries int           // Maximum number of retries (0 disables retrying)
	BaseDelay  time.Duration // Initial backoff delay
	MaxDelay   time.Duration // Maximum backoff cap
}

// NewRetryPolicy builds a policy from the configured retry count and base
// delay. The backoff is capped at thirty times the base delay.
func NewRetryPolicy(retries int, delay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxRetries: retries,
		BaseDelay:  delay,
		MaxDelay:   30 * delay,
	}
}

// do runs attempt until it returns a status worth keeping, retrying with
// exponential backoff while the status is 429 or 5xx. It returns the last
// outcome and the number of attempts made.
func (p RetryPolicy) do(ctx context.Context, attempt func() hopOutcome) (hopOutcome, int) {
	backoff := p.BaseDelay
	var last hopOutcome
	attempts := 0

	for try := 0; try <= p.MaxRetries; try++ {
		if try > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return last, attempts
			case <-timer.C:
				backoff = min(backoff*2, p.MaxDelay)
			}
		}

		last = attempt()
		attempts++
		if last.err != nil || !shouldRetry(last.status) {
			return last, attempts
		}
	}
	return last, attempts
}

// shouldRetry reports whether a status is transient: 429 Too Many Requests
// and every 5xx.
func shouldRetry(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
