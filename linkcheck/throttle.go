package linkcheck

import (
	"context"
	"log/slog"
	"time"
)

// Throttle pauses dispatching for a fixed delay after every N dispatches.
// It is used by the single goroutine that feeds the worker pool and is not
// safe for concurrent use.
type Throttle struct {
	every  int
	pause  time.Duration
	count  int
	pauses int
	logger *slog.Logger
}

// NewThrottle creates a Throttle. A non-positive every or pause disables it.
func NewThrottle(every int, pause time.Duration, logger *slog.Logger) *Throttle {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Throttle{every: every, pause: pause, logger: logger}
}

// Wait is called before each dispatch. It blocks for the pause when the
// previous dispatch completed a batch, and returns the context's error if
// ctx ends first.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.every > 0 && t.pause > 0 && t.count > 0 && t.count%t.every == 0 {
		t.logger.Debug("throttling dispatch", "dispatched", t.count, "pause", t.pause)
		timer := time.NewTimer(t.pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		t.pauses++
	}
	t.count++
	return nil
}

// Pauses returns how many times Wait has paused.
func (t *Throttle) Pauses() int {
	return t.pauses
}
