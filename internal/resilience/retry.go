// Package resilience retries outbound calls that fail for transient reasons.
package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Backoff controls how Retry spaces out attempts.
type Backoff struct {
	// Attempts is the total number of calls, including the first. Default: 3.
	Attempts int
	// Initial is the delay before the first retry. Default: 250ms.
	Initial time.Duration
	// Max caps any single delay. Default: 5s.
	Max time.Duration
	// Jitter randomizes each delay by up to this fraction (0.2 = ±20%).
	Jitter float64
}

// DefaultBackoff is used for webhook delivery.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts: 3,
		Initial:  250 * time.Millisecond,
		Max:      5 * time.Second,
		Jitter:   0.2,
	}
}

func (b Backoff) withDefaults() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 3
	}
	if b.Initial <= 0 {
		b.Initial = 250 * time.Millisecond
	}
	if b.Max <= 0 {
		b.Max = 5 * time.Second
	}
	if b.Jitter < 0 {
		b.Jitter = 0
	}
	return b
}

// delay returns the wait before retry n (0-based), doubling each time.
func (b Backoff) delay(n int) time.Duration {
	d := math.Min(float64(b.Initial)*math.Pow(2, float64(n)), float64(b.Max))
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * b.Jitter
	}
	return time.Duration(math.Max(d, 0))
}

// Retry calls fn until it succeeds, returns a non-retryable error, ctx is
// done, or the attempt budget runs out. The last error is returned.
func Retry(ctx context.Context, b Backoff, op string, fn func(ctx context.Context) error) error {
	b = b.withDefaults()

	var err error
	for attempt := 0; attempt < b.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil || !Retryable(err) || attempt == b.Attempts-1 {
			return err
		}

		zap.L().Warn("retrying operation",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(b.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}
