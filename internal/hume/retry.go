package hume

import (
	"context"
	"time"
)

// Backoff bounds the retry applied to job status lookups.
type Backoff struct {
	Attempts int
	Min      time.Duration
	Max      time.Duration
}

// DefaultStatusBackoff is three attempts waiting 2s then 4s, never more than 10s.
func DefaultStatusBackoff() Backoff {
	return Backoff{Attempts: 3, Min: 2 * time.Second, Max: 10 * time.Second}
}

// Delay returns the wait after the given failed attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := b.Min
	for i := 1; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retry runs fn until it succeeds, returns a non-transient error or the attempt budget runs out.
func retry(ctx context.Context, b Backoff, sleep sleepFunc, fn func() error) error {
	attempts := b.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) || attempt == attempts {
			break
		}
		if err := sleep(ctx, b.Delay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}
