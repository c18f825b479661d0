package utils

import (
	"context"
	"time"
)

const maxBackoffDelay = 2 * time.Second

// Backoff retries fn with exponential delays (base, 2*base, 4*base, ...)
// capped at maxBackoffDelay. A cancelled context aborts the wait between
// attempts.
type Backoff struct {
	base       time.Duration
	maxRetries int
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries}
}

func (b Backoff) Do(ctx context.Context, fn func(i int) error) error {
	var err error
	for i := 0; i <= b.maxRetries; i++ {
		err = fn(i)
		if err == nil {
			return nil
		}
		if i == b.maxRetries {
			break
		}
		d := time.Duration(1<<i) * b.base
		if d > maxBackoffDelay {
			d = maxBackoffDelay
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return err
}
