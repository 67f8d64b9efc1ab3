package utils

import (
	"fmt"
	"time"
)

// Backoff holds the parameters for an exponential back-off retry strategy.
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn until it succeeds or MaxAttempts is exhausted, doubling the
// delay between attempts.
func (b *Backoff) Do(operationName string, fn func() error) error {
	var lastErr error
	delay := b.BaseDelay

	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < b.MaxAttempts {
			b.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				operationName, attempt, b.MaxAttempts, lastErr, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, b.MaxAttempts, lastErr)
}
