// Package retry runs operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (refused connections, timeouts) with this type
// so that [Do] attempts the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy configures [Do].
type Policy struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // delay before the second attempt, doubled afterwards

	// OnRetry is called after every failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// Default matches the connection behaviour operators expect from the
// tool: three attempts, two seconds apart at first.
var Default = Policy{Attempts: 3, Delay: 2 * time.Second}

// Do executes fn up to p.Attempts times. Only errors wrapped with
// [RetryableError] are retried; other errors are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled
// while waiting.
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			if p.OnRetry != nil {
				p.OnRetry(i+1, lastErr)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
