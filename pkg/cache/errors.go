package cache

import (
	"context"
	"errors"
	"time"

	nerrors "github.com/matzehuels/nugetnpm/pkg/errors"
)

// Sentinel errors shared by the registry clients.
var (
	// ErrNotFound is returned when a package or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff configures retries.
type Backoff struct {
	Attempts int
	Base     time.Duration
	// Max caps both the doubled delay and a server's Retry-After.
	Max time.Duration
}

// DefaultBackoff is the retry policy of new HTTP clients.
var DefaultBackoff = Backoff{Attempts: 3, Base: time.Second, Max: 30 * time.Second}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. Rate-limited errors wait for the server's Retry-After
// instead of the doubled delay.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Base
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		var rl *nerrors.RateLimitedError
		if errors.As(lastErr, &rl) && rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		if b.Max > 0 && wait > b.Max {
			wait = b.Max
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			delay *= 2
		}
	}
	return lastErr
}
