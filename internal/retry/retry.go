// Package retry provides the shared retry/backoff policy used by all
// vendor adapters: a status-code classifier for the adapters' own HTTP
// loops, and a generic helper that drives an operation to completion
// with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is the total number of attempts, not the
	// number of retries after the first call.
	DefaultMaxAttempts = 3

	// DefaultInitialBackoff is the sleep before the second attempt;
	// it doubles after every failed attempt.
	DefaultInitialBackoff = 2 * time.Second
)

// retryableStatus lists the HTTP status codes worth another attempt.
var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// IsRetryableStatus reports whether an HTTP status code should be retried.
func IsRetryableStatus(code int) bool {
	return retryableStatus[code]
}

// Policy configures the backoff loop.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration

	// Sleep is called between attempts. Overridable in tests;
	// nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultPolicy returns the policy shared by all adapters.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
	}
}

// Wait blocks for the given backoff duration using the configured
// Sleep hook. The calling goroutine is fully blocked during backoff.
func (p Policy) Wait(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}

// RetryableError marks a failure as worth another attempt. Operations
// passed to Do wrap transient failures (429/5xx, transport errors) in
// it; any other error aborts the loop immediately.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so Do will schedule another attempt.
func Retryable(err error) error {
	return &RetryableError{Err: err}
}

// Do invokes op up to p.MaxAttempts times with exponential backoff.
// It returns the first usable (non-empty) result. Retryable failures
// are logged as warnings between attempts; exhaustion is logged as an
// error and returned to the caller. A non-retryable error aborts the
// loop and is returned as-is.
func Do(ctx context.Context, logger *zap.Logger, p Policy, op func(ctx context.Context) (string, error)) (string, error) {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = DefaultInitialBackoff
	}

	backoff := p.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil && result != "" {
			return result, nil
		}

		var retryable *RetryableError
		if err != nil && !errors.As(err, &retryable) {
			return "", err
		}
		lastErr = err

		if attempt < p.MaxAttempts {
			logger.Warn("attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", p.MaxAttempts),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			p.Wait(backoff)
			backoff *= 2
		}
	}

	logger.Error("all attempts exhausted",
		zap.Int("max_attempts", p.MaxAttempts),
		zap.Error(lastErr))

	if lastErr != nil {
		return "", fmt.Errorf("all %d attempts failed: %w", p.MaxAttempts, lastErr)
	}
	return "", fmt.Errorf("all %d attempts returned no result", p.MaxAttempts)
}
