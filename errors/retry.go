package errors

import (
	"context"
	"time"
)

// RetryPolicy configures retry behavior. Attempts are numbered from 1.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// Backoff returns the delay to wait after the given attempt:
// min(InitialDelay * 2^(attempt-1), MaxDelay).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return p.InitialDelay
	}

	delay := p.InitialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// OnRetryFunc is invoked after every failed non-final attempt, before the
// backoff delay, with the attempt number and the raw error.
type OnRetryFunc func(attempt int, err error)

// WithRetry runs fn up to policy.MaxAttempts times with exponential backoff
// between attempts. When all attempts fail the last underlying error is
// returned unchanged. Context cancellation aborts the wait and returns the
// context error.
func WithRetry[T any](
	ctx context.Context,
	policy RetryPolicy,
	onRetry OnRetryFunc,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		if onRetry != nil {
			onRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(policy.Backoff(attempt)):
		}
	}

	return zero, lastErr
}

// Retry is the result-less convenience form of WithRetry.
func Retry(ctx context.Context, policy RetryPolicy, onRetry OnRetryFunc, fn func(ctx context.Context) error) error {
	_, err := WithRetry(ctx, policy, onRetry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
