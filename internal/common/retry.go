package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrMaxRetries indicates that all attempts have been exhausted.
var ErrMaxRetries = errors.New("max retries exceeded")

// RetryOptions configures WithRetry.
type RetryOptions struct {
	// MaxAttempts is the total number of runs, including the first.
	MaxAttempts int
}

// WithRetry runs operation until it succeeds, returns a non-retryable error,
// or the attempts run out. The attempt number (starting at 0) is passed in so
// the caller can relax its thresholds between runs. There is no delay
// between attempts.
func WithRetry(ctx context.Context, operation func(attempt int) error, opts RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = operation(attempt)
		if err == nil || !IsRetryable(err) {
			return err
		}

		if attempt+1 < opts.MaxAttempts {
			slog.Warn("Run produced no patterns, relaxing thresholds",
				"attempt", attempt+1,
				"max_attempts", opts.MaxAttempts,
				"error", err)
		}
	}

	if opts.MaxAttempts == 1 {
		return err
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
}
