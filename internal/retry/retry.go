// Package retry applies a retry policy to a fallible operation.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/hackerman70000/cbwg/internal/core/domain"
	"github.com/hackerman70000/cbwg/internal/logger"
)

// Policy describes how many times an operation may be attempted and how
// long to pause between attempts. The zero Backoff means attempts run
// back to back.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Backoff is the fixed pause between attempts.
	Backoff time.Duration
}

// DefaultPolicy matches the generative transformer's default of three
// attempts with no pause.
var DefaultPolicy = Policy{MaxAttempts: 3}

// Do runs op until it succeeds or the policy's attempts are exhausted.
// Every error consumes one attempt. After exhaustion the last error is
// wrapped together with domain.ErrRetriesExhausted. The context is
// checked between attempts; cancellation is returned immediately and does
// not consume the remaining attempts.
func Do[T any](ctx context.Context, policy Policy, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err
		logger.Warn("%s attempt %d failed: %v", name, attempt, err)

		if attempt < attempts && policy.Backoff > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(policy.Backoff):
			}
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w: %w",
		name, attempts, domain.ErrRetriesExhausted, lastErr)
}
