package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackerman70000/cbwg/internal/core/domain"
)

func TestDo(t *testing.T) {
	t.Run("returns first success without further attempts", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), Policy{MaxAttempts: 3}, "op",
			func(ctx context.Context) (string, error) {
				calls++
				return "ok", nil
			})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), Policy{MaxAttempts: 3}, "op",
			func(ctx context.Context) (int, error) {
				calls++
				if calls < 3 {
					return 0, errors.New("flaky")
				}
				return 42, nil
			})

		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts exactly MaxAttempts and wraps the last error", func(t *testing.T) {
		calls := 0
		lastErr := errors.New("still broken")
		_, err := Do(context.Background(), Policy{MaxAttempts: 2}, "op",
			func(ctx context.Context) (struct{}, error) {
				calls++
				return struct{}{}, lastErr
			})

		assert.Equal(t, 2, calls)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
		assert.ErrorIs(t, err, lastErr)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), Policy{}, "op",
			func(ctx context.Context) (struct{}, error) {
				calls++
				return struct{}{}, nil
			})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops before the next attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := Do(ctx, Policy{MaxAttempts: 5}, "op",
			func(ctx context.Context) (struct{}, error) {
				calls++
				cancel()
				return struct{}{}, errors.New("fail")
			})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
