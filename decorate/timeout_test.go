package decorate

import (
	"context"
	"testing"
	"time"

	"github.com/amp-labs/amp-decorators/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sleeper(d time.Duration) Func[int, int] {
	return func(ctx context.Context, x int) (int, error) {
		select {
		case <-time.After(d):
			return x, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast functions return normally", func(t *testing.T) {
		t.Parallel()

		out, err := ApplyNamed("fast", sleeper(time.Millisecond), Timeout[int, int](time.Second))(t.Context(), 9)
		require.NoError(t, err)
		assert.Equal(t, 9, out)
	})

	t.Run("slow functions fail with a timeout error", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		_, err := ApplyNamed("slow", sleeper(time.Minute), Timeout[int, int](30*time.Millisecond))(t.Context(), 9)

		require.ErrorIs(t, err, errors.ErrTimeout)
		require.ErrorIs(t, err, errors.ErrRuntimeLimit)
		assert.Contains(t, err.Error(), "function call timed out")
		assert.Less(t, time.Since(start), 10*time.Second)
	})

	t.Run("functions ignoring their context still time out", func(t *testing.T) {
		t.Parallel()

		stubborn := func(context.Context, int) (int, error) {
			time.Sleep(200 * time.Millisecond)

			return 1, nil
		}

		_, err := ApplyNamed("stubborn", stubborn, Timeout[int, int](20*time.Millisecond, WithMessage("too slow")))(t.Context(), 0)
		require.ErrorIs(t, err, errors.ErrTimeout)
		assert.Contains(t, err.Error(), "too slow")
	})

	t.Run("errors pass through", func(t *testing.T) {
		t.Parallel()

		_, err := Apply(failing, Timeout[int, int](time.Second))(t.Context(), 0)
		require.ErrorIs(t, err, errTest)
		assert.NotErrorIs(t, err, errors.ErrTimeout)
	})

	t.Run("panics are re-raised on the caller", func(t *testing.T) {
		t.Parallel()

		f := ApplyNamed("panicky", func(context.Context, int) (int, error) {
			panic("boom")
		}, Timeout[int, int](time.Second))

		assert.PanicsWithValue(t, "boom", func() { _, _ = f(t.Context(), 0) })
	})

	t.Run("caller cancellation is reported as such", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := ApplyNamed("slow", sleeper(time.Minute), Timeout[int, int](time.Minute))(ctx, 0)
		require.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, errors.ErrTimeout)
	})

	t.Run("rejects a non-positive budget", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { Timeout[int, int](0) })
	})
}
