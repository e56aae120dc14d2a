package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amp-labs/amp-decorators/decorate"
	ampErrors "github.com/amp-labs/amp-decorators/errors"
	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var errTemporary = errors.New("temporary error")

// flaky fails until it has been called succeedOn times.
func flaky(calls *atomic.Int64, succeedOn int64) decorate.Func[string, string] {
	return func(_ context.Context, s string) (string, error) {
		if calls.Inc() < succeedOn {
			return "", errTemporary
		}

		return s + "!", nil
	}
}

func TestDecorator_SucceedsFirstTime(t *testing.T) {
	t.Parallel()

	calls := atomic.NewInt64(0)
	f := decorate.Apply(flaky(calls, 1), Decorator[string, string](3))

	out, err := f(t.Context(), "ok")

	require.NoError(t, err)
	assert.Equal(t, "ok!", out)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDecorator_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()

	calls := atomic.NewInt64(0)
	f := decorate.Apply(flaky(calls, 3), Decorator[string, string](5))

	out, err := f(t.Context(), "ok")

	require.NoError(t, err)
	assert.Equal(t, "ok!", out)
	assert.Equal(t, int64(3), calls.Load())
}

func TestDecorator_ExhaustsRetries(t *testing.T) {
	t.Parallel()

	calls := atomic.NewInt64(0)
	f := decorate.Apply(flaky(calls, 100), Decorator[string, string](3))

	out, err := f(t.Context(), "ok")

	require.Error(t, err)
	require.ErrorIs(t, err, ErrRetriesExhausted)
	require.ErrorIs(t, err, errTemporary)
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.Empty(t, out)
	assert.Equal(t, int64(4), calls.Load(), "first attempt plus three retries")
}

func TestDecorator_ZeroRetries(t *testing.T) {
	t.Parallel()

	calls := atomic.NewInt64(0)
	f := decorate.Apply(flaky(calls, 2), Decorator[string, string](0))

	_, err := f(t.Context(), "ok")

	require.ErrorIs(t, err, errTemporary)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDecorator_NegativeRetriesPanics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithError(t, "invalid decorator configuration: retry count must be >= 0, got -1", func() {
		Decorator[string, string](-1)
	})
}

func TestDecorator_RetryIf(t *testing.T) {
	t.Parallel()

	errFatal := errors.New("fatal")
	calls := atomic.NewInt64(0)

	f := decorate.Apply(func(_ context.Context, _ int) (int, error) {
		if calls.Inc() == 1 {
			return 0, errTemporary
		}

		return 0, errFatal
	}, Decorator[int, int](5, WithRetryIf(func(err error) bool {
		return errors.Is(err, errTemporary)
	})))

	_, err := f(t.Context(), 0)

	require.ErrorIs(t, err, errFatal)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int64(2), calls.Load())
}

func TestDecorator_Abort(t *testing.T) {
	t.Parallel()

	errInvalid := errors.New("invalid input")
	calls := atomic.NewInt64(0)

	f := decorate.Apply(func(_ context.Context, _ int) (int, error) {
		calls.Inc()

		return 0, Abort(errInvalid)
	}, Decorator[int, int](5))

	_, err := f(t.Context(), 0)

	assert.Equal(t, errInvalid, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestAbort_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Abort(nil))
}

func TestDecorator_ConstantBackoff(t *testing.T) {
	t.Parallel()

	calls := atomic.NewInt64(0)
	f := decorate.Apply(flaky(calls, 3), Decorator[string, string](2, WithConstantBackoff(20*time.Millisecond)))

	start := time.Now()
	_, err := f(t.Context(), "ok")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestDecorator_BackoffStop(t *testing.T) {
	t.Parallel()

	calls := atomic.NewInt64(0)
	f := decorate.Apply(flaky(calls, 100), Decorator[string, string](10, WithBackoff(func() backoff.BackOff {
		return &backoff.StopBackOff{}
	})))

	_, err := f(t.Context(), "ok")

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDecorator_ContextCancelledBetweenAttempts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	calls := atomic.NewInt64(0)

	f := decorate.Apply(func(_ context.Context, _ int) (int, error) {
		calls.Inc()
		cancel()

		return 0, errTemporary
	}, Decorator[int, int](5, WithConstantBackoff(time.Second)))

	_, err := f(ctx, 0)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDecorator_OnRetry(t *testing.T) {
	t.Parallel()

	var seen []int

	calls := atomic.NewInt64(0)
	f := decorate.Apply(flaky(calls, 3), Decorator[string, string](5, WithOnRetry(func(attempt int, err error) {
		assert.ErrorIs(t, err, errTemporary)

		seen = append(seen, attempt)
	})))

	_, err := f(t.Context(), "ok")

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestDecorator_ErrorNamesFunction(t *testing.T) {
	t.Parallel()

	f := decorate.ApplyNamed("fetch", func(context.Context, int) (int, error) {
		return 0, errTemporary
	}, Decorator[int, int](1))

	_, err := f(t.Context(), 0)

	assert.Contains(t, err.Error(), "fetch()")
}

func TestDo(t *testing.T) {
	t.Parallel()

	callCount := 0
	err := Do(t.Context(), 4, func(ctx context.Context) error {
		callCount++
		if callCount < 3 {
			return errTemporary
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestDo_ContextAlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	callCount := 0
	err := Do(ctx, 3, func(ctx context.Context) error {
		callCount++

		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, callCount)
}

func TestDoValue(t *testing.T) {
	t.Parallel()

	callCount := 0
	value, err := DoValue(t.Context(), 2, func(ctx context.Context) (int, error) {
		callCount++
		if callCount < 2 {
			return 0, errTemporary
		}

		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestDoValue_Exhausted(t *testing.T) {
	t.Parallel()

	value, err := DoValue(t.Context(), 1, func(ctx context.Context) (int, error) {
		return 7, errTemporary
	})

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Zero(t, value)
}

func TestInvalidConfigIsShared(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ampErrors.ErrInvalidConfig)
	}()

	_ = Do(t.Context(), -3, func(context.Context) error { return nil })
}
