// Package retry re-runs failing operations. A function decorated with
// retry.Decorator(n) gets its first attempt plus up to n retries; the first
// success is returned at once, and if every attempt fails the last failure
// is propagated, wrapped in ErrRetriesExhausted.
//
// Basic usage:
//
//	fetch := decorate.Apply(fetchURL, retry.Decorator[string, []byte](3))
//
// With spacing between attempts and a filter on what is worth retrying:
//
//	fetch := decorate.Apply(fetchURL, retry.Decorator[string, []byte](5,
//	    retry.WithExponentialBackoff(100*time.Millisecond, 5*time.Second),
//	    retry.WithRetryIf(isTransient),
//	))
//
// For one-off closures:
//
//	err := retry.Do(ctx, 3, func(ctx context.Context) error {
//	    return makeAPICall()
//	})
package retry

import (
	"context"
	"errors"
	"fmt"

	"github.com/amp-labs/amp-decorators/decorate"
	ampErrors "github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
	"github.com/amp-labs/amp-decorators/utils"
	"github.com/cenkalti/backoff/v5"
)

// Decorator retries the wrapped function up to retries times after its first
// attempt, so an always-failing function is called retries+1 times.
// Panics with errors.ErrInvalidConfig if retries < 0.
func Decorator[A, R any](retries int, opts ...Option) decorate.Decorator[A, R] {
	o := newOptions(retries, opts)

	return func(next decorate.Func[A, R], info decorate.Info) decorate.Func[A, R] {
		return func(ctx context.Context, args A) (R, error) {
			var out R

			err := do(ctx, retries, o, info, func(ctx context.Context) error {
				var err error

				out, err = next(ctx, args)

				return err
			})
			if err != nil {
				var zero R

				return zero, err
			}

			return out, nil
		}
	}
}

// Do runs f with the retry policy described by retries and opts.
func Do(ctx context.Context, retries int, f func(ctx context.Context) error, opts ...Option) error {
	return do(ctx, retries, newOptions(retries, opts), infoOf(f), f)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](
	ctx context.Context,
	retries int,
	f func(ctx context.Context) (T, error),
	opts ...Option,
) (T, error) {
	var out T

	err := do(ctx, retries, newOptions(retries, opts), infoOf(f), func(ctx context.Context) error {
		var err error

		out, err = f(ctx)

		return err
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return out, nil
}

func infoOf(f any) decorate.Info {
	return decorate.Info{
		Name:     utils.GetShortFunctionName(f),
		Location: utils.GetFunctionLocation(f),
	}
}

// do is the core retry loop. It returns:
//   - nil as soon as an attempt succeeds
//   - ctx.Err() if the context ends before or between attempts
//   - the unwrapped error of an Abort, or a failure rejected by WithRetryIf
//   - ErrRetriesExhausted joined with the last failure otherwise
func do(
	ctx context.Context,
	retries int,
	opts *options,
	info decorate.Info,
	operation func(ctx context.Context) error,
) error {
	bo := opts.backoff()
	bo.Reset()

	var (
		lastErr  error
		attempts int
	)

	for attemptIndex := 0; attemptIndex <= retries; attemptIndex++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attempts++

		attemptsTotal.WithLabelValues(info.Name, firstOrRetry(attemptIndex)).Inc()

		err := operation(withAttempt(ctx, uint(attemptIndex)))
		if err == nil {
			return nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}

		if opts.retryIf != nil && !opts.retryIf(err) {
			return err
		}

		lastErr = err

		if attemptIndex == retries {
			break
		}

		delay := bo.NextBackOff()
		if delay == backoff.Stop {
			break
		}

		logger.Get(ctx).Debug("retrying after failure",
			"function", info.Name,
			"attempt", attemptIndex+1,
			"delay", delay,
			"error", err)

		if opts.onRetry != nil {
			opts.onRetry(attemptIndex+1, err)
		}

		if _, err := utils.Wait(ctx, delay); err != nil {
			return err
		}
	}

	exhaustedTotal.WithLabelValues(info.Name).Inc()

	return logger.AnnotateError(
		fmt.Errorf("%w: %s failed after %d attempts: %w", ErrRetriesExhausted, info, attempts, lastErr),
		"function", info.Name, "attempts", attempts)
}

func firstOrRetry(attemptIndex int) string {
	if attemptIndex == 0 {
		return "first"
	}

	return "retry"
}

func mustNonNegative(retries int) {
	if retries < 0 {
		panic(ampErrors.InvalidConfig("retry count must be >= 0, got %d", retries))
	}
}
