package decorate

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
	"github.com/amp-labs/amp-decorators/utils"
)

const defaultTimeoutMessage = "function call timed out"

// Timeout gives each call a time budget of d. The function runs on its own
// goroutine with a context that is cancelled at the deadline; if it hasn't
// returned by then the wrapper fails with an error wrapping
// errors.ErrTimeout and the configured message (WithMessage). A function
// that ignores its context keeps running in the background and its late
// result is discarded.
//
// A panic in the function is re-raised on the caller's goroutine. If the
// caller's own context ends first, its error is returned unchanged.
func Timeout[A, R any](d time.Duration, opts ...Option) Decorator[A, R] {
	if d <= 0 {
		panic(errors.InvalidConfig("timeout must be positive, got %s", d))
	}

	o := newOptions(options{message: defaultTimeoutMessage}, opts)

	return func(next Func[A, R], info Info) Func[A, R] {
		return func(parent context.Context, args A) (R, error) {
			ctx, cancel := context.WithTimeout(parent, d)
			defer cancel()

			done := make(chan timeoutResult[R], 1)

			go func() {
				var res timeoutResult[R]

				defer func() {
					if p := recover(); p != nil {
						res.panicked = true
						res.panicVal = p
						res.panicErr = utils.GetPanicRecoveryError(p, debug.Stack())
					}

					done <- res
				}()

				res.val, res.err = next(ctx, args)
			}()

			select {
			case res := <-done:
				if res.err == nil || ctx.Err() == nil {
					return res.unwrap(ctx, info)
				}
				// Failed because our deadline cancelled it: report the timeout.
			case <-ctx.Done():
			}

			var zero R

			if err := parent.Err(); err != nil {
				return zero, err
			}

			observeOutcome("timeout", info, outcomeTimeout)

			logger.Get(ctx).Warn("function call timed out", "function", info.Name, "timeout", d)

			return zero, logger.AnnotateError(
				fmt.Errorf("%w: %s: %s", errors.ErrTimeout, info, o.message),
				"function", info.Name, "timeout", d)
		}
	}
}

type timeoutResult[R any] struct {
	val      R
	err      error
	panicked bool
	panicVal any
	panicErr error
}

func (r timeoutResult[R]) unwrap(ctx context.Context, info Info) (R, error) {
	if r.panicked {
		observeOutcome("timeout", info, outcomePanic)
		logger.Get(ctx).Error("panic in function under timeout", "function", info.Name, "error", r.panicErr)

		panic(r.panicVal)
	}

	observe("timeout", info, r.err)

	return r.val, r.err
}
