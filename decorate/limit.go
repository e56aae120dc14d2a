package decorate

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
	"go.uber.org/atomic"
)

// Limiter counts calls to one wrapped function and rejects every call after
// the first max. The counter starts at zero and only ever increases;
// rejected calls are counted too.
type Limiter[A, R any] struct {
	max   uint64
	calls *atomic.Uint64
}

// NewLimiter returns a Limiter allowing max calls. Use its Decorator to wrap
// exactly one function; wrapping a second function would share the counter.
// Panics with errors.ErrInvalidConfig if max < 0.
func NewLimiter[A, R any](max int) *Limiter[A, R] { //nolint:predeclared
	if max < 0 {
		panic(errors.InvalidConfig("call limit must be >= 0, got %d", max))
	}

	return &Limiter[A, R]{
		max:   uint64(max),
		calls: atomic.NewUint64(0),
	}
}

// Calls returns how many times the wrapped function has been called,
// including rejected calls.
func (l *Limiter[A, R]) Calls() uint64 {
	return l.calls.Load()
}

// Remaining returns how many more calls will be let through.
func (l *Limiter[A, R]) Remaining() uint64 {
	calls := l.calls.Load()
	if calls >= l.max {
		return 0
	}

	return l.max - calls
}

// Decorator returns the decorator enforcing this limiter.
func (l *Limiter[A, R]) Decorator() Decorator[A, R] {
	return func(next Func[A, R], info Info) Func[A, R] {
		return func(ctx context.Context, args A) (R, error) {
			if call := l.calls.Inc(); call > l.max {
				observeOutcome("limit", info, outcomeRejected)

				logger.Get(ctx).Debug("call limit exceeded",
					"function", info.Name, "limit", l.max, "call", call)

				var zero R

				return zero, logger.AnnotateError(
					fmt.Errorf("%w: %s exceeds maximum run of %d times", errors.ErrCallLimitExceeded, info, l.max),
					"function", info.Name, "limit", l.max)
			}

			out, err := next(ctx, args)

			observe("limit", info, err)

			return out, err
		}
	}
}

// Limit allows max calls to each function it wraps; every application gets
// its own counter. Call max+1 and later fail with an error wrapping
// errors.ErrCallLimitExceeded without reaching the function.
func Limit[A, R any](max int) Decorator[A, R] { //nolint:predeclared
	if max < 0 {
		panic(errors.InvalidConfig("call limit must be >= 0, got %d", max))
	}

	return func(next Func[A, R], info Info) Func[A, R] {
		return NewLimiter[A, R](max).Decorator()(next, info)
	}
}
