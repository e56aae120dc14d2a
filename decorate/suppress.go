package decorate

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/amp-labs/amp-decorators/logger"
	"github.com/amp-labs/amp-decorators/utils"
)

// Suppress swallows every failure of the wrapped function, errors and panics
// alike, and returns fallback with a nil error instead. With WithReport the
// swallowed failure is printed (panics with their stack trace) and logged.
func Suppress[A, R any](fallback R, opts ...Option) Decorator[A, R] {
	o := newOptions(options{}, opts)

	return func(next Func[A, R], info Info) Func[A, R] {
		return func(ctx context.Context, args A) (out R, err error) {
			defer func() {
				if p := recover(); p != nil {
					observeOutcome("suppress", info, outcomePanic)
					o.swallowed(ctx, info, utils.GetPanicRecoveryError(p, debug.Stack()))

					out, err = fallback, nil
				}
			}()

			out, err = next(ctx, args)
			if err != nil {
				observeOutcome("suppress", info, outcomeSuppressed)
				o.swallowed(ctx, info, err)

				return fallback, nil
			}

			observe("suppress", info, nil)

			return out, nil
		}
	}
}

func (o *options) swallowed(ctx context.Context, info Info, err error) {
	if !o.report {
		return
	}

	_, _ = fmt.Fprintf(o.writer, "Suppressed failure in %s: %v\n", info, err)

	logger.Get(ctx).Warn("suppressed failure", "function", info.Name, "error", err)
}
