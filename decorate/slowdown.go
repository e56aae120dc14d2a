package decorate

import (
	"context"
	"time"

	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
	"github.com/amp-labs/amp-decorators/utils"
)

// SlowDown waits for delay after the function returns, then hands back its
// result. The wait ends early if ctx is done, in which case ctx.Err() is
// returned alongside the result (unless the function already failed).
func SlowDown[A, R any](delay time.Duration) Decorator[A, R] {
	if delay <= 0 {
		panic(errors.InvalidConfig("slow down delay must be positive, got %s", delay))
	}

	return func(next Func[A, R], info Info) Func[A, R] {
		return func(ctx context.Context, args A) (R, error) {
			out, err := next(ctx, args)

			waited, waitErr := utils.Wait(ctx, delay)
			if waitErr != nil && err == nil {
				err = waitErr
			}

			logger.Get(ctx).Debug("slowed down", "function", info.Name, "waited", waited)

			observe("slow_down", info, err)

			return out, err
		}
	}
}
