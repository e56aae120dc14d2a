package utils

import (
	"context"
	"time"
)

// Wait pauses for dur unless ctx finishes first. It reports how long it
// actually waited, and ctx.Err() if the pause was interrupted.
func Wait(ctx context.Context, dur time.Duration) (time.Duration, error) {
	if dur <= 0 {
		return 0, nil
	}

	start := time.Now()
	timer := time.NewTimer(dur)

	defer timer.Stop()

	select {
	case <-timer.C:
		return time.Since(start), nil
	case <-ctx.Done():
		return time.Since(start), ctx.Err()
	}
}
