package retry

import "context"

type ctxKey string

// attemptKey is the context key used to store and retrieve the current attempt number.
const attemptKey ctxKey = "attempt"

func withAttempt(ctx context.Context, attempt uint) context.Context {
	return context.WithValue(ctx, attemptKey, attempt)
}

// Attempt returns the zero-based attempt number stored in the context by
// the retry loop, or 0 outside of it.
func Attempt(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}

	attempt, _ := ctx.Value(attemptKey).(uint)

	return attempt
}
