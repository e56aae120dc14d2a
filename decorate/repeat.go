package decorate

import (
	"context"

	"github.com/amp-labs/amp-decorators/errors"
)

// Repeat calls the function n times in sequence for every call of the
// wrapper and returns the last result. The first error stops the sequence.
// Panics with errors.ErrInvalidConfig if n < 1.
func Repeat[A, R any](n int) Decorator[A, R] {
	mustPositive("repeat count", n)

	return func(next Func[A, R], info Info) Func[A, R] {
		all := RepeatAll(next, n)

		return func(ctx context.Context, args A) (R, error) {
			var zero R

			results, err := all(ctx, args)

			observe("repeat", info, err)

			if err != nil {
				return zero, err
			}

			return results[len(results)-1], nil
		}
	}
}

// RepeatAll is Repeat returning every result, in call order. On error the
// results gathered so far are returned with it.
func RepeatAll[A, R any](f Func[A, R], n int) Func[A, []R] {
	mustPositive("repeat count", n)

	return func(ctx context.Context, args A) ([]R, error) {
		results := make([]R, 0, n)

		for range n {
			out, err := f(ctx, args)
			if err != nil {
				return results, err
			}

			results = append(results, out)
		}

		return results, nil
	}
}

func mustPositive(what string, n int) {
	if n < 1 {
		panic(errors.InvalidConfig("%s must be >= 1, got %d", what, n))
	}
}
