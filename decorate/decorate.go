// Package decorate provides function wrappers (decorators) that add
// cross-cutting behavior around an arbitrary function: scoped working
// directories, deprecation and work-in-progress notices, error suppression,
// repetition, post-call delays, call limits and timeouts.
//
// Every decorator works on the same shape:
//
//	type Func[A, R any] func(ctx context.Context, args A) (R, error)
//
// and returns a replacement with the identical contract, so decorators stack:
//
//	fetch := decorate.Apply(fetchURL,
//	    decorate.Limit[string, []byte](100),
//	    decorate.Timeout[string, []byte](2*time.Second),
//	)
//
// The first decorator listed is the outermost one. Related decorators live in
// sibling packages: timing, retry, call (keyword arguments), typecheck and
// spans.
package decorate

import (
	"context"

	"github.com/amp-labs/amp-decorators/utils"
)

// Func is the function shape every decorator wraps.
type Func[A, R any] func(ctx context.Context, args A) (R, error)

// Unit stands in for "no arguments" or "no result".
type Unit struct{}

// Info describes the function being decorated. Closures lose their names
// once wrapped, so Apply captures the description from the original function
// and hands it to every decorator in the stack.
type Info struct {
	// Name is the short function name, e.g. "fetchURL" or "(*Client).Get".
	Name string
	// Location reads "fetchURL() in client.go, line 42".
	Location string
}

func (i Info) String() string {
	if i.Location != "" {
		return i.Location
	}

	return i.Name
}

// InfoOf describes f using the runtime symbol table.
func InfoOf[A, R any](f Func[A, R]) Info {
	return Info{
		Name:     utils.GetShortFunctionName(f),
		Location: utils.GetFunctionLocation(f),
	}
}

// Named describes a function by an explicit name. Use it for closures.
func Named(name string) Info {
	return Info{Name: name, Location: name + "()"}
}

// Decorator wraps next and returns a function with the same contract.
type Decorator[A, R any] func(next Func[A, R], info Info) Func[A, R]

// Chain composes decorators into one. Chain(d1, d2)(f) is d1 wrapping d2
// wrapping f. Nil decorators are skipped.
func Chain[A, R any](decorators ...Decorator[A, R]) Decorator[A, R] {
	return func(next Func[A, R], info Info) Func[A, R] {
		for i := len(decorators) - 1; i >= 0; i-- {
			if decorators[i] != nil {
				next = decorators[i](next, info)
			}
		}

		return next
	}
}

// Apply decorates f, describing it with InfoOf.
func Apply[A, R any](f Func[A, R], decorators ...Decorator[A, R]) Func[A, R] {
	return Chain(decorators...)(f, InfoOf(f))
}

// ApplyNamed decorates f under an explicit name.
func ApplyNamed[A, R any](name string, f Func[A, R], decorators ...Decorator[A, R]) Func[A, R] {
	return Chain(decorators...)(f, Named(name))
}

// Lift adapts a function that doesn't take a context.
func Lift[A, R any](fn func(A) (R, error)) Func[A, R] {
	return func(_ context.Context, args A) (R, error) {
		return fn(args)
	}
}

// LiftPlain adapts a function that can't fail.
func LiftPlain[A, R any](fn func(A) R) Func[A, R] {
	return func(_ context.Context, args A) (R, error) {
		return fn(args), nil
	}
}

// Action adapts a function with no arguments and no result.
func Action(fn func(ctx context.Context) error) Func[Unit, Unit] {
	return func(ctx context.Context, _ Unit) (Unit, error) {
		return Unit{}, fn(ctx)
	}
}
