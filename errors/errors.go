// Package errors defines the error taxonomy shared by every decorator, along
// with a small collector for joining several failures into one.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeContract is returned when a call violates a declared contract:
	// a mismatched argument or return type, or a missing keyword argument.
	ErrTypeContract = errors.New("type contract violation")

	// ErrRuntimeLimit is the parent of every bound a decorator can enforce.
	ErrRuntimeLimit = errors.New("runtime limit exceeded")

	// ErrCallLimitExceeded is returned once a function has been called more
	// times than its limiter allows.
	ErrCallLimitExceeded = fmt.Errorf("%w: call limit", ErrRuntimeLimit)

	// ErrTimeout is returned when a function overruns its time budget.
	ErrTimeout = fmt.Errorf("%w: timeout", ErrRuntimeLimit)

	ErrDeprecated     = errors.New("deprecated")
	ErrWorkInProgress = errors.New("work in progress")

	// ErrInvalidConfig is raised (as a panic) when a decorator is built with
	// a count or interval it cannot honour.
	ErrInvalidConfig = errors.New("invalid decorator configuration")

	// ErrPanicRecovery wraps a value recovered from a panic.
	ErrPanicRecovery = errors.New("recovered from panic")
)

// Is, As, Join and Unwrap mirror the standard library so callers don't have to
// import both packages.
var (
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Unwrap = errors.Unwrap
	New    = errors.New
)

// Collection is a thread-unsafe utility for accumulating multiple errors.
// It provides methods to add errors, check for errors, and retrieve them as a single combined error.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}

// InvalidConfig formats a configuration error. Decorator constructors panic
// with it since a bad count or interval is a programming error.
func InvalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
