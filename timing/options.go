package timing

import (
	"io"
	"time"

	"github.com/amp-labs/amp-decorators/errors"
)

// Option configures a Timer.
type Option func(*options)

type options struct {
	writer      io.Writer
	unit        time.Duration
	times       int
	splitBefore bool
	splitAfter  bool
	activate    *bool
	quiet       bool
}

// WithActivate turns the timer on or off regardless of the environment.
func WithActivate(active bool) Option {
	return func(o *options) {
		o.activate = &active
	}
}

// WithWriter sends the timing lines to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithUnit sets the unit measurements are printed in. The default is
// milliseconds.
func WithUnit(unit time.Duration) Option {
	if unit <= 0 {
		panic(errors.InvalidConfig("timing unit must be positive, got %s", unit))
	}

	return func(o *options) {
		o.unit = unit
	}
}

// WithTimes runs the function n times per call and reports the total, for
// benchmarking short functions. The last result is returned.
func WithTimes(n int) Option {
	mustPositive(n)

	return func(o *options) {
		o.times = n
	}
}

// WithSplitBefore prints a numbered separator before each timing line.
func WithSplitBefore() Option {
	return func(o *options) {
		o.splitBefore = true
	}
}

// WithSplitAfter prints a numbered separator after each timing line.
func WithSplitAfter() Option {
	return func(o *options) {
		o.splitAfter = true
	}
}

// WithQuiet records measurements without printing them. Read them back with
// Last, Total and Runs.
func WithQuiet() Option {
	return func(o *options) {
		o.quiet = true
	}
}
