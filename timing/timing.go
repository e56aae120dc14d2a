// Package timing measures how long decorated functions take and prints the
// result, one line per call:
//
//	Runtime of crop                            146.19160 ms
//	Runtime of x3 remove_text                 3316.30707 ms
//
// A Timer can be shared between several functions so their lines interleave
// with a numbered separator, which is handy for profiling a pipeline by eye:
//
//	t := timing.New()
//	crop := decorate.Apply(crop, timing.Timed[Image, Image](t))
//	flow := decorate.Apply(fullFlow, timing.Timed[Image, Image](timing.New(timing.WithSplitAfter())))
//
// Every measurement is also recorded in a Prometheus histogram and logged at
// debug level.
package timing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amp-labs/amp-decorators/decorate"
	"github.com/amp-labs/amp-decorators/envutil"
	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
	"go.uber.org/atomic"
)

// DisabledEnvVar turns off every Timer not explicitly activated with WithActivate.
const DisabledEnvVar = "DECORATORS_TIMING_DISABLED"

const (
	separatorWidth = 54
	nameWidth      = 30
)

// Timer holds the configuration and accumulated measurements of one or more
// timed functions. It is safe for concurrent use. By default every call
// prints a line; WithQuiet only accumulates.
type Timer struct {
	opts *options

	separators *atomic.Int64
	runs       *atomic.Int64
	last       *atomic.Duration
	total      *atomic.Duration
}

// New creates a Timer.
func New(opts ...Option) *Timer {
	o := &options{
		writer: os.Stdout,
		unit:   time.Millisecond,
		times:  1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.activate == nil {
		active := !envutil.Bool(DisabledEnvVar, envutil.Default(false)).ValueOrElse(false)
		o.activate = &active
	}

	return &Timer{
		opts:       o,
		separators: atomic.NewInt64(0),
		runs:       atomic.NewInt64(0),
		last:       atomic.NewDuration(0),
		total:      atomic.NewDuration(0),
	}
}

// Active reports whether the timer wraps functions at all.
func (t *Timer) Active() bool {
	return *t.opts.activate
}

// Last returns the most recent measurement.
func (t *Timer) Last() time.Duration {
	return t.last.Load()
}

// Total returns the sum of all measurements.
func (t *Timer) Total() time.Duration {
	return t.total.Load()
}

// Runs returns how many calls have been measured.
func (t *Timer) Runs() int64 {
	return t.runs.Load()
}

// Timed prints the running time of each call and returns the function's
// result unchanged. When the timer is inactive the function is returned
// as-is.
func Timed[A, R any](t *Timer) decorate.Decorator[A, R] {
	return func(next decorate.Func[A, R], info decorate.Info) decorate.Func[A, R] {
		if !t.Active() {
			return next
		}

		return func(ctx context.Context, args A) (R, error) {
			out, _, err := run(ctx, t, info, next, args)

			return out, err
		}
	}
}

// Measure returns a function reporting the elapsed time instead of f's
// result. f's error, if any, is still returned. An inactive timer measures
// anyway but prints nothing.
func Measure[A, R any](t *Timer, f decorate.Func[A, R]) decorate.Func[A, time.Duration] {
	info := decorate.InfoOf(f)

	return func(ctx context.Context, args A) (time.Duration, error) {
		_, elapsed, err := run(ctx, t, info, f, args)

		return elapsed, err
	}
}

// run calls f the configured number of times and records the total.
// The repetitions stop at the first error.
func run[A, R any](
	ctx context.Context,
	t *Timer,
	info decorate.Info,
	f decorate.Func[A, R],
	args A,
) (R, time.Duration, error) {
	var (
		out R
		err error
	)

	start := time.Now()

	for range t.opts.times {
		out, err = f(ctx, args)
		if err != nil {
			break
		}
	}

	elapsed := time.Since(start)

	t.record(ctx, info, elapsed, err)

	return out, elapsed, err
}

func (t *Timer) record(ctx context.Context, info decorate.Info, elapsed time.Duration, err error) {
	t.runs.Inc()
	t.last.Store(elapsed)
	t.total.Add(elapsed)

	durationMillis.WithLabelValues(info.Name, hasError(err)).
		Observe(float64(elapsed) / float64(time.Millisecond))

	logger.Get(ctx).Debug("function timed",
		"function", info.Name,
		"times", t.opts.times,
		"elapsed", elapsed,
		"error", err)

	if !t.Active() || t.opts.quiet {
		return
	}

	w := t.opts.writer

	if t.opts.splitBefore {
		t.printSeparator(w)
	}

	t.printLine(w, info.Name, elapsed)

	if t.opts.splitAfter {
		t.printSeparator(w)
	}
}

func hasError(err error) string {
	if err != nil {
		return "true"
	}

	return "false"
}

// String renders a duration the way the timer prints it, e.g. "146.19160 ms".
func (t *Timer) String() string {
	return t.format(t.Last())
}

func (t *Timer) format(elapsed time.Duration) string {
	return fmt.Sprintf("%.5f %s", float64(elapsed)/float64(t.opts.unit), unitLabel(t.opts.unit))
}

func (t *Timer) printLine(w io.Writer, name string, elapsed time.Duration) {
	times := ""
	if t.opts.times > 1 {
		times = fmt.Sprintf("x%d ", t.opts.times)
	}

	_, _ = fmt.Fprintf(w, "Runtime of %s%-*s%10.5f %s\n",
		times, nameWidth, name, float64(elapsed)/float64(t.opts.unit), unitLabel(t.opts.unit))
}

func (t *Timer) printSeparator(w io.Writer) {
	n := t.separators.Inc() - 1

	_, _ = fmt.Fprintln(w, center(fmt.Sprintf(" %d ", n), separatorWidth, '#'))
}

func center(s string, width int, fill rune) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}

	left := pad / 2

	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), pad-left)
}

func unitLabel(unit time.Duration) string {
	switch unit {
	case time.Nanosecond:
		return "ns"
	case time.Microsecond:
		return "µs"
	case time.Millisecond:
		return "ms"
	case time.Second:
		return "s"
	case time.Minute:
		return "min"
	default:
		return "x" + unit.String()
	}
}

func mustPositive(n int) {
	if n < 1 {
		panic(errors.InvalidConfig("timing repetitions must be >= 1, got %d", n))
	}
}
