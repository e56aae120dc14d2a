package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/amp-labs/amp-decorators/call"
	"github.com/amp-labs/amp-decorators/decorate"
	"github.com/amp-labs/amp-decorators/retry"
	"github.com/amp-labs/amp-decorators/spans"
	"github.com/amp-labs/amp-decorators/timing"
	"github.com/amp-labs/amp-decorators/typecheck"
	"github.com/spf13/cobra"
)

var (
	errUnavailable = errors.New("service unavailable")
	errBadFlag     = errors.New("bad flag")
)

// sumTo adds 1..n the slow way so there is something to time.
func sumTo(_ context.Context, n int) (int, error) {
	total := 0
	for i := 1; i <= n; i++ {
		total += i
	}

	return total, nil
}

// nap sleeps for d unless ctx ends first.
func nap(ctx context.Context, d time.Duration) (time.Duration, error) {
	select {
	case <-time.After(d):
		return d, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func newChdirCmd() *cobra.Command {
	var dir string

	cmd := demo("chdir", "run a function inside another working directory", func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		where := decorate.Apply(decorate.Action(func(context.Context) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "inside:  %s\n", wd)

			return nil
		}), decorate.InDir[decorate.Unit, decorate.Unit](dir))

		_, err := where(cmd.Context(), decorate.Unit{})

		wd, _ := os.Getwd()
		_, _ = fmt.Fprintf(out, "after:   %s\n", wd)

		return err
	})

	cmd.Flags().StringVar(&dir, "dir", os.TempDir(), "directory to run in")

	return cmd
}

func newTimingCmd() *cobra.Command {
	var (
		n     int
		times int
		split bool
	)

	cmd := demo("timing", "print how long a function takes", func(cmd *cobra.Command, _ []string) error {
		if times < 1 {
			return fmt.Errorf("%w: --times must be >= 1, got %d", errBadFlag, times)
		}

		opts := []timing.Option{
			timing.WithActivate(true),
			timing.WithWriter(cmd.OutOrStdout()),
			timing.WithTimes(times),
		}
		if split {
			opts = append(opts, timing.WithSplitAfter())
		}

		timer := timing.New(opts...)
		f := decorate.Apply(sumTo, spans.Traced[int, int](), timing.Timed[int, int](timer))

		total, err := f(cmd.Context(), n)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sum = %d, runs = %d, total = %s\n", total, timer.Runs(), timer.Total())

		return nil
	})

	cmd.Flags().IntVar(&n, "n", 10_000_000, "add up 1..n")
	cmd.Flags().IntVar(&times, "times", 1, "runs per call")
	cmd.Flags().BoolVar(&split, "split", false, "print a separator after each call")

	return cmd
}

func newDeprecatedCmd() *cobra.Command {
	var printOnly bool

	cmd := demo("deprecated", "warn about or refuse a deprecated function", func(cmd *cobra.Command, _ []string) error {
		opts := []decorate.Option{decorate.WithWriter(cmd.OutOrStdout())}
		if printOnly {
			opts = append(opts, decorate.WithPrintOnly())
		}

		f := decorate.Apply(sumTo, decorate.Deprecated[int, int]("use sumFormula instead", opts...))

		total, err := f(cmd.Context(), 100)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sum = %d\n", total)

		return nil
	})

	cmd.Flags().BoolVar(&printOnly, "print-only", false, "warn and call through instead of failing")

	return cmd
}

func newSuppressCmd() *cobra.Command {
	return demo("suppress", "swallow a panicking function's failure", func(cmd *cobra.Command, _ []string) error {
		explode := decorate.ApplyNamed("explode", func(context.Context, int) (string, error) {
			panic("kaboom")
		}, decorate.Suppress[int, string]("fallback", decorate.WithReport(), decorate.WithWriter(cmd.OutOrStdout())))

		out, err := explode(cmd.Context(), 0)

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "result = %q\n", out)

		return err
	})
}

func newRepeatCmd() *cobra.Command {
	var n int

	cmd := demo("repeat", "call a function several times per call", func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		greet := decorate.ApplyNamed("greet", func(_ context.Context, name string) (string, error) {
			_, _ = fmt.Fprintf(out, "hello, %s\n", name)

			return name, nil
		}, decorate.Repeat[string, string](n))

		_, err := greet(cmd.Context(), "world")

		return err
	})

	cmd.Flags().IntVar(&n, "n", 3, "calls per call")

	return cmd
}

func newSlowDownCmd() *cobra.Command {
	var delay time.Duration

	cmd := demo("slow-down", "pause after each call", func(cmd *cobra.Command, _ []string) error {
		f := decorate.Apply(sumTo, decorate.SlowDown[int, int](delay))

		start := time.Now()

		_, err := f(cmd.Context(), 10)

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "returned after %s\n", time.Since(start).Round(time.Millisecond))

		return err
	})

	cmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "pause after the call")

	return cmd
}

func newRetryCmd() *cobra.Command {
	var (
		retries int
		fail    int
		backoff time.Duration
	)

	cmd := demo("retry", "re-run a flaky function", func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		attempts := 0

		fetch := decorate.ApplyNamed("fetch", func(ctx context.Context, key string) (string, error) {
			attempts++

			_, _ = fmt.Fprintf(out, "attempt %d\n", retry.Attempt(ctx)+1)

			if attempts <= fail {
				return "", errUnavailable
			}

			return "value of " + key, nil
		}, retry.Decorator[string, string](retries, retry.WithConstantBackoff(backoff)))

		value, err := fetch(cmd.Context(), "answer")
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(out, value)

		return nil
	})

	cmd.Flags().IntVar(&retries, "retries", 3, "retries after the first attempt")
	cmd.Flags().IntVar(&fail, "fail", 2, "attempts that fail before one succeeds")
	cmd.Flags().DurationVar(&backoff, "backoff", 100*time.Millisecond, "wait between attempts")

	return cmd
}

func newLimitCmd() *cobra.Command {
	var (
		maxCalls int
		calls    int
	)

	cmd := demo("limit", "refuse calls past a limit", func(cmd *cobra.Command, _ []string) error {
		limiter := decorate.NewLimiter[int, int](maxCalls)
		f := decorate.Apply(sumTo, limiter.Decorator())

		for i := 1; i <= calls; i++ {
			total, err := f(cmd.Context(), i)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "call %d: sum = %d, %d left\n", i, total, limiter.Remaining())
		}

		return nil
	})

	cmd.Flags().IntVar(&maxCalls, "max", 3, "calls allowed")
	cmd.Flags().IntVar(&calls, "calls", 5, "calls to make")

	return cmd
}

func newTimeoutCmd() *cobra.Command {
	var sleep, budget time.Duration

	cmd := demo("timeout", "abandon a call that runs too long", func(cmd *cobra.Command, _ []string) error {
		f := decorate.Apply(nap, decorate.Timeout[time.Duration, time.Duration](budget))

		slept, err := f(cmd.Context(), sleep)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "slept %s\n", slept)

		return nil
	})

	cmd.Flags().DurationVar(&sleep, "sleep", 2*time.Second, "how long the function sleeps")
	cmd.Flags().DurationVar(&budget, "budget", time.Second, "time allowed")

	return cmd
}

// describe echoes the arguments it was called with.
func describe(_ context.Context, args call.Args) (string, error) {
	return args.String(), nil
}

// parseArgs turns command line words into positional arguments, keeping
// integers as ints.
func parseArgs(words []string) call.Args {
	values := make([]any, len(words))

	for i, w := range words {
		if n, err := strconv.Atoi(w); err == nil {
			values[i] = n
		} else {
			values[i] = w
		}
	}

	return call.Positional(values...)
}

func newOverrideCmd() *cobra.Command {
	return demo("override [args...]", "force argument values", func(cmd *cobra.Command, args []string) error {
		f := decorate.Apply(describe, call.Override[string]([]any{"Cat", "male"}, map[string]any{"k1": "0"}))

		got, err := f(cmd.Context(), parseArgs(args).With("k1", "caller"))
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "called with %s\n", got)

		return nil
	})
}

func newRequireCmd() *cobra.Command {
	var withA bool

	cmd := demo("require", "insist on keyword arguments", func(cmd *cobra.Command, _ []string) error {
		f := decorate.Apply(describe, call.Require[string]("a"))

		args := call.Args{}
		if withA {
			args = args.With("a", 10)
		}

		got, err := f(cmd.Context(), args)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "called with %s\n", got)

		return nil
	})

	cmd.Flags().BoolVar(&withA, "with-a", false, "pass the required keyword")

	return cmd
}

func newAcceptsCmd() *cobra.Command {
	var warn bool

	cmd := demo("accepts [args...]", "check argument types (expects two ints)", func(cmd *cobra.Command, args []string) error {
		opts := []typecheck.Option{typecheck.WithWriter(cmd.OutOrStdout())}
		if warn {
			opts = append(opts, typecheck.WithLevel(typecheck.Warn))
		}

		f := decorate.Apply(describe, typecheck.Accepts[string]([]typecheck.Tag{typecheck.Int, typecheck.Int}, opts...))

		got, err := f(cmd.Context(), parseArgs(args))
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "called with %s\n", got)

		return nil
	})

	cmd.Flags().BoolVar(&warn, "warn", false, "warn instead of failing")

	return cmd
}

func newReturnsCmd() *cobra.Command {
	var n int

	cmd := demo("returns", "check the result type (expects an int)", func(cmd *cobra.Command, _ []string) error {
		half := decorate.ApplyNamed("half", func(_ context.Context, n int) (any, error) {
			if n%2 == 0 {
				return n / 2, nil
			}

			return float64(n) / 2, nil //nolint:mnd
		}, typecheck.Returns[int, any](typecheck.Int))

		got, err := half(cmd.Context(), n)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "half of %d is %v\n", n, got)

		return nil
	})

	cmd.Flags().IntVar(&n, "n", 3, "number to halve; odd numbers give a float")

	return cmd
}

func newWIPCmd() *cobra.Command {
	var block bool

	cmd := demo("wip", "flag an unfinished function", func(cmd *cobra.Command, _ []string) error {
		opts := []decorate.Option{decorate.WithWriter(cmd.OutOrStdout())}
		if block {
			opts = append(opts, decorate.WithBlock())
		}

		f := decorate.Apply(sumTo, decorate.WIP[int, int]("", opts...))

		total, err := f(cmd.Context(), 10)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sum = %d\n", total)

		return nil
	})

	cmd.Flags().BoolVar(&block, "block", false, "fail instead of calling through")

	return cmd
}
