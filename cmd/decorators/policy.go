package main

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-decorators/decorate"
	"github.com/amp-labs/amp-decorators/policy"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
)

// sampleCall carries its own attempt counter: an attempt abandoned by a
// timeout may still be running when the next call starts.
type sampleCall struct {
	n        int
	attempts *atomic.Int64
}

func newPolicyCmd() *cobra.Command {
	var (
		file  string
		name  string
		fail  int
		calls int
	)

	cmd := demo("policy", "run a flaky function under a policy from a YAML file", func(cmd *cobra.Command, _ []string) error {
		var (
			doc *policy.Document
			err error
		)

		if file != "" {
			doc, err = policy.Load(file)
		} else {
			doc, err = policy.LoadFromEnv()
		}

		if err != nil {
			return err
		}

		p, err := doc.Get(name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		f := decorate.ApplyNamed(name, func(_ context.Context, c sampleCall) (string, error) {
			n := c.attempts.Inc()
			if n <= int64(fail) {
				return "", fmt.Errorf("attempt %d: %w", n, errUnavailable)
			}

			return fmt.Sprintf("call %d succeeded on attempt %d", c.n, n), nil
		}, policy.Build[sampleCall, string](p, policy.WithWriter(out)))

		for i := 1; i <= calls; i++ {
			result, err := f(cmd.Context(), sampleCall{n: i, attempts: atomic.NewInt64(0)})
			if err != nil {
				_, _ = fmt.Fprintf(out, "call %d: %v\n", i, err)

				continue
			}

			_, _ = fmt.Fprintln(out, result)
		}

		return nil
	})

	cmd.Flags().StringVar(&file, "file", "", "policy file (default $"+policy.FileEnvVar+")")
	cmd.Flags().StringVar(&name, "name", "default", "policy to apply")
	cmd.Flags().IntVar(&fail, "fail", 1, "attempts that fail per call before one succeeds")
	cmd.Flags().IntVar(&calls, "calls", 2, "calls to make")

	return cmd
}
