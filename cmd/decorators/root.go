package main

import (
	"fmt"

	"github.com/amp-labs/amp-decorators/cli"
	"github.com/amp-labs/amp-decorators/logger"
	"github.com/amp-labs/amp-decorators/shutdown"
	"github.com/amp-labs/amp-decorators/telemetry"
	"github.com/spf13/cobra"
)

const (
	appName = "decorators"

	// demoAnnotation marks the commands pick offers.
	demoAnnotation = "demo"
)

var environment string //nolint:gochecknoglobals

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Run sample functions under the function decorators",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.ConfigureLogging(appName, logger.WithOutput(cmd.ErrOrStderr()))

			ctx := cmd.Context()

			config, err := telemetry.LoadConfigFromEnv(ctx, environment)
			if err != nil {
				return err
			}

			if err := telemetry.Initialize(ctx, config); err != nil {
				return err
			}

			shutdown.BeforeShutdown("telemetry", telemetry.Shutdown)

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return shutdown.RunHooks(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&environment, "environment", "local",
		"deployment environment reported to OpenTelemetry")

	root.AddCommand(
		newChdirCmd(),
		newTimingCmd(),
		newDeprecatedCmd(),
		newSuppressCmd(),
		newRepeatCmd(),
		newSlowDownCmd(),
		newRetryCmd(),
		newLimitCmd(),
		newTimeoutCmd(),
		newOverrideCmd(),
		newRequireCmd(),
		newAcceptsCmd(),
		newReturnsCmd(),
		newWIPCmd(),
		newPolicyCmd(),
	)

	root.AddCommand(newPickCmd(root), newVersionCmd())

	return root
}

// demo builds a subcommand pick can offer. run's error is printed as the
// demo's outcome rather than failing the command, except for bad flags.
func demo(use, short string, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:         use,
		Short:       short,
		Annotations: map[string]string{demoAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, _ = fmt.Fprint(out, cli.Banner(cmd.Name()+": "+short, cli.DefaultWidth, cli.AlignCenter))

			if err := run(cmd, args); err != nil {
				_, _ = fmt.Fprintf(out, "error: %v\n", err)
			}

			_, _ = fmt.Fprint(out, cli.Divider(cli.DefaultWidth))

			return nil
		},
	}
}
