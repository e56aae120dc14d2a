package main

import (
	"fmt"

	"github.com/amp-labs/amp-decorators/build"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := build.Current()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, commit %s)\n",
				appName, build.Version(), info.GoVersion, orUnknown(info.GitCommit))

			return nil
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
