package main

import (
	"fmt"
	"os"

	"github.com/amp-labs/amp-decorators/cli"
	"github.com/spf13/cobra"
)

func newPickCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a demo interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var choices []cli.Choice

			byName := map[string]*cobra.Command{}

			for _, sub := range root.Commands() {
				if sub.Annotations[demoAnnotation] == "" {
					continue
				}

				choices = append(choices, cli.Choice{Name: sub.Name(), Description: sub.Short})
				byName[sub.Name()] = sub
			}

			name, err := cli.Pick("Demo", choices, os.Stdin, os.Stdout)
			if err != nil {
				return err
			}

			sub, ok := byName[name]
			if !ok {
				return fmt.Errorf("unknown demo %q", name) //nolint:err113
			}

			sub.SetContext(cmd.Context())
			sub.SetOut(cmd.OutOrStdout())

			return sub.RunE(sub, nil)
		},
	}
}
