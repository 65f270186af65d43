package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pwf/internal/scaffold"
)

func newInitCommand() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:         "init PATH",
		Short:       "Create a fresh archive tree",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			if err := scaffold.Init(root, !bare); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created archive at %s\n", root)
			fmt.Fprintf(out, "Point PWF_ROOT or root_dir in the config file at it to get started.\n")
			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "Skip the sorting template and example event")
	return cmd
}
