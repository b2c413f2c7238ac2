package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/typestripped/project"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default typestripped.yaml",
		Long: `Write a default typestripped.yaml.

If a directory is provided, it is created if needed and the configuration
is written there. Otherwise it is written to the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			path, err := project.WriteDefault(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successFmt("Created"), pathFmt(path))
			return nil
		},
	}
}
