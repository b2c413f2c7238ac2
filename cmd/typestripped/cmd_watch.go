package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/typestripped/codebase"
)

func newWatchCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build the project, then transpile files again when they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rep := &reporter{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			cb := codebase.New(cfg)
			if err := build(ctx, cb, rep); err != nil {
				printError(cmd.ErrOrStderr(), err)
			}

			w, err := codebase.NewWatcher(cb)
			if err != nil {
				return err
			}
			defer w.Close()
			w.OnChange = func(info *codebase.FileInfo) {
				if _, err := writeOutput(cfg, info, rep); err != nil {
					printError(cmd.ErrOrStderr(), err)
				}
			}
			w.OnRemove = func(path string) {
				dst := cfg.OutputPath(path)
				if err := os.Remove(dst); err == nil {
					rep.removed(dst)
				}
			}

			log.Noticef("watching %s", cfg.SrcDir())
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
