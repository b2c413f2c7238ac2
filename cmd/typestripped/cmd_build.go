package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/typestripped/codebase"
	"github.com/dhamidi/typestripped/project"
)

// projectFlags are the flags shared by commands that work on a project.
type projectFlags struct {
	config        string
	jobs          int
	recoverErrors bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", project.FileName, "project configuration file")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "number of files transpiled in parallel (default from config)")
	cmd.Flags().BoolVar(&f.recoverErrors, "recover", false, "write files with malformed statements copied through")
}

func (f *projectFlags) load(cmd *cobra.Command) (*project.Config, error) {
	cfg, err := project.LoadFile(f.config)
	if err != nil {
		return nil, err
	}
	if f.jobs > 0 {
		cfg.Jobs = f.jobs
	}
	if cmd.Flags().Changed("recover") {
		cfg.Recover = f.recoverErrors
	}
	return cfg, nil
}

func newBuildCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Transpile every source file of the project",
		Long: `Transpile every source file of the project into the output directory.

Sources, output directory and extension are read from typestripped.yaml;
see "typestripped init".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			rep := &reporter{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			return build(cmd.Context(), codebase.New(cfg), rep)
		},
	}

	flags.register(cmd)
	return cmd
}

// build transpiles all sources of cb with at most Jobs files in flight.
// Files that fail to parse are reported and counted; I/O errors stop the
// build.
func build(ctx context.Context, cb *codebase.Codebase, rep *reporter) error {
	cfg := cb.Config()
	files, err := cfg.SourceFiles()
	if err != nil {
		return err
	}

	var failed atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Jobs, 1))
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := cb.ScanFile(file)
			if err != nil {
				return err
			}
			ok, err := writeOutput(cfg, info, rep)
			if !ok {
				failed.Add(1)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(files))
	}
	return nil
}
