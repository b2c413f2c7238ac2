package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/typestripped/format"
	"github.com/dhamidi/typestripped/project"
	"github.com/dhamidi/typestripped/strip"
)

func newCheckCmd() *cobra.Command {
	var outputFormat string
	var recoverErrors bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report files that cannot be transpiled",
		Long: `Report files that cannot be transpiled, without writing any output.

Without arguments all sources of the project in the current directory are
checked. With --recover every malformed statement is reported, not only
the first one of each file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				cfg, err := project.Load()
				if err != nil {
					return err
				}
				if files, err = cfg.SourceFiles(); err != nil {
					return err
				}
			}

			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			failed := 0
			for _, file := range files {
				failures, err := checkFile(file, recoverErrors)
				if err != nil {
					return err
				}
				for _, perr := range failures {
					if err := enc.Encode(perr); err != nil {
						return fmt.Errorf("encode: %w", err)
					}
				}
				if len(failures) > 0 {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&recoverErrors, "recover", false, "report every malformed statement")

	return cmd
}

// checkFile returns the parse failures of file. Errors other than parse
// failures are returned as err.
func checkFile(file string, recoverErrors bool) ([]*strip.ParseError, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	var failures []*strip.ParseError
	opts := []strip.Option{strip.WithFile(file)}
	if recoverErrors {
		opts = append(opts, strip.WithRecover(), strip.WithErrorHandler(func(perr *strip.ParseError) {
			failures = append(failures, perr)
		}))
	}
	_, err = strip.Transpile(string(src), opts...)
	var perr *strip.ParseError
	switch {
	case errors.As(err, &perr):
		failures = append(failures, perr)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return failures, nil
}
