package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/typestripped/format"
	"github.com/dhamidi/typestripped/strip"
)

func newStripCmd() *cobra.Command {
	var output string
	var debug bool
	var trace bool
	var recoverErrors bool

	cmd := &cobra.Command{
		Use:   "strip <input>",
		Short: "Transpile one TypeScript file to JavaScript",
		Long: `Transpile one TypeScript file to JavaScript.

The output keeps every line of the input on the same line, so no source
map is needed. Without --output the result is written next to the input
with a .js extension.

Examples:
  typestripped strip app.ts
  typestripped strip --recover --output dist/app.js src/app.ts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = defaultOutput(input)
			}

			src, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			opts := []strip.Option{strip.WithFile(input)}
			if debug {
				commonlog.SetMaxLevel(commonlog.Debug, "typestripped", "strip")
				opts = append(opts, strip.WithDebug())
			}
			if trace {
				opts = append(opts, strip.WithTrace(format.NewTraceEncoder(cmd.ErrOrStderr()).Func()))
			}
			if recoverErrors {
				opts = append(opts, strip.WithRecover())
			}

			js, err := strip.Transpile(string(src), opts...)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(js), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s to %s\n", successFmt("Converted"), pathFmt(input), pathFmt(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .js extension)")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every matcher action at debug level")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every matcher action to stderr")
	cmd.Flags().BoolVar(&recoverErrors, "recover", false, "copy malformed statements through instead of failing")

	return cmd
}

// defaultOutput returns input with its extension replaced by .js.
func defaultOutput(input string) string {
	base := filepath.Base(input)
	return filepath.Join(filepath.Dir(input), strings.TrimSuffix(base, filepath.Ext(base))+".js")
}
