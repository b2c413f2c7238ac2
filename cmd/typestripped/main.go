package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/typestripped/strip"
)

var version = "0.1.0"

var log = commonlog.GetLogger("typestripped")

var (
	errorFmt   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningFmt = color.New(color.FgYellow).SprintFunc()
	successFmt = color.New(color.FgGreen).SprintFunc()
	pathFmt    = color.New(color.FgCyan).SprintFunc()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int
	var logFile string

	rootCmd := &cobra.Command{
		Use:           "typestripped",
		Short:         "Turn TypeScript into JavaScript by stripping its types",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logFile != "" {
				commonlog.Configure(verbosity, &logFile)
			} else {
				commonlog.Configure(verbosity, nil)
			}
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log more, repeat for debug output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write log to this file instead of stderr")

	rootCmd.AddCommand(newStripCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPageCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

// printError writes err to w. Parse errors are followed by the failed
// alternatives that led to them.
func printError(w io.Writer, err error) {
	var perr *strip.ParseError
	if errors.As(err, &perr) {
		fmt.Fprint(w, errorFmt("error: "), perr.Details())
		return
	}
	fmt.Fprintln(w, errorFmt("error:"), err)
}
