package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/typestripped/hostpage"
	"github.com/dhamidi/typestripped/project"
)

func newServeCmd() *cobra.Command {
	var addr string
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve [directory]",
		Short: "Serve a directory, running TypeScript pages in the browser",
		Long: `Serve a directory for development.

HTML pages have their <script type="text/typescript"> elements transpiled,
.ts files are served as JavaScript and all other files are served as they
are. Files are read on every request.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if !cmd.Flags().Changed("addr") {
				cfg, err := project.LoadFile(configFile)
				if err != nil {
					return err
				}
				addr = cfg.Addr
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           hostpage.NewServer(dir),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", pathFmt(dir), pathFmt(addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on (default from config)")
	cmd.Flags().StringVarP(&configFile, "config", "c", project.FileName, "project configuration file")

	return cmd
}
