package main

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/typestripped/hostpage"
)

func newPageCmd() *cobra.Command {
	var output string
	var base string

	cmd := &cobra.Command{
		Use:   "page <file.html>",
		Short: "Rewrite the TypeScript scripts of an HTML page",
		Long: `Rewrite the TypeScript scripts of an HTML page into module scripts.

Scripts and the modules they import are read from the page's directory,
or fetched over HTTP when --base is an http(s) URL. Imported modules are
inlined as data URLs, so the result is a single self-contained page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read page: %w", err)
			}

			var fetcher hostpage.Fetcher
			var baseURL *url.URL
			if base != "" {
				if baseURL, err = url.Parse(base); err != nil {
					return fmt.Errorf("parse base: %w", err)
				}
				fetcher = hostpage.HTTPFetcher{}
			} else {
				fetcher = hostpage.FSFetcher{FS: os.DirFS(filepath.Dir(args[0]))}
				baseURL = &url.URL{Scheme: "file", Path: "/" + filepath.Base(args[0])}
			}

			out, err := hostpage.NewRewriter(fetcher).RewriteHTML(bytes.NewReader(page), baseURL)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s to %s\n", successFmt("Converted"), pathFmt(args[0]), pathFmt(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&base, "base", "", "URL the page is served from, to fetch scripts over HTTP")

	return cmd
}
