// Package cmd implements the CLI commands for BookBind using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookbind",
	Short: "BookBind — turn web articles into e-book files",
	Long: `BookBind is a single-document ingestion pipeline that fetches a web
article, extracts the readable body, stages intermediate artifacts in a
per-document workspace, and hands the result to pandoc for e-book
conversion.

Usage:
  bookbind ingest <url> [flags]
  cat urls.txt | bookbind ingest [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
