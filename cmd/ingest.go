// Package cmd — ingest command.
// This is the main command that orchestrates the pipeline:
// identity → workspace → fetch → extract → stage artifacts → convert.
//
// It handles flag validation, fetch strategy selection, and the
// stdin-batch mode used when no URL argument is given.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/bookbind/config"
	"github.com/gaurav-prasanna/bookbind/core"
	"github.com/gaurav-prasanna/bookbind/core/artifact"
	"github.com/gaurav-prasanna/bookbind/core/ebook"
	"github.com/gaurav-prasanna/bookbind/core/extract"
	"github.com/gaurav-prasanna/bookbind/core/fetch"
	"github.com/gaurav-prasanna/bookbind/core/pipeline"
	"github.com/gaurav-prasanna/bookbind/core/workspace"
)

// Flag variables.
var (
	flagBrowser      bool
	flagProfileName  string
	flagProfileDir   string
	flagWorkspaceDir string
	flagOutputDir    string
	flagFormat       string
	flagCSS          string
	flagPandoc       string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url]",
	Short: "Fetch, extract, and convert an article into an e-book",
	Long: `Ingest runs a URL through the full pipeline. With no URL argument,
newline-delimited URLs are read from stdin and processed sequentially.

Raw page content is cached per document: re-running the same URL skips
the fetch and re-runs extraction and conversion.

Examples:
  bookbind ingest https://example.com/articles/foo-bar
  bookbind ingest https://example.com/app --browser --profile-name Default
  cat urls.txt | bookbind ingest --browser --profile-dir ~/.config/google-chrome`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Fetch strategy flags.
	ingestCmd.Flags().BoolVar(&flagBrowser, "browser", false, "Fetch rendered pages through a browser session")
	ingestCmd.Flags().StringVar(&flagProfileName, "profile-name", "", "Browser profile name to resolve (requires --browser)")
	ingestCmd.Flags().StringVar(&flagProfileDir, "profile-dir", "", "Explicit browser user-data directory (requires --browser)")

	// Layout and converter flags. Empty means the environment default.
	ingestCmd.Flags().StringVar(&flagWorkspaceDir, "workspace-dir", "", "Workspace root directory (default \"workspaces\")")
	ingestCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Shared output directory (default \"epubs\")")
	ingestCmd.Flags().StringVar(&flagFormat, "format", "", "Converter target format (default \"epub3\")")
	ingestCmd.Flags().StringVar(&flagCSS, "css", "", "Stylesheet reference passed to the converter")
	ingestCmd.Flags().StringVar(&flagPandoc, "pandoc", "", "Converter binary (default \"pandoc\")")
}

// strategy pairs a fetcher with the release of its stateful resources.
// For the direct strategy release is a no-op; for the browser strategy
// it tears down the shared automation session.
type strategy struct {
	fetcher core.Fetcher
	release func()
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if !flagBrowser && (flagProfileName != "" || flagProfileDir != "") {
		return fmt.Errorf("--profile-name and --profile-dir require --browser")
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	strat, err := selectStrategy(cfg.PageTimeout)
	if err != nil {
		return err
	}

	driver := &pipeline.Driver{
		Fetcher:   strat.fetcher,
		Extractor: extract.New(log),
		Artifacts: artifact.NewWriter(),
		Generator: &ebook.PandocGenerator{
			Binary:     valueOr(flagPandoc, cfg.Pandoc),
			Format:     valueOr(flagFormat, cfg.Format),
			Stylesheet: valueOr(flagCSS, cfg.Stylesheet),
			OutputDir:  valueOr(flagOutputDir, cfg.OutputDir),
		},
		Workspaces: workspace.NewRoot(
			valueOr(flagWorkspaceDir, cfg.WorkspaceDir),
			valueOr(flagOutputDir, cfg.OutputDir),
		),
		Log: log,
	}

	ctx := context.Background()

	if len(args) == 1 {
		return ingestOne(ctx, driver, strat, args[0], os.Stdout)
	}

	urls, err := readURLs(os.Stdin)
	if err != nil {
		strat.release()
		return fmt.Errorf("reading URLs from stdin: %w", err)
	}
	if len(urls) == 0 {
		strat.release()
		return fmt.Errorf("no URL argument and no URLs on stdin")
	}

	return ingestBatch(ctx, driver, strat, urls, os.Stdout)
}

// ingestOne processes a single URL, releasing the strategy's stateful
// resources whether or not the document succeeded.
func ingestOne(ctx context.Context, driver *pipeline.Driver, strat *strategy, url string, out io.Writer) error {
	defer strat.release()

	outcome, err := driver.Run(ctx, url)
	if err != nil {
		return err
	}
	if outcome == pipeline.OutcomeSkipped {
		fmt.Fprintf(out, "Skipped (no extractable article): %s\n", url)
	}
	return nil
}

// ingestBatch processes urls sequentially and releases the strategy's
// stateful resources exactly once, after the whole batch, however many
// individual documents failed.
func ingestBatch(ctx context.Context, driver *pipeline.Driver, strat *strategy, urls []string, out io.Writer) error {
	defer strat.release()

	summary := driver.RunBatch(ctx, urls)
	fmt.Fprintf(out, "Done: %d generated, %d skipped, %d failed\n",
		summary.Generated, summary.Skipped, summary.Failed)

	// Partial success still ends the process normally.
	return nil
}

// selectStrategy picks the fetch strategy once per invocation. A
// browser session is created here but started lazily on first use.
func selectStrategy(pageTimeout time.Duration) (*strategy, error) {
	if !flagBrowser {
		return &strategy{fetcher: fetch.NewDirect(), release: func() {}}, nil
	}

	userDataDir, profileDir, err := resolveProfile()
	if err != nil {
		return nil, err
	}
	session := fetch.NewSession(userDataDir, profileDir, pageTimeout)
	return &strategy{fetcher: fetch.NewBrowser(session), release: session.Close}, nil
}

// resolveProfile maps the profile flags to a chromedp user-data dir and
// profile directory. An explicit --profile-dir bypasses platform lookup.
func resolveProfile() (userDataDir, profileDir string, err error) {
	if flagProfileDir != "" {
		return flagProfileDir, "Default", nil
	}
	if flagProfileName == "" {
		return "", "", fmt.Errorf("--browser requires --profile-name or --profile-dir")
	}
	return fetch.ResolveProfile(fetch.DefaultLocator(), flagProfileName)
}

// readURLs reads newline-delimited URLs, skipping blank lines.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls, scanner.Err()
}

func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}

func valueOr(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
