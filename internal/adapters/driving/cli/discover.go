package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/reposcout/internal/adapters/driving/tui"
	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// discoverFlags holds per-run overrides. Only flags set on the command
// line replace stored settings.
type discoverFlags struct {
	query      string
	pages      int
	firstPage  int
	corpus     string
	pageDelay  time.Duration
	retryDelay time.Duration
	retries    int
	mode       string
	noTUI      bool
	noOpen     bool
	json       bool
}

var discoverOpts discoverFlags

// isTerminal reports whether f is attached to a terminal.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Search for new repositories and review them",
	Long: `Fetches the search result pages one at a time, removes repositories
that are already in the corpus, and opens the new ones in the browser.

Up to 20 new repositories are opened at once. Larger result sets are opened
in batches of 10; press Enter to open the next batch.

Pages that keep failing are skipped after the configured number of retries.
Press ctrl+c to stop early; the repositories found so far are still listed.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	addDiscoverFlags(discoverCmd)
	rootCmd.AddCommand(discoverCmd)
}

// addDiscoverFlags registers the discover flags on cmd.
func addDiscoverFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&discoverOpts.query, "query", "q", "", "search term (default from config)")
	f.IntVarP(&discoverOpts.pages, "pages", "n", 0, "number of pages to fetch (default up to the source maximum)")
	f.IntVar(&discoverOpts.firstPage, "first-page", 1, "first page to fetch")
	f.StringVar(&discoverOpts.corpus, "corpus", "", "corpus directory (default from config)")
	f.DurationVar(&discoverOpts.pageDelay, "page-delay", 0, "wait between pages (default from config)")
	f.DurationVar(&discoverOpts.retryDelay, "retry-delay", 0, "wait between retries (default from config)")
	f.IntVar(&discoverOpts.retries, "retries", 0, "retries per page (default from config)")
	f.StringVar(&discoverOpts.mode, "mode", "", fmt.Sprintf("source mode: %s (default from config)", modeNames()))
	f.BoolVar(&discoverOpts.noTUI, "no-tui", false, "use the line-based presenter")
	f.BoolVar(&discoverOpts.noOpen, "no-open", false, "list new repositories without opening them")
	f.BoolVar(&discoverOpts.json, "json", false, "print new repositories as JSON")
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	settings, err := runSettings(cmd)
	if err != nil {
		return err
	}

	opts := domain.DiscoverOptions{FirstPage: discoverOpts.firstPage}
	if discoverOpts.pages > 0 {
		opts.LastPage = discoverOpts.firstPage + discoverOpts.pages - 1
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := !discoverOpts.noOpen && !discoverOpts.json
	p := newPipeline(*settings, open)

	logger.Section("discovery")
	logger.Info("searching for %q", settings.Source.Query)
	report, runErr := p.Discovery.Discover(ctx, opts)
	if report == nil {
		return fmt.Errorf("discovery failed: %w", runErr)
	}
	logReport(report)

	if discoverOpts.json {
		if err := outputItemsJSON(cmd.OutOrStdout(), report.Items); err != nil {
			return err
		}
		return interrupted(runErr)
	}

	if runErr != nil || !p.Review.CanOpen() {
		listItems(cmd.OutOrStdout(), report.Items)
		return interrupted(runErr)
	}

	logger.Section("review")
	if !discoverOpts.noTUI && isTerminal(os.Stdin) && isTerminal(os.Stdout) && len(report.Items) > 0 {
		app, err := tui.NewApp(tui.NewPorts(p.Review), report.Items)
		if err != nil {
			return err
		}
		// The TUI owns the terminal; it reports open failures itself.
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(cmd.ErrOrStderr())
		return app.WithContext(ctx).Run()
	}

	return presentPlain(ctx, p.Review, report.Items, cmd.InOrStdin(), cmd.OutOrStdout())
}

// modeNames lists the accepted --mode values.
func modeNames() string {
	modes := domain.AllSourceModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, " or ")
}

// runSettings merges stored settings, environment and flags, then validates.
func runSettings(cmd *cobra.Command) (*domain.AppSettings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("query") {
		settings.Source.Query = discoverOpts.query
	}
	if flags.Changed("corpus") {
		settings.Corpus.Dir = discoverOpts.corpus
	}
	if flags.Changed("page-delay") {
		settings.Fetch.PageDelay = discoverOpts.pageDelay
	}
	if flags.Changed("retry-delay") {
		settings.Fetch.RetryDelay = discoverOpts.retryDelay
	}
	if flags.Changed("retries") {
		settings.Fetch.MaxRetries = discoverOpts.retries
	}
	if flags.Changed("mode") {
		settings.Source.Mode = domain.SourceMode(discoverOpts.mode)
	}

	if err := settingsService.Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// logReport prints the per-run summary.
func logReport(report *domain.Report) {
	if skipped := report.Skipped(); len(skipped) > 0 {
		logger.Warn("skipped pages: %v", skipped)
	}
	logger.Debug("run %s: %d known, %d new in %s",
		report.RunID, report.Known, len(report.Items), report.Duration().Round(time.Millisecond))
	if report.Interrupted {
		logger.Warn("interrupted, showing the %d new items found so far", len(report.Items))
	}
}

// interrupted maps a partial run to an error for the exit status.
func interrupted(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("discovery interrupted: %w", err)
	default:
		return fmt.Errorf("discovery failed: %w", err)
	}
}

func outputItemsJSON(w io.Writer, items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// listItems prints items without opening them.
func listItems(w io.Writer, items []domain.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No new items to open!")
		return
	}
	fmt.Fprintf(w, "Found %d unique items to open\n", len(items))
	for i, item := range items {
		fmt.Fprintf(w, "%d. %s - %s\n", i+1, item.Name, item.Link())
	}
}
