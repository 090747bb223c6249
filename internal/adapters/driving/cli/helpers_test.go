package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/reposcout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/core/services"
)

// recordingOpener records every link instead of launching a browser.
type recordingOpener struct {
	mu    sync.Mutex
	links []string
}

func (o *recordingOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.links = append(o.links, url)
	return nil
}

func (o *recordingOpener) Links() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.links...)
}

// fakeDiscovery returns a fixed report.
type fakeDiscovery struct {
	report *domain.Report
	err    error
	known  domain.KnownSet
	opts   domain.DiscoverOptions
}

func (f *fakeDiscovery) Discover(_ context.Context, opts domain.DiscoverOptions) (*domain.Report, error) {
	f.opts = opts
	return f.report, f.err
}

func (f *fakeDiscovery) KnownSet(_ context.Context) (domain.KnownSet, error) {
	return f.known, f.err
}

// cliEnv isolates the package-level command state for one test.
type cliEnv struct {
	out    *bytes.Buffer
	opener *recordingOpener
	store  *memory.ConfigStore
}

func setupCLI(t *testing.T, initial map[string]any) *cliEnv {
	t.Helper()

	env := &cliEnv{
		out:    new(bytes.Buffer),
		opener: &recordingOpener{},
		store:  memory.NewConfigStore(initial),
	}

	oldSettings := settingsService
	oldPipeline := newPipeline
	oldOpener := newOpener
	oldTerminal := isTerminal

	settingsService = services.NewSettingsService(env.store)
	newOpener = func() driven.BrowserOpener { return env.opener }
	isTerminal = func(_ *os.File) bool { return false }

	rootCmd.SetOut(env.out)
	rootCmd.SetErr(env.out)
	rootCmd.SetIn(strings.NewReader(""))

	t.Cleanup(func() {
		settingsService = oldSettings
		newPipeline = oldPipeline
		newOpener = oldOpener
		isTerminal = oldTerminal
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})
	return env
}

// useFakeDiscovery replaces discovery while keeping the real review service.
func (e *cliEnv) useFakeDiscovery(fake *fakeDiscovery) *domain.AppSettings {
	var seen domain.AppSettings
	newPipeline = func(settings domain.AppSettings, open bool) *Pipeline {
		seen = settings
		p := buildPipeline(settings, open)
		p.Discovery = fake
		return p
	}
	return &seen
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// resetFlags restores every flag to its default between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func makeItems(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{Name: fmt.Sprintf("acme/bili-%02d", i+1), Description: "tool"}
	}
	return items
}
