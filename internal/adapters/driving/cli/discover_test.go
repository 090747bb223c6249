package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// searchPage renders a search page with the given results embedded.
func searchPage(results string) string {
	return `<!DOCTYPE html><html><body>
<script type="application/json" data-target="react-app.embeddedData">{"payload":{"results":[` + results + `]}}</script>
</body></html>`
}

func result(name, desc string) string {
	if desc == "" {
		return fmt.Sprintf(`{"hl_name":%q,"hl_trunc_description":null}`, name)
	}
	return fmt.Sprintf(`{"hl_name":%q,"hl_trunc_description":%q}`, name, desc)
}

// newSearchServer serves two pages and counts requests.
func newSearchServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	pages := map[string]string{
		"1": searchPage(strings.Join([]string{
			result("acme/<em>bili</em>-tool", "known already"),
			result("acme/<em>bili</em>-new", "a new one"),
			result("acme/bili-nodesc", ""),
			result("acme/<em>bili</em>ngual-notes", "excluded"),
		}, ",")),
		"2": searchPage(strings.Join([]string{
			result("acme/bili-two", "second page"),
			result("acme/<em>bili</em>-new", "repeat"),
		}, ",")),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/search", r.URL.Path)
		body, ok := pages[r.URL.Query().Get("p")]
		if !ok {
			body = searchPage("")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tools"), 0o755))
	data := `- from: github
  link: https://github.com/acme/bili-tool
- from: gitee
  link: https://gitee.com/acme/bili-two
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tools", "list.yml"), []byte(data), 0o600))
	return dir
}

func endToEndSettings(host, corpus string) map[string]any {
	return map[string]any{
		"source.host":               host,
		"fetch.requests_per_second": float64(0),
		"fetch.page_delay":          "0s",
		"fetch.retry_delay":         "0s",
		"corpus.dir":                corpus,
	}
}

func TestDiscover_EndToEnd_NoOpen(t *testing.T) {
	srv, hits := newSearchServer(t)
	env := setupCLI(t, endToEndSettings(srv.URL, writeCorpus(t)))

	err := execute(t, "discover", "--pages", "2", "--no-open")

	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	out := env.out.String()
	assert.Contains(t, out, "Found 2 unique items to open")
	assert.Contains(t, out, "1. acme/bili-new - https://github.com/acme/bili-new")
	assert.Contains(t, out, "2. acme/bili-two - https://github.com/acme/bili-two")
	assert.NotContains(t, out, "acme/bili-tool -")
	assert.NotContains(t, out, "bilingual")
	assert.Contains(t, out, "page 1: found 2 valid items")
	assert.Empty(t, env.opener.Links())
}

func TestDiscover_EndToEnd_JSON(t *testing.T) {
	srv, _ := newSearchServer(t)
	env := setupCLI(t, endToEndSettings(srv.URL, writeCorpus(t)))
	env.out.Reset()

	// Logs share the buffer; decode only the JSON array.
	err := execute(t, "discover", "--pages", "2", "--json")
	require.NoError(t, err)

	out := env.out.String()
	start := strings.Index(out, "[\n")
	end := strings.LastIndex(out, "]")
	require.True(t, start >= 0 && end > start, out)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out[start:end+1]), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "acme/bili-new", items[0]["name"])
	assert.Equal(t, "https://github.com/acme/bili-new", items[0]["link"])
	assert.Empty(t, env.opener.Links())
}

func TestDiscover_EndToEnd_OpensAll(t *testing.T) {
	srv, _ := newSearchServer(t)
	env := setupCLI(t, endToEndSettings(srv.URL, writeCorpus(t)))

	err := execute(t, "--pages", "2", "--no-tui")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://github.com/acme/bili-new",
		"https://github.com/acme/bili-two",
	}, env.opener.Links())
	out := env.out.String()
	assert.Contains(t, out, "Opening all links...")
	assert.Contains(t, out, "Opening: acme/bili-two - https://github.com/acme/bili-two")
	assert.Contains(t, out, "All links have been opened!")
}

func TestDiscover_FlagsOverrideSettings(t *testing.T) {
	env := setupCLI(t, map[string]any{"source.query": "stored"})
	fake := &fakeDiscovery{report: &domain.Report{}}
	seen := env.useFakeDiscovery(fake)

	err := execute(t, "discover",
		"--query", "bilibili",
		"--first-page", "3",
		"--pages", "4",
		"--corpus", "/data/corpus",
		"--page-delay", "2s",
		"--retry-delay", "1s",
		"--retries", "0",
		"--mode", "api",
		"--no-open",
	)

	require.NoError(t, err)
	assert.Equal(t, "bilibili", seen.Source.Query)
	assert.Equal(t, "/data/corpus", seen.Corpus.Dir)
	assert.Equal(t, 2*time.Second, seen.Fetch.PageDelay)
	assert.Equal(t, time.Second, seen.Fetch.RetryDelay)
	assert.Equal(t, 0, seen.Fetch.MaxRetries)
	assert.Equal(t, domain.SourceModeAPI, seen.Source.Mode)
	assert.Equal(t, domain.DiscoverOptions{FirstPage: 3, LastPage: 6}, fake.opts)
	assert.Contains(t, env.out.String(), "No new items to open!")
}

func TestDiscover_UnsetFlagsKeepSettings(t *testing.T) {
	env := setupCLI(t, map[string]any{"source.query": "stored", "fetch.max_retries": 3})
	fake := &fakeDiscovery{report: &domain.Report{}}
	seen := env.useFakeDiscovery(fake)

	require.NoError(t, execute(t, "discover", "--no-open"))

	assert.Equal(t, "stored", seen.Source.Query)
	assert.Equal(t, 3, seen.Fetch.MaxRetries)
	assert.Equal(t, domain.DiscoverOptions{FirstPage: 1}, fake.opts)
}

func TestDiscover_EnvironmentOverrides(t *testing.T) {
	env := setupCLI(t, map[string]any{"source.query": "stored"})
	seen := env.useFakeDiscovery(&fakeDiscovery{report: &domain.Report{}})
	t.Setenv(envQuery, "from-env")
	t.Setenv(envToken, "ghp_secret")

	require.NoError(t, execute(t, "discover", "--no-open"))

	assert.Equal(t, "from-env", seen.Source.Query)
	assert.Equal(t, "ghp_secret", seen.Source.Token)
}

func TestDiscover_InvalidFlagValue(t *testing.T) {
	env := setupCLI(t, nil)
	env.useFakeDiscovery(&fakeDiscovery{report: &domain.Report{}})

	err := execute(t, "discover", "--mode", "ftp")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
	assert.Contains(t, err.Error(), "source.mode")
}

func TestDiscover_BatchesWithPlainPresenter(t *testing.T) {
	env := setupCLI(t, nil)
	env.useFakeDiscovery(&fakeDiscovery{report: &domain.Report{Items: makeItems(25)}})
	rootCmd.SetIn(strings.NewReader("\n\n"))

	err := execute(t, "discover", "--no-tui")

	require.NoError(t, err)
	assert.Len(t, env.opener.Links(), 25)
	out := env.out.String()
	assert.Contains(t, out, "Opening batch 1 (1-10 of 25):")
	assert.Contains(t, out, "Opening batch 3 (21-25 of 25):")
	assert.Contains(t, out, "All links have been opened!")
}

func TestDiscover_InterruptedListsPartialResults(t *testing.T) {
	env := setupCLI(t, nil)
	env.useFakeDiscovery(&fakeDiscovery{
		report: &domain.Report{Items: makeItems(2), Interrupted: true},
		err:    context.Canceled,
	})

	err := execute(t, "discover")

	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "discovery interrupted")
	out := env.out.String()
	assert.Contains(t, out, "Found 2 unique items to open")
	assert.Contains(t, out, "interrupted")
	assert.Empty(t, env.opener.Links())
}

func TestDiscover_NoReport(t *testing.T) {
	env := setupCLI(t, nil)
	env.useFakeDiscovery(&fakeDiscovery{err: domain.ErrInvalidInput})

	err := execute(t, "discover", "--first-page", "0")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "discovery failed")
}

func TestDiscover_SkippedPagesAreLogged(t *testing.T) {
	env := setupCLI(t, nil)
	env.useFakeDiscovery(&fakeDiscovery{report: &domain.Report{
		Pages: []domain.PageOutcome{
			{Page: 1, Status: domain.PageFetched, Items: 3},
			{Page: 2, Status: domain.PageSkipped},
		},
	}})

	require.NoError(t, execute(t, "discover", "--no-open"))

	assert.Contains(t, env.out.String(), "skipped pages: [2]")
}

func TestDiscoverCmd_Flags(t *testing.T) {
	for _, name := range []string{
		"query", "pages", "first-page", "corpus", "page-delay",
		"retry-delay", "retries", "mode", "no-tui", "no-open", "json",
	} {
		assert.NotNil(t, discoverCmd.Flags().Lookup(name), name)
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
}

func TestInterrupted(t *testing.T) {
	assert.NoError(t, interrupted(nil))
	assert.Contains(t, interrupted(context.Canceled).Error(), "discovery interrupted")
	assert.Contains(t, interrupted(context.DeadlineExceeded).Error(), "discovery interrupted")
	assert.Contains(t, interrupted(errors.New("corpus unreadable")).Error(), "discovery failed")
}
