package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[source\nquery ="), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("source.query", "bili"))

	val, ok := store.Get("source.query")
	assert.True(t, ok)
	assert.Equal(t, "bili", val)

	_, ok = store.Get("source.missing")
	assert.False(t, ok)
}

func TestConfigStore_WritesTables(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("source.query", "bili"))
	require.NoError(t, store.Set("fetch.page_delay", "10s"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[source]")
	assert.Contains(t, content, "[fetch]")
	assert.NotContains(t, content, "'source.query'")
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("source.max_pages", 50))
	require.NoError(t, store.Set("fetch.requests_per_second", 0.5))
	require.NoError(t, store.Set("fetch.retry_delay", "5s"))
	require.NoError(t, store.Set("corpus.extensions", []string{".yml", ".yaml"}))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)

	maxPages, ok := reloaded.GetInt("source.max_pages")
	assert.True(t, ok)
	assert.Equal(t, 50, maxPages)
	rps, ok := reloaded.GetFloat("fetch.requests_per_second")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, rps, 1e-9)
	retryDelay, ok := reloaded.GetDuration("fetch.retry_delay")
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, retryDelay)
	assert.Equal(t, []string{".yml", ".yaml"}, reloaded.GetStringSlice("corpus.extensions"))
}

func TestConfigStore_HandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[source]
mode = "api"
max_pages = 3

[fetch]
requests_per_second = 2
page_delay = "1m"

[filter]
exclude = ["bilingual", "mirror"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, "api", store.GetString("source.mode"))
	maxPages, _ := store.GetInt("source.max_pages")
	assert.Equal(t, 3, maxPages)
	rps, _ := store.GetFloat("fetch.requests_per_second")
	assert.InDelta(t, 2.0, rps, 1e-9)
	pageDelay, _ := store.GetDuration("fetch.page_delay")
	assert.Equal(t, time.Minute, pageDelay)
	assert.Equal(t, []string{"bilingual", "mirror"}, store.GetStringSlice("filter.exclude"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("source.query", "bili"))
	require.NoError(t, store.Set("source.max_pages", 7))

	_, ok := store.GetInt("source.query")
	assert.False(t, ok)
	_, ok = store.GetFloat("source.query")
	assert.False(t, ok)
	_, ok = store.GetDuration("source.query")
	assert.False(t, ok)
	_, ok = store.GetDuration("source.max_pages")
	assert.False(t, ok, "a bare number has no unit")
	assert.Equal(t, "", store.GetString("source.max_pages"))
	assert.Nil(t, store.GetStringSlice("source.query"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("a.b", "c"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	_, ok := store.Get("a.b")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("source.query")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on Windows")
	}
	store := newStore(t)
	require.NoError(t, store.Set("source.token", "secret"))

	info, err := os.Stat(store.Path())

	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store := newStore(t)

	err := store.Set("bad.value", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newStore(t)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("review.batch_size", n)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.GetInt("review.batch_size")
		}()
	}
	wg.Wait()

	_, ok := store.Get("review.batch_size")
	assert.True(t, ok)
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"source": map[string]any{"query": "bili", "max_pages": int64(100)},
		"top":    "level",
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{
		"source.query":     "bili",
		"source.max_pages": int64(100),
		"top":              "level",
	}, flat)
	got, err := nestMap(flat)
	require.NoError(t, err)
	assert.Equal(t, nested, got)
}

func TestNestMap_Depth(t *testing.T) {
	got, err := nestMap(map[string]any{"a": "scalar"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "scalar"}, got)

	got, err = nestMap(map[string]any{"a.b.c": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}, got)
}

func TestNestMap_RejectsValueAndTable(t *testing.T) {
	tests := []struct {
		name string
		flat map[string]any
	}{
		{"scalar then table", map[string]any{"a.b": 1, "a.b.c": 2}},
		{"top level scalar", map[string]any{"a": "x", "a.b": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Repeat to cover random map iteration order.
			for range 20 {
				_, err := nestMap(tt.flat)
				assert.ErrorIs(t, err, ErrKeyConflict)
			}
		})
	}
}

func TestConfigStore_SetRejectsConflictingKey(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("fetch.page_delay", "10s"))

	err := store.Set("fetch.page_delay.unit", "s")
	assert.ErrorIs(t, err, ErrKeyConflict)

	err = store.Set("fetch", "flat")
	assert.ErrorIs(t, err, ErrKeyConflict)

	val, ok := store.Get("fetch.page_delay")
	assert.True(t, ok)
	assert.Equal(t, "10s", val)
	_, ok = store.Get("fetch")
	assert.False(t, ok)
}
