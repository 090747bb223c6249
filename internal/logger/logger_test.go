package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output to a buffer for the duration of the test.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func()
		want    string
	}{
		{
			name:    "debug when verbose",
			verbose: true,
			log:     func() { Debug("run %s: %s", "r1", "fetching") },
			want:    "[DEBUG] run r1: fetching\n",
		},
		{
			name: "debug hidden when quiet",
			log:  func() { Debug("GET %s", "https://github.com/search") },
			want: "",
		},
		{
			name: "info always shown",
			log:  func() { Info("fetching page %d/%d", 1, 100) },
			want: "[INFO] fetching page 1/100\n",
		},
		{
			name: "warn always shown",
			log:  func() { Warn("skipping page %d", 4) },
			want: "[WARN] skipping page 4\n",
		},
		{
			name: "error always shown",
			log:  func() { Error("page %d failed after %d retries", 7, 10) },
			want: "[ERROR] page 7 failed after 10 retries\n",
		},
		{
			name:    "section when verbose",
			verbose: true,
			log:     func() { Section("discovery") },
			want:    "\n=== discovery ===\n",
		},
		{
			name: "section hidden when quiet",
			log:  func() { Section("review") },
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)

			tt.log()

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

// lockedBuffer is safe for the concurrent test below.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)
	var out lockedBuffer
	SetOutput(&out)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(i%2 == 0)
			Debug("concurrent %d", i)
			Warn("concurrent %d", i)
			_ = IsVerbose()
		}()
	}
	wg.Wait()

	out.mu.Lock()
	defer out.mu.Unlock()
	assert.Contains(t, out.buf.String(), "[WARN] concurrent")
}
