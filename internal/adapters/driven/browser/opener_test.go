package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	const url = "https://github.com/acme/bili-tool"

	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
		wantErr  bool
	}{
		{"darwin", "open", []string{url}, false},
		{"linux", "xdg-open", []string{url}, false},
		{"freebsd", "xdg-open", []string{url}, false},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", url}, false},
		{"plan9", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := Command(tt.goos, url)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOpener_Open(t *testing.T) {
	t.Run("runs platform command", func(t *testing.T) {
		var gotName string
		var gotArgs []string
		o := New(WithGOOS("linux"), WithRunner(func(_ context.Context, name string, args ...string) error {
			gotName = name
			gotArgs = args
			return nil
		}))

		err := o.Open(context.Background(), "https://github.com/a/b")

		require.NoError(t, err)
		assert.Equal(t, "xdg-open", gotName)
		assert.Equal(t, []string{"https://github.com/a/b"}, gotArgs)
	})

	t.Run("propagates runner error", func(t *testing.T) {
		o := New(WithGOOS("darwin"), WithRunner(func(context.Context, string, ...string) error {
			return errors.New("no display")
		}))

		err := o.Open(context.Background(), "https://github.com/a/b")

		assert.EqualError(t, err, "no display")
	})

	t.Run("unsupported platform does not run", func(t *testing.T) {
		called := false
		o := New(WithGOOS("plan9"), WithRunner(func(context.Context, string, ...string) error {
			called = true
			return nil
		}))

		err := o.Open(context.Background(), "https://github.com/a/b")

		assert.Error(t, err)
		assert.False(t, called)
	})
}
