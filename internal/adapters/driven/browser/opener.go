// Package browser opens links with the operating system's default handler.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
)

// Ensure Opener implements the interface.
var _ driven.BrowserOpener = (*Opener)(nil)

// Runner starts a command without waiting for it to finish.
type Runner func(ctx context.Context, name string, args ...string) error

// Opener launches the platform URL handler.
type Opener struct {
	goos string
	run  Runner
}

// Option configures an Opener.
type Option func(*Opener)

// WithRunner replaces the command runner.
func WithRunner(run Runner) Option {
	return func(o *Opener) {
		o.run = run
	}
}

// WithGOOS overrides the detected platform.
func WithGOOS(goos string) Option {
	return func(o *Opener) {
		o.goos = goos
	}
}

// New creates an opener for the current platform.
func New(opts ...Option) *Opener {
	o := &Opener{
		goos: runtime.GOOS,
		run:  startCommand,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens url in the default browser.
func (o *Opener) Open(ctx context.Context, url string) error {
	name, args, err := Command(o.goos, url)
	if err != nil {
		return err
	}
	return o.run(ctx, name, args...)
}

// Command returns the command that opens url on goos.
func Command(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// startCommand starts the handler and reaps it in the background.
func startCommand(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
