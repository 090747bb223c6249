package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reposcout/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reposcout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reposcout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reposcout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// App is the review TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	bar    *status.Bar
	help   help.Model

	items []domain.Item
	iter  *domain.BatchIterator

	// current is the most recently opened batch.
	current    domain.Batch
	hasCurrent bool

	opened  int
	failed  int
	opening bool
	done    bool

	showHelp bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a review TUI over the given items.
// It returns domain.ErrNoItems when there is nothing to review.
func NewApp(ports *Ports, items []domain.Item) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("creating app: %w", domain.ErrNoItems)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		bar:    status.NewBar(s, km),
		help:   help.New(),
		items:  items,
		iter:   ports.Review.Plan(items),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model. The first batch opens immediately.
func (a *App) Init() tea.Cmd {
	a.bar.SetProgress(0, a.iter.Batches())
	return tea.Batch(
		tea.SetWindowTitle("reposcout"),
		a.openNext(),
	)
}

// openNext advances the iterator and returns a command that opens the batch.
func (a *App) openNext() tea.Cmd {
	batch, ok := a.iter.Next()
	if !ok {
		return nil
	}
	a.opening = true
	a.bar.SetState(status.StateOpening)

	review := a.ports.Review
	ctx := a.ctx
	return func() tea.Msg {
		return messages.BatchOpened{
			Batch:   batch,
			Summary: review.Open(ctx, batch),
		}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.bar.SetWidth(msg.Width)
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.OpenRequested:
		if a.opening || a.done {
			return a, nil
		}
		return a, a.openNext()

	case messages.BatchOpened:
		a.current = msg.Batch
		a.hasCurrent = true
		a.opening = false
		a.err = nil
		a.opened += msg.Summary.Opened
		a.failed += msg.Summary.Failed
		a.bar.SetProgress(msg.Batch.Number(), a.iter.Batches())
		a.bar.SetOpened(a.opened)
		if err := a.ctx.Err(); err != nil {
			return a, reportError(fmt.Errorf("opening batch %d: %w", msg.Batch.Number(), err))
		}
		if msg.Batch.IsLast() {
			a.done = true
			a.bar.SetState(status.StateDone)
			opened, failed := a.opened, a.failed
			return a, func() tea.Msg {
				return messages.ReviewFinished{Opened: opened, Failed: failed}
			}
		}
		a.bar.SetState(status.StateReviewing)
		if msg.Summary.Failed > 0 {
			return a, reportError(fmt.Errorf("%d links in batch %d failed to open",
				msg.Summary.Failed, msg.Batch.Number()))
		}
		return a, nil

	case messages.ReviewFinished:
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.opening = false
		a.bar.SetState(status.StateError)
		if msg.Err != nil {
			a.bar.SetMessage(msg.Err.Error())
		}
		return a, nil
	}

	return a, nil
}

// handleKey processes key presses.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = !a.showHelp
		return a, nil
	case keymap.Matches(k, a.keymap.Next):
		if a.opening || a.done {
			return a, nil
		}
		return a, func() tea.Msg { return messages.OpenRequested{} }
	}
	return a, nil
}

// reportError returns a command that delivers err to the model.
func reportError(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.ErrorOccurred{Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("reposcout"))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Normal.Render(fmt.Sprintf("Found %d unique items to open", len(a.items))))
	b.WriteString("\n\n")

	if a.hasCurrent {
		b.WriteString(a.styles.Border.Render(a.viewBatch()))
		b.WriteString("\n\n")
	}

	if a.err != nil {
		b.WriteString(a.styles.Error.Render(a.err.Error()))
		b.WriteString("\n")
	}
	switch {
	case a.done:
		b.WriteString(a.styles.Opened.Render("All links have been opened!"))
		if a.failed > 0 {
			b.WriteString("\n")
			b.WriteString(a.styles.Error.Render(fmt.Sprintf("%d links failed to open", a.failed)))
		}
	case a.opening:
		b.WriteString(a.styles.Muted.Render("Opening..."))
	default:
		if start, end, ok := a.iter.Peek(); ok {
			b.WriteString(a.styles.Prompt.Render(fmt.Sprintf(
				"Press Enter to open next batch (%d-%d of %d)...", start+1, end, len(a.items))))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(a.bar.View())
	if a.showHelp {
		b.WriteString("\n")
		b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	}
	return b.String()
}

// viewBatch renders the current batch.
func (a *App) viewBatch() string {
	batch := a.current
	lines := make([]string, 0, len(batch.Items)+1)

	if a.iter.Batches() <= 1 {
		lines = append(lines, a.styles.Subtitle.Render("Opening all links..."))
		for _, item := range batch.Items {
			lines = append(lines, fmt.Sprintf("Opening: %s - %s",
				a.styles.Name.Render(item.Name), a.styles.Link.Render(item.Link())))
		}
		return strings.Join(lines, "\n")
	}

	lines = append(lines, a.styles.Subtitle.Render(fmt.Sprintf(
		"Opening batch %d (%d-%d of %d):", batch.Number(), batch.Start+1, batch.End, batch.Total)))
	for i, item := range batch.Items {
		lines = append(lines, fmt.Sprintf("%s %s - %s",
			a.styles.Index.Render(fmt.Sprintf("%d.", batch.Start+i+1)),
			a.styles.Name.Render(item.Name),
			a.styles.Link.Render(item.Link())))
	}
	return strings.Join(lines, "\n")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Opened returns the number of links opened so far.
func (a *App) Opened() int {
	return a.opened
}

// Failed returns the number of links that failed to open.
func (a *App) Failed() int {
	return a.failed
}

// Done reports whether every batch has been opened.
func (a *App) Done() bool {
	return a.done
}

// Opening reports whether a batch is being opened.
func (a *App) Opening() bool {
	return a.opening
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.bar.SetWidth(width)
}
