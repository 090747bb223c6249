// Package status provides the status bar component for the review TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reposcout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reposcout/internal/adapters/driving/tui/styles"
)

// State represents the review state for display.
type State string

const (
	StateReviewing State = "reviewing"
	StateOpening   State = "opening"
	StateDone      State = "done"
	StateError     State = "error"
)

// Bar displays review progress and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	batch   int
	batches int
	opened  int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReviewing,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders state and progress.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateOpening:
		return s.styles.Muted.Render("Opening...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateDone:
		return s.styles.Opened.Render(fmt.Sprintf("Done: %d opened", s.opened))
	case StateReviewing:
		// progress below
	}
	if s.batches > 0 {
		return s.styles.Normal.Render(fmt.Sprintf("batch %d/%d", s.batch, s.batches))
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateDone {
		bindings = s.keymap.DoneHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// Bindings returns the bindings currently hinted.
func (s *Bar) Bindings() []key.Binding {
	if s.state == StateDone {
		return s.keymap.DoneHelp()
	}
	return s.keymap.ShortHelp()
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message, shown in the error state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetProgress sets the current batch number and the batch total.
func (s *Bar) SetProgress(batch, batches int) {
	s.batch = batch
	s.batches = batches
}

// Progress returns the current batch number and the batch total.
func (s *Bar) Progress() (batch, batches int) {
	return s.batch, s.batches
}

// SetOpened sets the number of links opened so far.
func (s *Bar) SetOpened(n int) {
	s.opened = n
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
