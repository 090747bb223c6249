// Package keymap defines keybindings for the review TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the review TUI.
type KeyMap struct {
	// Quit exits the review. Links already opened stay open.
	Quit key.Binding

	// Next opens the next batch.
	Next key.Binding

	// Up scrolls the batch list up.
	Up key.Binding

	// Down scrolls the batch list down.
	Down key.Binding

	// Help toggles the full help.
	Help key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open next batch"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns the bindings shown while batches remain.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Quit, k.Help}
}

// DoneHelp returns the bindings shown once every batch is open.
func (k *KeyMap) DoneHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
