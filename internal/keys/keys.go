// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the room browser.
type KeyMap struct {
	// Navigation
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding

	// Actions
	Select            key.Binding
	Sections          key.Binding
	Menu              key.Binding
	ToggleTransitions key.Binding
	ToggleDesign      key.Binding
	ReloadSection     key.Binding
	Dismiss           key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous room"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next room"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "row up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "row down"),
		),

		// Actions
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "enter room"),
		),
		Sections: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "open section"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle menu"),
		),
		ToggleTransitions: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle transitions"),
		),
		ToggleDesign: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle design mode"),
		),
		ReloadSection: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload section"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SectionIndex maps a section key ("1".."5") to a zero-based index.
// Returns -1 for any other key.
func SectionIndex(k string) int {
	if len(k) != 1 || k[0] < '1' || k[0] > '5' {
		return -1
	}
	return int(k[0] - '1')
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Sections, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},                                                      // Navigation
		{k.Select, k.Sections, k.Menu, k.ToggleTransitions, k.ToggleDesign, k.ReloadSection}, // Actions
		{k.Dismiss, k.Help, k.Quit},                                                          // General
	}
}
