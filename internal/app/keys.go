package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	Quit          key.Binding
	NewProject    key.Binding
	Connect       key.Binding
	Notifications key.Binding
	Refresh       key.Binding
	NextProject   key.Binding
	Back          key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NewProject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new project"),
		),
		Connect: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "connect"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notifications"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next project"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}
