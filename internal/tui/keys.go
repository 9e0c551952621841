package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the demo TUI.
type KeyMap struct {
	// Message emitters
	Info    key.Binding
	Success key.Binding
	Warning key.Binding
	Error   key.Binding
	Loading key.Binding

	// Modifiers for the next emitted message
	CyclePriority key.Binding
	Persistent    key.Binding
	Grouped       key.Binding

	// Queue actions
	HideFront key.Binding
	HideGroup key.Binding
	Clear     key.Binding
	ClearAll  key.Binding
	Pause     key.Binding

	// Misc
	Export key.Binding
	Quit   key.Binding
	Help   key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Info, k.Error, k.Clear, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Info, k.Success, k.Warning, k.Error, k.Loading},
		{k.CyclePriority, k.Persistent, k.Grouped},
		{k.HideFront, k.HideGroup, k.Clear, k.ClearAll, k.Pause},
		{k.Export, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "info message"),
		),
		Success: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "success message"),
		),
		Warning: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "warning message"),
		),
		Error: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "error message"),
		),
		Loading: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "loading message"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority"),
		),
		Persistent: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "toggle persistent"),
		),
		Grouped: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "toggle group"),
		),
		HideFront: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "hide front message"),
		),
		HideGroup: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "hide demo group"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear non-persistent"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume timers"),
		),
		Export: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "export queue as YAML"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
