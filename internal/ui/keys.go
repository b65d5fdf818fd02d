package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Login
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding

	// Browse
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	SwitchPane key.Binding
	Select     key.Binding
	Refresh    key.Binding

	// Detail
	Back key.Binding
	Copy key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Sign in"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch pane"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh months"),
		),

		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Back"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Copy URL"),
		),
	}
}

// screenKeys adapts the key map to help.KeyMap for one screen.
type screenKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (s screenKeys) ShortHelp() []key.Binding  { return s.short }
func (s screenKeys) FullHelp() [][]key.Binding { return s.full }

func (k keyMap) login() screenKeys {
	return screenKeys{
		short: []key.Binding{k.NextField, k.Submit},
		full:  [][]key.Binding{{k.NextField, k.PrevField, k.Submit}},
	}
}

func (k keyMap) browse() screenKeys {
	return screenKeys{
		short: []key.Binding{k.Up, k.Down, k.SwitchPane, k.Select, k.Refresh, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Top, k.Bottom},
			{k.SwitchPane, k.Select, k.Refresh},
			{k.CycleTheme, k.Help, k.Quit},
		},
	}
}

func (k keyMap) detail() screenKeys {
	return screenKeys{
		short: []key.Binding{k.Back, k.Copy, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Back, k.Copy},
			{k.CycleTheme, k.Help, k.Quit},
		},
	}
}
