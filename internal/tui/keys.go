package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Throttle  key.Binding
	Brake     key.Binding
	Left      key.Binding
	Right     key.Binding
	Handbrake key.Binding
	Reset     key.Binding
	Pause     key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Throttle:  key.NewBinding(key.WithKeys("w", "up"), key.WithHelp("w/↑", "throttle")),
	Brake:     key.NewBinding(key.WithKeys("s", "down"), key.WithHelp("s/↓", "brake")),
	Left:      key.NewBinding(key.WithKeys("a", "left"), key.WithHelp("a/←", "left")),
	Right:     key.NewBinding(key.WithKeys("d", "right"), key.WithHelp("d/→", "right")),
	Handbrake: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "handbrake")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Throttle, k.Brake, k.Left, k.Right, k.Handbrake, k.Reset, k.Pause, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Throttle, k.Brake, k.Handbrake},
		{k.Left, k.Right},
		{k.Reset, k.Pause, k.Quit},
	}
}
