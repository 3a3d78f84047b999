package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	cached  key.Binding
	refresh key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "rank lineup")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		cached:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle cached lineup")),
		refresh: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle library refresh")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "pick another")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.cached, k.refresh},
		{k.back, k.restart, k.quit},
	}
}
