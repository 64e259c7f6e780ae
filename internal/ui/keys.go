package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a user action triggered from the watch view
type Action string

const (
	ActionGoOffline Action = "offline"
	ActionLogout    Action = "logout"
	ActionRefresh   Action = "refresh"
	ActionSync      Action = "sync"
)

// WatchKeys defines the key bindings of the watch view
type WatchKeys struct {
	GoOffline key.Binding
	Logout    key.Binding
	Quit      key.Binding
	Refresh   key.Binding
	Sync      key.Binding
}

func newWatchKeys() WatchKeys {
	return WatchKeys{
		GoOffline: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "go offline")),
		Logout:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "logout")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Sync:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
	}
}

// ShortHelp implements help.KeyMap
func (k WatchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Sync, k.GoOffline, k.Logout, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap
func (k WatchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// actionFor returns the action bound to msg
func (k WatchKeys) actionFor(msg tea.KeyMsg) (Action, bool) {
	switch {
	case key.Matches(msg, k.Sync):
		return ActionSync, true
	case key.Matches(msg, k.GoOffline):
		return ActionGoOffline, true
	case key.Matches(msg, k.Logout):
		return ActionLogout, true
	case key.Matches(msg, k.Refresh):
		return ActionRefresh, true
	}
	return "", false
}
