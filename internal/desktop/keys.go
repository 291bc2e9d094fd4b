package desktop

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/tiling"
	"github.com/1broseidon/termdesk/internal/wm"
)

type keyMap struct {
	OpenTimer  key.Binding
	OpenTodo   key.Binding
	OpenShell  key.Binding
	OpenImages key.Binding
	Close      key.Binding
	Minimize   key.Binding
	Restore    key.Binding
	Next       key.Binding
	Prev       key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Tile       key.Binding
	Fullscreen key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		OpenTimer: key.NewBinding(
			key.WithKeys("alt+1", "f1"),
			key.WithHelp("alt+1", "pomodoro"),
		),
		OpenTodo: key.NewBinding(
			key.WithKeys("alt+2", "f2"),
			key.WithHelp("alt+2", "to-do"),
		),
		OpenShell: key.NewBinding(
			key.WithKeys("alt+3", "f3"),
			key.WithHelp("alt+3", "terminal"),
		),
		OpenImages: key.NewBinding(
			key.WithKeys("alt+4", "f4"),
			key.WithHelp("alt+4", "images"),
		),
		Close: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "minimize"),
		),
		Restore: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "restore last"),
		),
		Next: key.NewBinding(
			key.WithKeys("alt+tab", "ctrl+]"),
			key.WithHelp("alt+tab", "next window"),
		),
		Prev: key.NewBinding(
			key.WithKeys("alt+shift+tab"),
			key.WithHelp("alt+shift+tab", "previous window"),
		),
		Up: key.NewBinding(
			key.WithKeys("alt+up"),
			key.WithHelp("alt+↑↓←→", "focus nearest"),
		),
		Down:  key.NewBinding(key.WithKeys("alt+down")),
		Left:  key.NewBinding(key.WithKeys("alt+left")),
		Right: key.NewBinding(key.WithKeys("alt+right")),
		Tile: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "tile"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "fullscreen"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.OpenTimer, k.OpenTodo, k.OpenShell, k.OpenImages, k.Close, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.OpenTimer, k.OpenTodo, k.OpenShell, k.OpenImages},
		{k.Close, k.Minimize, k.Restore, k.Fullscreen},
		{k.Next, k.Prev, k.Up, k.Tile},
		{k.Theme, k.Help, k.Quit},
	}
}

// openKind maps an open binding to its kind.
func (k keyMap) openKind(msg tea.KeyMsg) (wm.Kind, bool) {
	switch {
	case key.Matches(msg, k.OpenTimer):
		return wm.KindTimer, true
	case key.Matches(msg, k.OpenTodo):
		return wm.KindTaskList, true
	case key.Matches(msg, k.OpenShell):
		return wm.KindShell, true
	case key.Matches(msg, k.OpenImages):
		return wm.KindImageViewer, true
	}
	return 0, false
}

func (k keyMap) direction(msg tea.KeyMsg) (tiling.Direction, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return tiling.DirUp, true
	case key.Matches(msg, k.Down):
		return tiling.DirDown, true
	case key.Matches(msg, k.Left):
		return tiling.DirLeft, true
	case key.Matches(msg, k.Right):
		return tiling.DirRight, true
	}
	return 0, false
}
