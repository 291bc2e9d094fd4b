// Package apps implements the mini-applications hosted in desktop windows.
package apps

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/todostore"
	"github.com/1broseidon/termdesk/internal/wm"
)

// App is a mini-application bound to one window.
type App interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (App, tea.Cmd)
	View(width, height int, p Palette) string
	// Capturing reports whether the app wants every key, e.g. while a text
	// field has focus, so desktop shortcuts must not steal them.
	Capturing() bool
}

// Closer is implemented by apps that hold resources beyond their window.
type Closer interface {
	Close()
}

// Targeted is implemented by messages addressed to a single window.
type Targeted interface {
	Target() string
}

// NotifyMsg asks the desktop to show a transient notice.
type NotifyMsg struct {
	WindowID string
	Text     string
	Bell     bool
}

// Deps carries what apps need from the session.
type Deps struct {
	Config *config.Config
	Store  todostore.Store
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

func (d Deps) withDefaults() Deps {
	if d.Config == nil {
		d.Config = config.DefaultConfig()
	}
	if d.Store == nil {
		d.Store = todostore.Memory()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

// New creates the app for a window of the given kind.
func New(kind wm.Kind, windowID string, deps Deps) App {
	deps = deps.withDefaults()
	switch kind {
	case wm.KindTimer:
		return NewPomodoro(windowID, deps.Config.Pomodoro)
	case wm.KindTaskList:
		return NewTodo(windowID, deps)
	case wm.KindShell:
		return NewShell(windowID, deps)
	case wm.KindImageViewer:
		return NewGallery(windowID)
	default:
		return placeholder{}
	}
}

// Palette is the set of colours apps render with.
type Palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
	Surface lipgloss.Color
	Select  lipgloss.Color
}

func DarkPalette() Palette {
	return Palette{
		Text:    lipgloss.Color("252"),
		Muted:   lipgloss.Color("241"),
		Accent:  lipgloss.Color("62"),
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("214"),
		Danger:  lipgloss.Color("203"),
		Surface: lipgloss.Color("235"),
		Select:  lipgloss.Color("237"),
	}
}

func LightPalette() Palette {
	return Palette{
		Text:    lipgloss.Color("235"),
		Muted:   lipgloss.Color("245"),
		Accent:  lipgloss.Color("25"),
		Success: lipgloss.Color("28"),
		Warning: lipgloss.Color("130"),
		Danger:  lipgloss.Color("160"),
		Surface: lipgloss.Color("255"),
		Select:  lipgloss.Color("253"),
	}
}

// PaletteFor maps a configured theme to its palette.
func PaletteFor(theme config.Theme) Palette {
	if theme == config.ThemeLight {
		return LightPalette()
	}
	return DarkPalette()
}

type placeholder struct{}

func (placeholder) Init() tea.Cmd { return nil }

func (p placeholder) Update(tea.Msg) (App, tea.Cmd) { return p, nil }

func (placeholder) View(int, int, Palette) string { return "" }

func (placeholder) Capturing() bool { return false }

// notify builds a command delivering a NotifyMsg.
func notify(windowID, text string, bell bool) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{WindowID: windowID, Text: text, Bell: bell}
	}
}

// fit pads or crops s to exactly width x height cells.
func fit(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).MaxWidth(width).
		Height(height).MaxHeight(height).
		Render(s)
}
