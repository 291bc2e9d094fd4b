package wm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a string does not name a window kind.
var ErrUnknownKind = errors.New("unknown window kind")

// Kind identifies the mini-application hosted by a window.
type Kind int

const (
	// KindTimer is the pomodoro timer.
	KindTimer Kind = iota
	// KindTaskList is the to-do list.
	KindTaskList
	// KindShell is the simulated terminal.
	KindShell
	// KindImageViewer is the image gallery.
	KindImageViewer
)

// String returns the stable wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTimer:
		return "pomodoro"
	case KindTaskList:
		return "todo"
	case KindShell:
		return "terminal"
	case KindImageViewer:
		return "image"
	default:
		return "unknown"
	}
}

// Title returns the window title derived from the kind.
func (k Kind) Title() string {
	switch k {
	case KindTimer:
		return "Pomodoro Timer"
	case KindTaskList:
		return "To-Do List"
	case KindShell:
		return "Terminal"
	case KindImageViewer:
		return "Image Viewer"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= KindTimer && k <= KindImageViewer
}

// Kinds returns every kind in dock order.
func Kinds() []Kind {
	return []Kind{KindTimer, KindTaskList, KindShell, KindImageViewer}
}

// ParseKind resolves a wire name or alias to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pomodoro", "timer":
		return KindTimer, nil
	case "todo", "tasks", "tasklist":
		return KindTaskList, nil
	case "terminal", "shell":
		return KindShell, nil
	case "image", "images", "viewer", "imageviewer":
		return KindImageViewer, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
