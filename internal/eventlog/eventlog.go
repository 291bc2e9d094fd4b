// Package eventlog writes window lifecycle actions to a rotating log file.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/wm"
)

// LogLevel defines the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ActionType names a logged window action.
type ActionType string

const (
	ActionOpen     ActionType = "OPEN"
	ActionRestore  ActionType = "RESTORE"
	ActionFocus    ActionType = "FOCUS"
	ActionMinimize ActionType = "MINIMIZE"
	ActionClose    ActionType = "CLOSE"
	ActionActivate ActionType = "ACTIVATE"
)

func actionFor(t wm.EventType) ActionType {
	switch t {
	case wm.EventOpened:
		return ActionOpen
	case wm.EventRestored:
		return ActionRestore
	case wm.EventFocused:
		return ActionFocus
	case wm.EventMinimized:
		return ActionMinimize
	case wm.EventClosed:
		return ActionClose
	default:
		return ActionActivate
	}
}

// actionLevel returns the log level for an action type.
func actionLevel(action ActionType) LogLevel {
	switch action {
	case ActionFocus, ActionActivate:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// LogConfig holds configuration for the event logger.
type LogConfig struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// FromConfig converts the logging section of the termdesk config.
func FromConfig(cfg *config.Config) LogConfig {
	lc := cfg.GetLoggingConfig()
	return LogConfig{
		Enabled:   lc.Enabled,
		Level:     ParseLogLevel(lc.Level),
		FilePath:  lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	}
}

// Logger handles window action logging with file rotation.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      LogConfig
	currentSize int64
	now         func() time.Time
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LogConfig) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg, now: time.Now}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Logger{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
		now:         time.Now,
	}, nil
}

// Observer returns a callback suitable for wm.Manager.Subscribe.
func (l *Logger) Observer() func(wm.Event) {
	return l.Record
}

// Record writes one lifecycle event.
func (l *Logger) Record(ev wm.Event) {
	if l == nil || !l.config.Enabled {
		return
	}

	action := actionFor(ev.Type)
	if actionLevel(action) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")
	if ev.Window.ID != "" {
		fmt.Fprintf(&sb, " id=%s kind=%s title=%q stack=%d", ev.Window.ID, ev.Window.Kind, ev.Window.Title, ev.Window.StackOrder)
	}
	if ev.ActiveID != "" {
		fmt.Fprintf(&sb, " active=%s", ev.ActiveID)
	} else {
		sb.WriteString(" active=none")
	}
	sb.WriteString("\n")

	n, err := l.file.WriteString(sb.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts window-actions.log to .1, .1 to .2 and so on, keeping
// MaxFiles rotated files.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
		}
	}

	if l.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else {
		os.Remove(basePath)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLogLevel converts a string to LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
