package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme selects the desktop colour palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// WindowConfig controls default window geometry in terminal cells.
type WindowConfig struct {
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	MinWidth      int `yaml:"min_width"`
	MinHeight     int `yaml:"min_height"`
	CascadeStep   int `yaml:"cascade_step"`
	// StackBase is the stack order the first window is placed above.
	StackBase int64 `yaml:"stack_base"`
}

// PomodoroConfig holds the timer durations in minutes.
type PomodoroConfig struct {
	FocusMinutes      int `yaml:"focus_minutes"`
	ShortBreakMinutes int `yaml:"short_break_minutes"`
	LongBreakMinutes  int `yaml:"long_break_minutes"`
}

// TodoConfig controls task list persistence.
type TodoConfig struct {
	Persist  bool   `yaml:"persist"`
	StoreDir string `yaml:"store_dir,omitempty"`
}

// ShellConfig customises the simulated shell prompt.
type ShellConfig struct {
	User string `yaml:"user"`
	Host string `yaml:"host"`
}

// LoggingConfig configures the window action log.
type LoggingConfig struct {
	// Enabled turns window action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/termdesk/window-actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the effective termdesk configuration.
type Config struct {
	Theme    Theme          `yaml:"theme"`
	Clock24h bool           `yaml:"clock_24h"`
	LogLevel string         `yaml:"log_level"`
	DebugLog string         `yaml:"debug_log,omitempty"`
	Window   WindowConfig   `yaml:"window"`
	Pomodoro PomodoroConfig `yaml:"pomodoro"`
	Todo     TodoConfig     `yaml:"todo"`
	Shell    ShellConfig    `yaml:"shell"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:    ThemeDark,
		Clock24h: true,
		LogLevel: "info",
		Window: WindowConfig{
			DefaultWidth:  60,
			DefaultHeight: 18,
			MinWidth:      30,
			MinHeight:     8,
			CascadeStep:   2,
			StackBase:     100,
		},
		Pomodoro: PomodoroConfig{
			FocusMinutes:      25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
		},
		Todo: TodoConfig{
			Persist: true,
		},
		Shell: ShellConfig{
			User: "user",
			Host: "termdesk",
		},
	}
}

// DefaultConfigPath returns ~/.config/termdesk/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "termdesk", "config.yaml"), nil
}

func homeOrDot() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		home = "."
	}
	return home
}

// TodoStoreDir returns the task store directory with defaults applied.
func (c *Config) TodoStoreDir() string {
	if c != nil && strings.TrimSpace(c.Todo.StoreDir) != "" {
		return expandHome(c.Todo.StoreDir)
	}
	return filepath.Join(homeOrDot(), ".local/share/termdesk/todos")
}

// DebugLogPath returns where the process log goes while the desktop owns
// the terminal.
func (c *Config) DebugLogPath() string {
	if c != nil && strings.TrimSpace(c.DebugLog) != "" {
		return expandHome(c.DebugLog)
	}
	return filepath.Join(homeOrDot(), ".local/state/termdesk/termdesk.log")
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		cfg.File = filepath.Join(homeOrDot(), ".local/share/termdesk/window-actions.log")
	} else {
		cfg.File = expandHome(cfg.File)
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the source YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return &ValidationError{Path: "theme", Err: fmt.Errorf("theme must be one of: dark, light")}
	}
	if !validLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.Window.MinWidth < 12 {
		return &ValidationError{Path: "window.min_width", Err: fmt.Errorf("min_width must be >= 12")}
	}
	if c.Window.MinHeight < 4 {
		return &ValidationError{Path: "window.min_height", Err: fmt.Errorf("min_height must be >= 4")}
	}
	if c.Window.DefaultWidth < c.Window.MinWidth {
		return &ValidationError{Path: "window.default_width", Err: fmt.Errorf("default_width must be >= min_width (%d)", c.Window.MinWidth)}
	}
	if c.Window.DefaultHeight < c.Window.MinHeight {
		return &ValidationError{Path: "window.default_height", Err: fmt.Errorf("default_height must be >= min_height (%d)", c.Window.MinHeight)}
	}
	if c.Window.CascadeStep < 0 {
		return &ValidationError{Path: "window.cascade_step", Err: fmt.Errorf("cascade_step must be >= 0")}
	}
	if c.Window.StackBase < 0 {
		return &ValidationError{Path: "window.stack_base", Err: fmt.Errorf("stack_base must be >= 0")}
	}
	minutes := []struct {
		path  string
		value int
	}{
		{"pomodoro.focus_minutes", c.Pomodoro.FocusMinutes},
		{"pomodoro.short_break_minutes", c.Pomodoro.ShortBreakMinutes},
		{"pomodoro.long_break_minutes", c.Pomodoro.LongBreakMinutes},
	}
	for _, m := range minutes {
		if m.value < 1 || m.value > 120 {
			return &ValidationError{Path: m.path, Err: fmt.Errorf("must be between 1 and 120 minutes")}
		}
	}
	if strings.TrimSpace(c.Shell.User) == "" {
		return &ValidationError{Path: "shell.user", Err: fmt.Errorf("user is required")}
	}
	if strings.TrimSpace(c.Shell.Host) == "" {
		return &ValidationError{Path: "shell.host", Err: fmt.Errorf("host is required")}
	}
	if c.Logging.Level != "" && !validLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	for _, warning := range c.validationWarnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	if c.Window.DefaultWidth > 200 || c.Window.DefaultHeight > 80 {
		warnings = append(warnings, "window default size is larger than most terminals; windows will be clamped to the screen")
	}
	if !c.Todo.Persist && strings.TrimSpace(c.Todo.StoreDir) != "" {
		warnings = append(warnings, "todo.store_dir is set but todo.persist is false; tasks will not be saved")
	}
	return warnings
}

func validLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func expandHome(path string) string {
	if path == "~" {
		return homeOrDot()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeOrDot(), path[2:])
	}
	return path
}
