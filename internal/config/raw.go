package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWindowConfig struct {
	DefaultWidth  *int   `yaml:"default_width"`
	DefaultHeight *int   `yaml:"default_height"`
	MinWidth      *int   `yaml:"min_width"`
	MinHeight     *int   `yaml:"min_height"`
	CascadeStep   *int   `yaml:"cascade_step"`
	StackBase     *int64 `yaml:"stack_base"`
}

type RawPomodoroConfig struct {
	FocusMinutes      *int `yaml:"focus_minutes"`
	ShortBreakMinutes *int `yaml:"short_break_minutes"`
	LongBreakMinutes  *int `yaml:"long_break_minutes"`
}

type RawTodoConfig struct {
	Persist  *bool   `yaml:"persist"`
	StoreDir *string `yaml:"store_dir"`
}

type RawShellConfig struct {
	User *string `yaml:"user"`
	Host *string `yaml:"host"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors Config with optional fields so that files can be
// layered on top of each other.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Theme    *Theme             `yaml:"theme"`
	Clock24h *bool              `yaml:"clock_24h"`
	LogLevel *string            `yaml:"log_level"`
	DebugLog *string            `yaml:"debug_log"`
	Window   *RawWindowConfig   `yaml:"window"`
	Pomodoro *RawPomodoroConfig `yaml:"pomodoro"`
	Todo     *RawTodoConfig     `yaml:"todo"`
	Shell    *RawShellConfig    `yaml:"shell"`
	Logging  *RawLoggingConfig  `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	if overlay.Theme != nil {
		out.Theme = overlay.Theme
	}
	if overlay.Clock24h != nil {
		out.Clock24h = overlay.Clock24h
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.DebugLog != nil {
		out.DebugLog = overlay.DebugLog
	}
	if overlay.Window != nil {
		base := RawWindowConfig{}
		if out.Window != nil {
			base = *out.Window
		}
		merged := mergeRawWindow(base, *overlay.Window)
		out.Window = &merged
	}
	if overlay.Pomodoro != nil {
		base := RawPomodoroConfig{}
		if out.Pomodoro != nil {
			base = *out.Pomodoro
		}
		merged := mergeRawPomodoro(base, *overlay.Pomodoro)
		out.Pomodoro = &merged
	}
	if overlay.Todo != nil {
		base := RawTodoConfig{}
		if out.Todo != nil {
			base = *out.Todo
		}
		if overlay.Todo.Persist != nil {
			base.Persist = overlay.Todo.Persist
		}
		if overlay.Todo.StoreDir != nil {
			base.StoreDir = overlay.Todo.StoreDir
		}
		out.Todo = &base
	}
	if overlay.Shell != nil {
		base := RawShellConfig{}
		if out.Shell != nil {
			base = *out.Shell
		}
		if overlay.Shell.User != nil {
			base.User = overlay.Shell.User
		}
		if overlay.Shell.Host != nil {
			base.Host = overlay.Shell.Host
		}
		out.Shell = &base
	}
	if overlay.Logging != nil {
		base := RawLoggingConfig{}
		if out.Logging != nil {
			base = *out.Logging
		}
		merged := mergeRawLogging(base, *overlay.Logging)
		out.Logging = &merged
	}
	return out
}

func mergeRawWindow(base RawWindowConfig, overlay RawWindowConfig) RawWindowConfig {
	out := base
	if overlay.DefaultWidth != nil {
		out.DefaultWidth = overlay.DefaultWidth
	}
	if overlay.DefaultHeight != nil {
		out.DefaultHeight = overlay.DefaultHeight
	}
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.CascadeStep != nil {
		out.CascadeStep = overlay.CascadeStep
	}
	if overlay.StackBase != nil {
		out.StackBase = overlay.StackBase
	}
	return out
}

func mergeRawPomodoro(base RawPomodoroConfig, overlay RawPomodoroConfig) RawPomodoroConfig {
	out := base
	if overlay.FocusMinutes != nil {
		out.FocusMinutes = overlay.FocusMinutes
	}
	if overlay.ShortBreakMinutes != nil {
		out.ShortBreakMinutes = overlay.ShortBreakMinutes
	}
	if overlay.LongBreakMinutes != nil {
		out.LongBreakMinutes = overlay.LongBreakMinutes
	}
	return out
}

func mergeRawLogging(base RawLoggingConfig, overlay RawLoggingConfig) RawLoggingConfig {
	out := base
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	if overlay.Level != nil {
		out.Level = overlay.Level
	}
	if overlay.File != nil {
		out.File = overlay.File
	}
	if overlay.MaxSizeMB != nil {
		out.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxFiles != nil {
		out.MaxFiles = overlay.MaxFiles
	}
	return out
}
