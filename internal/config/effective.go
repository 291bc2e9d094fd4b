package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Theme != nil {
		cfg.Theme = *raw.Theme
	}
	if raw.Clock24h != nil {
		cfg.Clock24h = *raw.Clock24h
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.DebugLog != nil {
		cfg.DebugLog = *raw.DebugLog
	}
	if w := raw.Window; w != nil {
		cfg.Window.DefaultWidth = derefInt(w.DefaultWidth, cfg.Window.DefaultWidth)
		cfg.Window.DefaultHeight = derefInt(w.DefaultHeight, cfg.Window.DefaultHeight)
		cfg.Window.MinWidth = derefInt(w.MinWidth, cfg.Window.MinWidth)
		cfg.Window.MinHeight = derefInt(w.MinHeight, cfg.Window.MinHeight)
		cfg.Window.CascadeStep = derefInt(w.CascadeStep, cfg.Window.CascadeStep)
		if w.StackBase != nil {
			cfg.Window.StackBase = *w.StackBase
		}
	}
	if p := raw.Pomodoro; p != nil {
		cfg.Pomodoro.FocusMinutes = derefInt(p.FocusMinutes, cfg.Pomodoro.FocusMinutes)
		cfg.Pomodoro.ShortBreakMinutes = derefInt(p.ShortBreakMinutes, cfg.Pomodoro.ShortBreakMinutes)
		cfg.Pomodoro.LongBreakMinutes = derefInt(p.LongBreakMinutes, cfg.Pomodoro.LongBreakMinutes)
	}
	if t := raw.Todo; t != nil {
		if t.Persist != nil {
			cfg.Todo.Persist = *t.Persist
		}
		if t.StoreDir != nil {
			cfg.Todo.StoreDir = *t.StoreDir
		}
	}
	if s := raw.Shell; s != nil {
		if s.User != nil {
			cfg.Shell.User = *s.User
		}
		if s.Host != nil {
			cfg.Shell.Host = *s.Host
		}
	}
	if l := raw.Logging; l != nil {
		if l.Enabled != nil {
			cfg.Logging.Enabled = *l.Enabled
		}
		if l.Level != nil {
			cfg.Logging.Level = *l.Level
		}
		if l.File != nil {
			cfg.Logging.File = *l.File
		}
		cfg.Logging.MaxSizeMB = derefInt(l.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(l.MaxFiles, cfg.Logging.MaxFiles)
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
