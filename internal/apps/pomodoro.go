package apps

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/config"
)

// TimerMode is one of the pomodoro phases.
type TimerMode int

const (
	ModeFocus TimerMode = iota
	ModeShortBreak
	ModeLongBreak
	modeCount
)

func (m TimerMode) String() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "?"
	}
}

type pomodoroTickMsg struct {
	window string
	gen    int
}

func (m pomodoroTickMsg) Target() string { return m.window }

// Pomodoro is a focus/break countdown timer.
type Pomodoro struct {
	windowID  string
	durations [modeCount]time.Duration
	mode      TimerMode
	remaining time.Duration
	running   bool
	// gen invalidates ticks scheduled before the last pause, reset or mode change.
	gen       int
	completed int

	bar progress.Model

	editing bool
	form    *huh.Form
	fFocus  string
	fShort  string
	fLong   string
}

// NewPomodoro creates a stopped timer in focus mode.
func NewPomodoro(windowID string, cfg config.PomodoroConfig) *Pomodoro {
	p := &Pomodoro{
		windowID: windowID,
		durations: [modeCount]time.Duration{
			time.Duration(cfg.FocusMinutes) * time.Minute,
			time.Duration(cfg.ShortBreakMinutes) * time.Minute,
			time.Duration(cfg.LongBreakMinutes) * time.Minute,
		},
		bar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	for i, d := range p.durations {
		if d <= 0 {
			p.durations[i] = []time.Duration{25 * time.Minute, 5 * time.Minute, 15 * time.Minute}[i]
		}
	}
	p.remaining = p.durations[ModeFocus]
	return p
}

func (p *Pomodoro) Init() tea.Cmd { return nil }

func (p *Pomodoro) Capturing() bool { return p.editing }

// Mode returns the current phase.
func (p *Pomodoro) Mode() TimerMode { return p.mode }

// Remaining returns the time left in the current phase.
func (p *Pomodoro) Remaining() time.Duration { return p.remaining }

// Running reports whether the countdown is active.
func (p *Pomodoro) Running() bool { return p.running }

// Completed returns the number of finished focus sessions.
func (p *Pomodoro) Completed() int { return p.completed }

// Duration returns the configured length of mode.
func (p *Pomodoro) Duration(mode TimerMode) time.Duration { return p.durations[mode] }

// Progress returns the elapsed fraction of the current phase.
func (p *Pomodoro) Progress() float64 {
	total := p.durations[p.mode]
	if total <= 0 {
		return 0
	}
	return float64(total-p.remaining) / float64(total)
}

func (p *Pomodoro) tick() tea.Cmd {
	window, gen := p.windowID, p.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return pomodoroTickMsg{window: window, gen: gen}
	})
}

// Start begins or resumes the countdown.
func (p *Pomodoro) Start() tea.Cmd {
	if p.running || p.remaining <= 0 {
		return nil
	}
	p.running = true
	p.gen++
	return p.tick()
}

// Pause stops the countdown, keeping the remaining time.
func (p *Pomodoro) Pause() {
	if !p.running {
		return
	}
	p.running = false
	p.gen++
}

// Reset stops the countdown and refills the current phase.
func (p *Pomodoro) Reset() {
	p.running = false
	p.gen++
	p.remaining = p.durations[p.mode]
}

// SetMode switches phase, which also resets the timer.
func (p *Pomodoro) SetMode(mode TimerMode) {
	if mode < 0 || mode >= modeCount {
		return
	}
	p.mode = mode
	p.Reset()
}

// SetDuration changes the length of mode and resets the timer.
func (p *Pomodoro) SetDuration(mode TimerMode, d time.Duration) {
	if mode < 0 || mode >= modeCount || d <= 0 {
		return
	}
	p.durations[mode] = d
	p.Reset()
}

func (p *Pomodoro) Update(msg tea.Msg) (App, tea.Cmd) {
	// The countdown keeps running behind the settings form.
	if tick, ok := msg.(pomodoroTickMsg); ok {
		return p, p.advance(tick)
	}
	if p.editing {
		return p, p.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "s":
			if p.running {
				p.Pause()
				return p, nil
			}
			return p, p.Start()
		case "r":
			p.Reset()
		case "tab", "right", "l":
			p.SetMode((p.mode + 1) % modeCount)
		case "shift+tab", "left", "h":
			p.SetMode((p.mode + modeCount - 1) % modeCount)
		case "1", "2", "3":
			p.SetMode(TimerMode(msg.String()[0] - '1'))
		case "e":
			return p, p.startEditing()
		}
	}
	return p, nil
}

func (p *Pomodoro) advance(msg pomodoroTickMsg) tea.Cmd {
	if msg.gen != p.gen || !p.running {
		return nil
	}
	p.remaining -= time.Second
	if p.remaining > 0 {
		return p.tick()
	}
	p.remaining = 0
	p.running = false
	p.gen++
	text := p.mode.String() + " finished"
	if p.mode == ModeFocus {
		p.completed++
		text = fmt.Sprintf("Focus session done (%d completed)", p.completed)
	}
	return notify(p.windowID, text, true)
}

func (p *Pomodoro) startEditing() tea.Cmd {
	p.fFocus = strconv.Itoa(int(p.durations[ModeFocus] / time.Minute))
	p.fShort = strconv.Itoa(int(p.durations[ModeShortBreak] / time.Minute))
	p.fLong = strconv.Itoa(int(p.durations[ModeLongBreak] / time.Minute))

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("focus").
				Title("Focus (minutes)").
				Value(&p.fFocus).
				Validate(validateMinutes),
			huh.NewInput().
				Key("short_break").
				Title("Short Break (minutes)").
				Value(&p.fShort).
				Validate(validateMinutes),
			huh.NewInput().
				Key("long_break").
				Title("Long Break (minutes)").
				Value(&p.fLong).
				Validate(validateMinutes),
		),
	).WithShowHelp(false).WithShowErrors(true)

	p.editing = true
	return p.form.Init()
}

func validateMinutes(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > 120 {
		return fmt.Errorf("enter 1-120")
	}
	return nil
}

func (p *Pomodoro) updateEditing(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		p.editing = false
		p.form = nil
		return nil
	}
	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.applyForm()
		p.editing = false
		p.form = nil
		return nil
	case huh.StateAborted:
		p.editing = false
		p.form = nil
		return nil
	}
	return cmd
}

func (p *Pomodoro) applyForm() {
	fields := []struct {
		mode TimerMode
		val  string
	}{
		{ModeFocus, p.fFocus},
		{ModeShortBreak, p.fShort},
		{ModeLongBreak, p.fLong},
	}
	for _, f := range fields {
		if v, err := strconv.Atoi(strings.TrimSpace(f.val)); err == nil && v >= 1 && v <= 120 {
			p.durations[f.mode] = time.Duration(v) * time.Minute
		}
	}
	p.Reset()
}

// FormatClock renders d as MM:SS.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (p *Pomodoro) View(width, height int, pal Palette) string {
	if p.editing && p.form != nil {
		p.form = p.form.WithWidth(width - 2)
		return fit(p.form.View(), width, height)
	}

	var tabs []string
	for m := TimerMode(0); m < modeCount; m++ {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(pal.Muted)
		if m == p.mode {
			style = style.Bold(true).Foreground(lipgloss.Color("15")).Background(pal.Accent)
		}
		tabs = append(tabs, style.Render(m.String()))
	}

	clockColor := pal.Text
	if p.running {
		clockColor = modeColor(p.mode, pal)
	}
	clock := lipgloss.NewStyle().Bold(true).Foreground(clockColor).Render(FormatClock(p.remaining))

	barWidth := width - 6
	if barWidth < 10 {
		barWidth = 10
	}
	p.bar.Width = barWidth

	state := "paused"
	if p.running {
		state = "running"
	} else if p.remaining == p.durations[p.mode] {
		state = "ready"
	} else if p.remaining == 0 {
		state = "done"
	}

	help := lipgloss.NewStyle().Foreground(pal.Muted).Render("space start · r reset · tab mode · e edit")
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		clock,
		lipgloss.NewStyle().Foreground(pal.Muted).Render(state),
		"",
		p.bar.ViewAs(p.Progress()),
		"",
		fmt.Sprintf("Completed pomodoros: %d", p.completed),
		"",
		help,
	)
	return fit(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body), width, height)
}

func modeColor(m TimerMode, pal Palette) lipgloss.Color {
	switch m {
	case ModeShortBreak:
		return pal.Success
	case ModeLongBreak:
		return pal.Accent
	default:
		return pal.Danger
	}
}
