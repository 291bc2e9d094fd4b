package apps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ShellEntry is one executed command and its output.
type ShellEntry struct {
	Command string
	Output  []string
	IsError bool
}

// Shell is a simulated terminal with a fixed set of builtins.
type Shell struct {
	windowID string
	deps     Deps

	entries []ShellEntry
	history []string
	// recall indexes history while browsing with up/down; len(history) means
	// the fresh input line.
	recall int
	draft  string

	input    textinput.Model
	viewport viewport.Model
	follow   bool
}

var readme = []string{
	"# termdesk",
	"",
	"This is a simulated terminal environment.",
	"Type 'help' to see available commands.",
}

var homeListing = []string{
	"Applications/",
	"Desktop/",
	"Documents/",
	"Downloads/",
	"Pictures/",
	".bashrc",
	".zshrc",
	"README.md",
}

// NewShell creates a shell showing the welcome banner.
func NewShell(windowID string, deps Deps) *Shell {
	deps = deps.withDefaults()
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Focus()

	s := &Shell{
		windowID: windowID,
		deps:     deps,
		input:    ti,
		viewport: viewport.New(0, 0),
		follow:   true,
		entries: []ShellEntry{{
			Command: "welcome",
			Output:  []string{"Welcome to termdesk Terminal", "Type 'help' to see available commands"},
		}},
	}
	return s
}

func (s *Shell) Init() tea.Cmd { return textinput.Blink }

// Capturing is always true: the prompt owns plain keystrokes.
func (s *Shell) Capturing() bool { return true }

// Entries returns the scrollback.
func (s *Shell) Entries() []ShellEntry { return s.entries }

// History returns the executed command lines, oldest first.
func (s *Shell) History() []string { return s.history }

func (s *Shell) prompt() string {
	return fmt.Sprintf("%s@%s:~$", s.deps.Config.Shell.User, s.deps.Config.Shell.Host)
}

// Exec runs one command line and appends the result to the scrollback.
func (s *Shell) Exec(line string) {
	cmd := strings.TrimSpace(line)
	if cmd == "" {
		return
	}
	s.history = append(s.history, cmd)
	s.recall = len(s.history)
	s.follow = true

	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	entry := ShellEntry{Command: cmd}
	switch strings.ToLower(name) {
	case "clear":
		s.entries = nil
		return
	case "help":
		entry.Output = []string{
			"Available commands:",
			"- help: Show this help menu",
			"- clear: Clear the terminal",
			"- date: Show current date and time",
			"- echo [text]: Print text",
			"- ls: List files and directories",
			"- whoami: Display current user",
			"- pwd: Print working directory",
			"- cat [filename]: Show file content",
			"- mkdir [name]: Create directory",
			"- history: Show command history",
		}
	case "date":
		entry.Output = []string{s.deps.Now().Format("Mon Jan 02 2006 15:04:05 MST")}
	case "echo":
		entry.Output = []string{arg}
	case "ls":
		entry.Output = append([]string(nil), homeListing...)
	case "whoami":
		entry.Output = []string{s.deps.Config.Shell.User}
	case "pwd":
		entry.Output = []string{"/home/" + s.deps.Config.Shell.User}
	case "cat":
		switch arg {
		case "":
			entry.Output, entry.IsError = []string{"cat: missing operand"}, true
		case "README.md":
			entry.Output = append([]string(nil), readme...)
		default:
			entry.Output, entry.IsError = []string{fmt.Sprintf("cat: %s: No such file or directory", arg)}, true
		}
	case "mkdir":
		if arg == "" {
			entry.Output, entry.IsError = []string{"mkdir: missing operand"}, true
		} else {
			entry.Output = []string{"Directory created: " + arg}
		}
	case "history":
		for i, h := range s.history {
			entry.Output = append(entry.Output, fmt.Sprintf("%4d  %s", i+1, h))
		}
	default:
		entry.Output, entry.IsError = []string{"Command not found: " + cmd}, true
	}
	s.entries = append(s.entries, entry)
}

func (s *Shell) Update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			s.Exec(s.input.Value())
			s.input.SetValue("")
			s.draft = ""
			return s, nil
		case "up":
			s.recallPrev()
			return s, nil
		case "down":
			s.recallNext()
			return s, nil
		case "pgup":
			s.follow = false
			s.viewport.HalfViewUp()
			return s, nil
		case "pgdown":
			s.viewport.HalfViewDown()
			s.follow = s.viewport.AtBottom()
			return s, nil
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		s.follow = s.viewport.AtBottom()
		return s, cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Shell) recallPrev() {
	if len(s.history) == 0 || s.recall == 0 {
		return
	}
	if s.recall == len(s.history) {
		s.draft = s.input.Value()
	}
	s.recall--
	s.input.SetValue(s.history[s.recall])
	s.input.CursorEnd()
}

func (s *Shell) recallNext() {
	if s.recall >= len(s.history) {
		return
	}
	s.recall++
	if s.recall == len(s.history) {
		s.input.SetValue(s.draft)
	} else {
		s.input.SetValue(s.history[s.recall])
	}
	s.input.CursorEnd()
}

func (s *Shell) View(width, height int, pal Palette) string {
	promptStyle := lipgloss.NewStyle().Foreground(pal.Success)
	errStyle := lipgloss.NewStyle().Foreground(pal.Danger)
	textStyle := lipgloss.NewStyle().Foreground(pal.Text)

	prompt := promptStyle.Render(s.prompt())
	var lines []string
	for _, e := range s.entries {
		lines = append(lines, prompt+" "+textStyle.Render(e.Command))
		for _, out := range e.Output {
			if e.IsError {
				lines = append(lines, errStyle.Render(out))
			} else {
				lines = append(lines, textStyle.Render(out))
			}
		}
	}

	s.input.Width = width - lipgloss.Width(prompt) - 2
	inputLine := prompt + " " + s.input.View()

	s.viewport.Width = width
	s.viewport.Height = height - 1
	if s.viewport.Height < 0 {
		s.viewport.Height = 0
	}
	s.viewport.SetContent(strings.Join(lines, "\n"))
	if s.follow {
		s.viewport.GotoBottom()
	}

	return fit(s.viewport.View()+"\n"+inputLine, width, height)
}
