// Package desktop is the terminal desktop: it owns the window registry for
// the session and composes windows, icons and the dock into one screen.
package desktop

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/apps"
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/tiling"
	"github.com/1broseidon/termdesk/internal/todostore"
	"github.com/1broseidon/termdesk/internal/wm"
)

const (
	doubleClick  = 400 * time.Millisecond
	noticeExpiry = 4 * time.Second
)

// Options configures a desktop session.
type Options struct {
	Config  *config.Config
	Manager *wm.Manager
	Store   todostore.Store
	Logger  *slog.Logger
	Now     func() time.Time
	// Bell receives the terminal bell for alerting notices (default stderr).
	Bell io.Writer
	// Reload re-reads the configuration for the RELOAD command.
	Reload func() (*config.Config, error)
}

// ConfigReloadedMsg carries a configuration re-read by a file watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

type tickMsg time.Time

type noticeExpiredMsg struct{ seq int }

type ipcRequestMsg struct {
	req   *ipc.Request
	reply chan *ipc.Response
}

type dragMode int

const (
	dragMove dragMode = iota
	dragResize
)

type dragState struct {
	id     string
	mode   dragMode
	offX   int
	offY   int
	origin tiling.Rect
}

// Model is the root bubbletea model of the desktop.
type Model struct {
	wm     *wm.Manager
	apps   map[string]apps.App
	frames *frames
	deps   apps.Deps

	cfg     *config.Config
	theme   config.Theme
	palette apps.Palette

	keys     keyMap
	help     help.Model
	showHelp bool

	width  int
	height int

	now     func() time.Time
	clock   time.Time
	started time.Time

	drag      *dragState
	lastClick struct {
		id string
		at time.Time
	}
	// minimizedOrder lists minimized window ids, oldest first.
	minimizedOrder []string

	notice    string
	noticeSeq int

	bell   io.Writer
	logger *slog.Logger
	reload func() (*config.Config, error)
}

// New creates a desktop with no open windows.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	bell := opts.Bell
	if bell == nil {
		bell = os.Stderr
	}
	mgr := opts.Manager
	if mgr == nil {
		mgr = wm.New(wm.WithBaseStackOrder(cfg.Window.StackBase), wm.WithLogger(logger))
	}

	m := &Model{
		wm:     mgr,
		apps:   make(map[string]apps.App),
		frames: newFrames(cfg.Window),
		deps: apps.Deps{
			Config: cfg,
			Store:  opts.Store,
			Logger: logger,
			Now:    now,
		},
		cfg:     cfg,
		theme:   cfg.Theme,
		palette: apps.PaletteFor(cfg.Theme),
		keys:    defaultKeyMap(),
		help:    help.New(),
		now:     now,
		clock:   now(),
		started: now(),
		bell:    bell,
		logger:  logger,
		reload:  opts.Reload,
	}
	// Until the first WindowSizeMsg, place windows on a classic 80x24 screen.
	m.frames.resize(tiling.Rect{X: 0, Y: 1, Width: 80, Height: 22})
	mgr.Subscribe(m.trackMinimized)
	return m
}

// Manager returns the window registry owned by the desktop.
func (m *Model) Manager() *wm.Manager { return m.wm }

func (m *Model) trackMinimized(ev wm.Event) {
	switch ev.Type {
	case wm.EventMinimized:
		m.minimizedOrder = append(m.minimizedOrder, ev.Window.ID)
	case wm.EventRestored, wm.EventClosed:
		for i, id := range m.minimizedOrder {
			if id == ev.Window.ID {
				m.minimizedOrder = append(m.minimizedOrder[:i], m.minimizedOrder[i+1:]...)
				break
			}
		}
	}
}

func tick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), tea.SetWindowTitle("termdesk"))
}

// Close releases resources held by open apps.
func (m *Model) Close() {
	for id, app := range m.apps {
		if c, ok := app.(apps.Closer); ok {
			c.Close()
		}
		delete(m.apps, id)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.frames.resize(m.desktopArea())
		return m, nil

	case tickMsg:
		m.clock = time.Time(msg)
		return m, tick()

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case apps.NotifyMsg:
		return m, m.showNotice(msg.Text, msg.Bell)

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.logger.Warn("config reload failed", "error", msg.Err)
			return m, m.showNotice("config error: "+msg.Err.Error(), false)
		}
		m.applyConfig(msg.Config)
		return m, m.showNotice("config reloaded", false)

	case ipcRequestMsg:
		resp, cmd := m.handleRequest(msg.req)
		msg.reply <- resp
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	if t, ok := msg.(apps.Targeted); ok {
		return m, m.updateApp(t.Target(), msg)
	}

	// Blink and form messages carry their own ids; every app filters them.
	var cmds []tea.Cmd
	for id := range m.apps {
		cmds = append(cmds, m.updateApp(id, msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateApp(id string, msg tea.Msg) tea.Cmd {
	app, ok := m.apps[id]
	if !ok {
		return nil
	}
	next, cmd := app.Update(msg)
	m.apps[id] = next
	return cmd
}

// sync brings apps and frames in line with the registry after a change.
func (m *Model) sync() tea.Cmd {
	windows := m.wm.Windows()
	visible := m.wm.RenderOrder()
	live := make(map[string]bool, len(windows))

	var cmds []tea.Cmd
	for _, w := range windows {
		live[w.ID] = true
		if _, ok := m.apps[w.ID]; !ok {
			app := apps.New(w.Kind, w.ID, m.deps)
			m.apps[w.ID] = app
			cmds = append(cmds, app.Init())
		}
		m.frames.place(w.ID, visible)
	}
	for id, app := range m.apps {
		if live[id] {
			continue
		}
		if c, ok := app.(apps.Closer); ok {
			c.Close()
		}
		delete(m.apps, id)
		m.frames.remove(id)
	}
	if m.drag != nil && !live[m.drag.id] {
		m.drag = nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) open(kind wm.Kind) tea.Cmd {
	m.wm.Open(kind)
	return m.sync()
}

func (m *Model) close(id string) tea.Cmd {
	m.wm.Close(id)
	return m.sync()
}

func (m *Model) restoreLast() {
	if n := len(m.minimizedOrder); n > 0 {
		m.wm.Restore(m.minimizedOrder[n-1])
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return nil
	}
	if kind, ok := m.keys.openKind(msg); ok {
		return m.open(kind)
	}
	if dir, ok := m.keys.direction(msg); ok {
		m.focusNearest(dir)
		return nil
	}

	active := m.wm.ActiveID()
	switch {
	case key.Matches(msg, m.keys.Close):
		if active != "" {
			return m.close(active)
		}
		return nil
	case key.Matches(msg, m.keys.Minimize):
		m.wm.Minimize(active)
		return nil
	case key.Matches(msg, m.keys.Restore):
		m.restoreLast()
		return nil
	case key.Matches(msg, m.keys.Next):
		m.wm.Focus(m.wm.Cycle(1))
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.wm.Focus(m.wm.Cycle(-1))
		return nil
	case key.Matches(msg, m.keys.Tile):
		m.frames.tile(m.wm.RenderOrder())
		return nil
	case key.Matches(msg, m.keys.Fullscreen):
		m.frames.toggleFullscreen(active)
		return nil
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return nil
	}

	app, ok := m.apps[active]
	if key.Matches(msg, m.keys.Help) && (!ok || !app.Capturing()) {
		m.showHelp = true
		return nil
	}
	if !ok {
		return nil
	}
	return m.updateApp(active, msg)
}

// focusNearest moves focus to the closest visible window in dir.
func (m *Model) focusNearest(dir tiling.Direction) {
	active := m.wm.ActiveID()
	cur, ok := m.frames.get(active)
	if !ok {
		if top, ok := m.wm.Topmost(); ok {
			m.wm.Focus(top.ID)
		}
		return
	}
	var ids []string
	var rects []tiling.Rect
	for _, w := range m.wm.RenderOrder() {
		if w.ID == active {
			continue
		}
		if fr, ok := m.frames.get(w.ID); ok {
			ids = append(ids, w.ID)
			rects = append(rects, fr.rect)
		}
	}
	if i := tiling.Nearest(cur.rect, dir, rects); i >= 0 {
		m.wm.Focus(ids[i])
	}
}

func (m *Model) toggleTheme() {
	if m.theme == config.ThemeLight {
		m.theme = config.ThemeDark
	} else {
		m.theme = config.ThemeLight
	}
	m.palette = apps.PaletteFor(m.theme)
}

// applyConfig adopts a reloaded configuration. Running apps keep their
// state; new ones pick up the new settings.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.theme = cfg.Theme
	m.palette = apps.PaletteFor(cfg.Theme)
	m.deps.Config = cfg
	m.frames.cfg = cfg.Window
	m.frames.resize(m.desktopArea())
}

func (m *Model) showNotice(text string, bell bool) tea.Cmd {
	if bell {
		if _, err := io.WriteString(m.bell, "\a"); err != nil {
			m.logger.Debug("bell failed", "error", err)
		}
	}
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeExpiry, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (m *Model) handleRequest(req *ipc.Request) (*ipc.Response, tea.Cmd) {
	switch req.Command {
	case ipc.CommandGetStatus:
		resp, err := ipc.NewOKResponse(ipc.Status(m.wm, "desktop", m.now().Sub(m.started)))
		if err != nil {
			return ipc.NewErrorResponse(err.Error()), nil
		}
		return resp, nil
	case ipc.CommandReload:
		if m.reload == nil {
			return ipc.NewErrorResponse("reload is not available"), nil
		}
		cfg, err := m.reload()
		if err != nil {
			return ipc.NewErrorResponse(err.Error()), nil
		}
		m.applyConfig(cfg)
		resp, _ := ipc.NewOKResponse(nil)
		return resp, m.showNotice("config reloaded", false)
	}
	resp := ipc.Apply(m.wm, req)
	return resp, m.sync()
}

// desktopArea is the region between the top bar and the dock.
func (m *Model) desktopArea() tiling.Rect {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	w := m.width
	if w < 1 {
		w = 1
	}
	return tiling.Rect{X: 0, Y: 1, Width: w, Height: h}
}
