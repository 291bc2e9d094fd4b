package wm

import (
	"log/slog"

	"github.com/google/uuid"
)

// DefaultStackBase is the stack order below the first window.
const DefaultStackBase int64 = 100

// Window is a snapshot of one application instance in the registry.
type Window struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Minimized  bool   `json:"minimized"`
	StackOrder int64  `json:"stack_order"`
}

// Snapshot is a read-only copy of the registry state.
type Snapshot struct {
	Windows        []Window `json:"windows"`
	ActiveID       string   `json:"active_id"`
	NextStackOrder int64    `json:"next_stack_order"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator overrides how window ids are allocated.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithBaseStackOrder sets the counter value the first window is stacked above.
func WithBaseStackOrder(base int64) Option {
	return func(m *Manager) {
		m.nextStackOrder = base
	}
}

// WithLogger enables debug logging of lifecycle changes.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager is the window registry. It is not safe for concurrent use; a
// single goroutine must own it.
type Manager struct {
	windows        []*Window
	activeID       string
	nextStackOrder int64

	newID     func() string
	logger    *slog.Logger
	observers []func(Event)
	ready     bool
}

// New creates an empty registry.
func New(opts ...Option) *Manager {
	m := &Manager{
		nextStackOrder: DefaultStackBase,
		newID:          uuid.NewString,
		ready:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to receive events after each effective mutation.
func (m *Manager) Subscribe(fn func(Event)) {
	m.mustReady()
	if fn != nil {
		m.observers = append(m.observers, fn)
	}
}

func (m *Manager) mustReady() {
	if m == nil || !m.ready {
		panic("wm: Manager used before New")
	}
}

func (m *Manager) find(id string) (int, *Window) {
	if id == "" {
		return -1, nil
	}
	for i, w := range m.windows {
		if w.ID == id {
			return i, w
		}
	}
	return -1, nil
}

// raise assigns the next stack order to w and makes it active.
func (m *Manager) raise(w *Window) {
	m.nextStackOrder++
	w.StackOrder = m.nextStackOrder
	m.activeID = w.ID
}

// Open shows a window of the given kind and returns its id. A minimized
// window of the same kind is restored instead of creating a new one. An
// invalid kind is ignored and yields "".
func (m *Manager) Open(kind Kind) string {
	m.mustReady()
	if !kind.Valid() {
		return ""
	}
	for _, w := range m.windows {
		if w.Kind == kind && w.Minimized {
			m.Restore(w.ID)
			return w.ID
		}
	}

	w := &Window{
		ID:    m.newID(),
		Kind:  kind,
		Title: kind.Title(),
	}
	m.windows = append(m.windows, w)
	m.raise(w)
	m.emit(EventOpened, w)
	return w.ID
}

// Close removes a window. Unknown ids are ignored.
func (m *Manager) Close(id string) {
	m.mustReady()
	i, w := m.find(id)
	if w == nil {
		return
	}
	copy(m.windows[i:], m.windows[i+1:])
	m.windows[len(m.windows)-1] = nil
	m.windows = m.windows[:len(m.windows)-1]
	m.settle(EventClosed, w)
}

// Minimize hides a visible window. Unknown or already minimized ids are ignored.
func (m *Manager) Minimize(id string) {
	m.mustReady()
	_, w := m.find(id)
	if w == nil || w.Minimized {
		return
	}
	w.Minimized = true
	m.settle(EventMinimized, w)
}

// Restore shows a window, brings it to the front and activates it. Restoring
// a visible window only raises it. Unknown ids are ignored.
func (m *Manager) Restore(id string) {
	m.mustReady()
	_, w := m.find(id)
	if w == nil {
		return
	}
	w.Minimized = false
	m.raise(w)
	m.emit(EventRestored, w)
}

// Focus raises and activates a visible window. It does nothing when the
// window is already active, minimized, or unknown.
func (m *Manager) Focus(id string) {
	m.mustReady()
	if id == m.activeID {
		return
	}
	_, w := m.find(id)
	if w == nil || w.Minimized {
		return
	}
	m.raise(w)
	m.emit(EventFocused, w)
}

// settle reports a close or minimize of w. When w was active, the highest
// stacked visible window takes over, or nothing is active when none is left.
func (m *Manager) settle(t EventType, w *Window) {
	if m.activeID != w.ID {
		m.emit(t, w)
		return
	}

	var top *Window
	for _, c := range m.windows {
		if c.Minimized {
			continue
		}
		if top == nil || c.StackOrder > top.StackOrder {
			top = c
		}
	}
	m.activeID = ""
	if top != nil {
		m.activeID = top.ID
	}
	m.emit(t, w)
	m.emit(EventActivated, top)
}

func (m *Manager) emit(t EventType, w *Window) {
	ev := Event{Type: t, ActiveID: m.activeID}
	if w != nil {
		ev.Window = *w
	}
	if m.logger != nil {
		m.logger.Debug("window "+t.String(),
			"id", ev.Window.ID,
			"kind", ev.Window.Kind.String(),
			"stack_order", ev.Window.StackOrder,
			"active", m.activeID,
		)
	}
	for _, fn := range m.observers {
		fn(ev)
	}
}
