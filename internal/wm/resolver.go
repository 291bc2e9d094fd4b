package wm

import "sort"

// Windows returns every window in insertion order, minimized ones included.
func (m *Manager) Windows() []Window {
	m.mustReady()
	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, *w)
	}
	return out
}

// Window returns the window with the given id.
func (m *Manager) Window(id string) (Window, bool) {
	m.mustReady()
	_, w := m.find(id)
	if w == nil {
		return Window{}, false
	}
	return *w, true
}

// Len returns the number of windows in the registry.
func (m *Manager) Len() int {
	m.mustReady()
	return len(m.windows)
}

// RenderOrder returns visible windows from bottom to top.
func (m *Manager) RenderOrder() []Window {
	m.mustReady()
	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		if !w.Minimized {
			out = append(out, *w)
		}
	}
	sortByStack(out)
	return out
}

// Minimized returns minimized windows ordered by when they were last raised.
func (m *Manager) Minimized() []Window {
	m.mustReady()
	var out []Window
	for _, w := range m.windows {
		if w.Minimized {
			out = append(out, *w)
		}
	}
	sortByStack(out)
	return out
}

// ActiveID returns the id of the active window, or "" when none is.
func (m *Manager) ActiveID() string {
	m.mustReady()
	return m.activeID
}

// IsActive reports whether id names the active window.
func (m *Manager) IsActive(id string) bool {
	m.mustReady()
	return id != "" && id == m.activeID
}

// Active returns the active window.
func (m *Manager) Active() (Window, bool) {
	m.mustReady()
	return m.Window(m.activeID)
}

// Topmost returns the visible window with the highest stack order.
func (m *Manager) Topmost() (Window, bool) {
	order := m.RenderOrder()
	if len(order) == 0 {
		return Window{}, false
	}
	return order[len(order)-1], true
}

// Running reports whether a visible window of kind exists.
func (m *Manager) Running(kind Kind) bool {
	m.mustReady()
	for _, w := range m.windows {
		if w.Kind == kind && !w.Minimized {
			return true
		}
	}
	return false
}

// Cycle returns the id of the visible window delta steps away from the
// active one in render order, wrapping around. It returns "" when nothing
// is visible.
func (m *Manager) Cycle(delta int) string {
	order := m.RenderOrder()
	n := len(order)
	if n == 0 {
		return ""
	}
	cur := -1
	for i, w := range order {
		if w.ID == m.activeID {
			cur = i
			break
		}
	}
	if cur < 0 {
		return order[n-1].ID
	}
	next := ((cur+delta)%n + n) % n
	return order[next].ID
}

// Snapshot copies the registry state.
func (m *Manager) Snapshot() Snapshot {
	m.mustReady()
	return Snapshot{
		Windows:        m.Windows(),
		ActiveID:       m.activeID,
		NextStackOrder: m.nextStackOrder,
	}
}

func sortByStack(ws []Window) {
	sort.Slice(ws, func(i, j int) bool {
		return ws[i].StackOrder < ws[j].StackOrder
	})
}
