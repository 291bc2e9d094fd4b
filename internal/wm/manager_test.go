package wm

import (
	"fmt"
	"math/rand"
	"testing"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}
}

func newTestManager() *Manager {
	return New(WithIDGenerator(seqIDs()))
}

func TestOpenAssignsIncreasingStackOrder(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindTaskList)

	wa, _ := m.Window(a)
	wb, _ := m.Window(b)
	if wa.StackOrder != DefaultStackBase+1 {
		t.Fatalf("expected first stack order %d, got %d", DefaultStackBase+1, wa.StackOrder)
	}
	if wb.StackOrder <= wa.StackOrder {
		t.Fatalf("expected %d > %d", wb.StackOrder, wa.StackOrder)
	}
	if !m.IsActive(b) {
		t.Fatalf("expected newest window to be active, got %q", m.ActiveID())
	}
	if wa.Title != "Pomodoro Timer" || wb.Title != "To-Do List" {
		t.Fatalf("unexpected titles %q, %q", wa.Title, wb.Title)
	}
}

func TestOpenVisibleKindCreatesSecondWindow(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindShell)
	b := m.Open(KindShell)
	if a == b {
		t.Fatalf("expected distinct windows")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 windows, got %d", m.Len())
	}
}

func TestOpenRestoresMinimizedSingleton(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	m.Minimize(a)

	got := m.Open(KindTimer)
	if got != a {
		t.Fatalf("expected reuse of %q, got %q", a, got)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 window, got %d", m.Len())
	}
	w, _ := m.Window(a)
	if w.Minimized {
		t.Fatalf("expected window restored")
	}
	if !m.IsActive(a) {
		t.Fatalf("expected restored window active")
	}
}

func TestScenarioFromDesktopSession(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindTaskList)
	m.Focus(a)

	wa, _ := m.Window(a)
	if wa.StackOrder != 103 || !m.IsActive(a) {
		t.Fatalf("expected a raised to 103 and active, got %d active=%q", wa.StackOrder, m.ActiveID())
	}

	m.Minimize(a)
	if !m.IsActive(b) {
		t.Fatalf("expected b active after minimizing a, got %q", m.ActiveID())
	}

	got := m.Open(KindTimer)
	if got != a {
		t.Fatalf("expected a restored, got %q", got)
	}
	wa, _ = m.Window(a)
	if wa.StackOrder != 104 || !m.IsActive(a) {
		t.Fatalf("expected a at 104 and active, got %d active=%q", wa.StackOrder, m.ActiveID())
	}

	m.Close(a)
	if !m.IsActive(b) {
		t.Fatalf("expected b active after close, got %q", m.ActiveID())
	}
	m.Close(b)
	if m.ActiveID() != "" || m.Len() != 0 {
		t.Fatalf("expected empty registry, got %d windows active=%q", m.Len(), m.ActiveID())
	}
}

func TestFocusNoOps(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Manager) string
	}{
		{
			name: "already active",
			setup: func(m *Manager) string {
				return m.Open(KindShell)
			},
		},
		{
			name: "minimized",
			setup: func(m *Manager) string {
				id := m.Open(KindShell)
				m.Open(KindTimer)
				m.Minimize(id)
				return id
			},
		},
		{
			name: "unknown",
			setup: func(m *Manager) string {
				m.Open(KindShell)
				return "missing"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			id := tt.setup(m)
			before := m.Snapshot()
			m.Focus(id)
			after := m.Snapshot()
			if after.NextStackOrder != before.NextStackOrder {
				t.Fatalf("counter advanced from %d to %d", before.NextStackOrder, after.NextStackOrder)
			}
			if after.ActiveID != before.ActiveID {
				t.Fatalf("active changed from %q to %q", before.ActiveID, after.ActiveID)
			}
		})
	}
}

func TestRestoreUnknownIsNoOp(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	m.Restore("missing")
	if !m.IsActive(a) {
		t.Fatalf("expected %q to stay active, got %q", a, m.ActiveID())
	}
	if m.Snapshot().NextStackOrder != DefaultStackBase+1 {
		t.Fatalf("counter should not advance")
	}
}

func TestRestoreVisibleRaises(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	m.Open(KindShell)
	m.Restore(a)
	top, ok := m.Topmost()
	if !ok || top.ID != a || !m.IsActive(a) {
		t.Fatalf("expected %q on top and active", a)
	}
}

func TestMinimizeInactiveKeepsActive(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindShell)
	m.Minimize(a)
	if !m.IsActive(b) {
		t.Fatalf("expected %q active, got %q", b, m.ActiveID())
	}
	m.Minimize(a)
	if len(m.Minimized()) != 1 {
		t.Fatalf("expected one minimized window")
	}
}

func TestMinimizeLastVisibleClearsActive(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	m.Minimize(a)
	if m.ActiveID() != "" {
		t.Fatalf("expected no active window, got %q", m.ActiveID())
	}
	if _, ok := m.Active(); ok {
		t.Fatalf("Active should report none")
	}
}

func TestOpenInvalidKindIsNoOp(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	events := 0
	m.Subscribe(func(Event) { events++ })

	for _, k := range []Kind{Kind(-1), Kind(9)} {
		if id := m.Open(k); id != "" {
			t.Fatalf("Open(%d) = %q, want empty id", int(k), id)
		}
	}
	if m.Len() != 1 || !m.IsActive(a) || events != 0 {
		t.Fatalf("registry changed on invalid kind: len=%d active=%q events=%d", m.Len(), m.ActiveID(), events)
	}
}

func TestCloseClearsRemovedSlot(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindShell)
	c := m.Open(KindTaskList)

	backing := m.windows[:cap(m.windows)]
	m.Close(a)

	if m.Len() != 2 || m.windows[0].ID != b || m.windows[1].ID != c {
		t.Fatalf("windows after close = %+v", m.Windows())
	}
	if backing[2] != nil {
		t.Fatalf("closed window still referenced from backing array: %+v", *backing[2])
	}
}

func TestCloseUnknownIsNoOp(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	m.Close("missing")
	if m.Len() != 1 || !m.IsActive(a) {
		t.Fatalf("registry changed on unknown close")
	}
}

func TestCloseInactiveKeepsActive(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindShell)
	m.Close(a)
	if !m.IsActive(b) {
		t.Fatalf("expected %q active, got %q", b, m.ActiveID())
	}
}

func TestCloseActiveSkipsMinimized(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindShell)
	c := m.Open(KindTaskList)
	m.Minimize(b)
	m.Close(c)
	if !m.IsActive(a) {
		t.Fatalf("expected %q active, got %q", a, m.ActiveID())
	}
}

func TestStackOrderNotReusedAfterClose(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	wa, _ := m.Window(a)
	m.Close(a)
	b := m.Open(KindTimer)
	wb, _ := m.Window(b)
	if wb.StackOrder <= wa.StackOrder {
		t.Fatalf("stack order reused: %d after %d", wb.StackOrder, wa.StackOrder)
	}
}

func TestRenderOrderExcludesMinimized(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindShell)
	c := m.Open(KindTaskList)
	m.Minimize(b)
	m.Focus(a)

	order := m.RenderOrder()
	if len(order) != 2 {
		t.Fatalf("expected 2 visible windows, got %d", len(order))
	}
	if order[0].ID != c || order[1].ID != a {
		t.Fatalf("unexpected order %q, %q", order[0].ID, order[1].ID)
	}
}

func TestRunningTracksVisibleWindows(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindImageViewer)
	if !m.Running(KindImageViewer) {
		t.Fatalf("expected image viewer running")
	}
	m.Minimize(a)
	if m.Running(KindImageViewer) {
		t.Fatalf("minimized window should not count as running")
	}
	if m.Running(KindShell) {
		t.Fatalf("shell never opened")
	}
}

func TestCycleWraps(t *testing.T) {
	m := newTestManager()
	a := m.Open(KindTimer)
	b := m.Open(KindShell)
	c := m.Open(KindTaskList)

	if got := m.Cycle(1); got != a {
		t.Fatalf("expected wrap to %q, got %q", a, got)
	}
	if got := m.Cycle(-1); got != b {
		t.Fatalf("expected %q, got %q", b, got)
	}
	m.Minimize(a)
	m.Minimize(b)
	m.Minimize(c)
	if got := m.Cycle(1); got != "" {
		t.Fatalf("expected empty cycle, got %q", got)
	}
}

func TestSubscribeReceivesEffectiveEvents(t *testing.T) {
	m := newTestManager()
	var got []EventType
	m.Subscribe(func(ev Event) { got = append(got, ev.Type) })

	a := m.Open(KindTimer)
	m.Focus(a)
	m.Minimize(a)
	m.Open(KindTimer)
	m.Close(a)
	m.Close(a)

	want := []EventType{EventOpened, EventMinimized, EventActivated, EventRestored, EventClosed, EventActivated}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestUninitializedManagerPanics(t *testing.T) {
	tests := []struct {
		name string
		m    *Manager
	}{
		{name: "nil", m: nil},
		{name: "zero value", m: &Manager{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			tt.m.Open(KindTimer)
		})
	}
}

func TestDefaultIDsAreUnique(t *testing.T) {
	m := New()
	a := m.Open(KindTimer)
	b := m.Open(KindTimer)
	if a == "" || a == b {
		t.Fatalf("expected unique ids, got %q and %q", a, b)
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := newTestManager()
	kinds := Kinds()
	seen := map[int64]string{}

	for step := 0; step < 5000; step++ {
		ids := []string{"missing"}
		for _, w := range m.Windows() {
			ids = append(ids, w.ID)
		}
		id := ids[rng.Intn(len(ids))]

		before := m.Snapshot()
		activeBefore := before.ActiveID

		op := rng.Intn(5)
		switch op {
		case 0:
			kind := kinds[rng.Intn(len(kinds))]
			hadMinimized := false
			for _, w := range before.Windows {
				if w.Kind == kind && w.Minimized {
					hadMinimized = true
				}
			}
			m.Open(kind)
			if hadMinimized && m.Len() != len(before.Windows) {
				t.Fatalf("step %d: open duplicated a minimized kind", step)
			}
		case 1:
			m.Close(id)
		case 2:
			m.Minimize(id)
		case 3:
			m.Restore(id)
		case 4:
			m.Focus(id)
			if id == activeBefore && m.Snapshot().NextStackOrder != before.NextStackOrder {
				t.Fatalf("step %d: focusing the active window advanced the counter", step)
			}
		}

		snap := m.Snapshot()
		if snap.NextStackOrder < before.NextStackOrder {
			t.Fatalf("step %d: counter went backwards", step)
		}
		if snap.ActiveID != "" {
			w, ok := m.Window(snap.ActiveID)
			if !ok || w.Minimized {
				t.Fatalf("step %d: active id %q is not a visible window", step, snap.ActiveID)
			}
		}

		var top *Window
		for i := range snap.Windows {
			w := snap.Windows[i]
			if owner, ok := seen[w.StackOrder]; ok && owner != w.ID {
				t.Fatalf("step %d: stack order %d reused by %q", step, w.StackOrder, w.ID)
			}
			seen[w.StackOrder] = w.ID
			if !w.Minimized && (top == nil || w.StackOrder > top.StackOrder) {
				top = &snap.Windows[i]
			}
		}
		if (op == 1 || op == 2) && id == activeBefore {
			if top == nil && snap.ActiveID != "" {
				t.Fatalf("step %d: expected no active window", step)
			}
			if top != nil && snap.ActiveID != top.ID {
				t.Fatalf("step %d: expected %q active, got %q", step, top.ID, snap.ActiveID)
			}
		}

		order := m.RenderOrder()
		for i := 1; i < len(order); i++ {
			if order[i-1].StackOrder >= order[i].StackOrder {
				t.Fatalf("step %d: render order not ascending", step)
			}
		}
	}
}
