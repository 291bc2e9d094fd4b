package desktop

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/wm"
)

// Title bar buttons, left to right, each three cells wide.
const (
	buttonClose = iota
	buttonMinimize
	buttonFullscreen
	buttonCount
)

const buttonWidth = 3

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionMotion:
		m.dragTo(msg.X, msg.Y)
		return nil
	case tea.MouseActionRelease:
		m.drag = nil
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if id, _ := m.windowAt(msg.X, msg.Y); id != "" && id == m.wm.ActiveID() {
			return m.updateApp(id, msg)
		}
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	x, y := msg.X, msg.Y
	if y == m.height-1 {
		return m.clickDock(x)
	}
	if id, fr := m.windowAt(x, y); id != "" {
		return m.pressWindow(id, fr, x, y)
	}
	for _, ic := range m.icons() {
		if ic.rect.Contains(x, y) {
			return m.open(ic.kind)
		}
	}
	return nil
}

// windowAt returns the topmost visible window under the cell.
func (m *Model) windowAt(x, y int) (string, *frame) {
	order := m.wm.RenderOrder()
	for i := len(order) - 1; i >= 0; i-- {
		fr, ok := m.frames.get(order[i].ID)
		if ok && fr.rect.Contains(x, y) {
			return order[i].ID, fr
		}
	}
	return "", nil
}

// titleButton reports which button, if any, sits at column x of a title bar.
func titleButton(fr *frame, x int) (int, bool) {
	off := x - (fr.rect.X + 1)
	if off < 0 || off >= buttonCount*buttonWidth {
		return 0, false
	}
	return off / buttonWidth, true
}

func (m *Model) pressWindow(id string, fr *frame, x, y int) tea.Cmd {
	titleY := fr.rect.Y + 1

	if y == titleY {
		if b, ok := titleButton(fr, x); ok {
			switch b {
			case buttonClose:
				return m.close(id)
			case buttonMinimize:
				m.wm.Minimize(id)
				return nil
			case buttonFullscreen:
				m.wm.Focus(id)
				m.frames.toggleFullscreen(id)
				return nil
			}
		}
	}

	if y <= titleY {
		now := m.now()
		if m.lastClick.id == id && now.Sub(m.lastClick.at) <= doubleClick {
			m.lastClick.id = ""
			m.drag = nil
			m.wm.Minimize(id)
			return nil
		}
		m.lastClick.id, m.lastClick.at = id, now
		m.wm.Focus(id)
		if !fr.fullscreen {
			m.drag = &dragState{id: id, mode: dragMove, offX: x - fr.rect.X, offY: y - fr.rect.Y, origin: fr.rect}
		}
		return nil
	}

	m.wm.Focus(id)
	if !fr.fullscreen && x >= fr.rect.Right()-2 && y == fr.rect.Bottom()-1 {
		m.drag = &dragState{id: id, mode: dragResize, origin: fr.rect}
	}
	return nil
}

func (m *Model) dragTo(x, y int) {
	if m.drag == nil {
		return
	}
	switch m.drag.mode {
	case dragMove:
		m.frames.move(m.drag.id, x-m.drag.offX, y-m.drag.offY)
	case dragResize:
		m.frames.resizeTo(m.drag.id, x-m.drag.origin.X+1, y-m.drag.origin.Y+1)
	}
}

func (m *Model) clickDock(x int) tea.Cmd {
	for _, item := range m.dockItems() {
		if x < item.x || x >= item.x+item.width {
			continue
		}
		if item.windowID != "" {
			m.wm.Restore(item.windowID)
			return nil
		}
		return m.open(item.kind)
	}
	return nil
}

type dockItem struct {
	x        int
	width    int
	label    string
	kind     wm.Kind
	windowID string
	running  bool
}
