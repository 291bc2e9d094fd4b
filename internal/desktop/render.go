package desktop

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/termdesk/internal/tiling"
	"github.com/1broseidon/termdesk/internal/wm"
)

const titleButtons = "[x][_][□]"

type icon struct {
	kind wm.Kind
	rect tiling.Rect
}

func iconGlyph(k wm.Kind) string {
	switch k {
	case wm.KindTimer:
		return "◷"
	case wm.KindTaskList:
		return "☑"
	case wm.KindShell:
		return ">_"
	case wm.KindImageViewer:
		return "▣"
	}
	return "?"
}

func shortLabel(k wm.Kind) string {
	switch k {
	case wm.KindTimer:
		return "Pomodoro"
	case wm.KindTaskList:
		return "To-Do"
	case wm.KindShell:
		return "Terminal"
	case wm.KindImageViewer:
		return "Images"
	}
	return k.String()
}

// icons lays out one desktop icon per kind down the right edge.
func (m *Model) icons() []icon {
	const w, h = 12, 3
	area := m.desktopArea()
	x := area.Right() - w - 1
	if x < area.X {
		return nil
	}
	var out []icon
	for i, k := range wm.Kinds() {
		r := tiling.Rect{X: x, Y: area.Y + 1 + i*(h+1), Width: w, Height: h}
		if r.Bottom() > area.Bottom() {
			break
		}
		out = append(out, icon{kind: k, rect: r})
	}
	return out
}

// dockItems lays out the dock: every kind, then a chip per minimized window.
func (m *Model) dockItems() []dockItem {
	var items []dockItem
	x := 1
	for _, k := range wm.Kinds() {
		running := m.wm.Running(k)
		mark := "○"
		if running {
			mark = "●"
		}
		label := " " + mark + " " + shortLabel(k) + " "
		w := ansi.StringWidth(label)
		items = append(items, dockItem{x: x, width: w, label: label, kind: k, running: running})
		x += w + 1
	}
	x += 2
	for _, w := range m.wm.Minimized() {
		label := " ▾ " + w.Title + " "
		width := ansi.StringWidth(label)
		items = append(items, dockItem{x: x, width: width, label: label, kind: w.Kind, windowID: w.ID})
		x += width + 1
	}
	return items
}

func (m *Model) clockText() string {
	if m.cfg.Clock24h {
		return m.clock.Format("Mon Jan 2  15:04")
	}
	return m.clock.Format("Mon Jan 2  3:04 PM")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	area := m.desktopArea()
	lines := m.wallpaper(area)

	for _, ic := range m.icons() {
		overlay(lines, m.renderIcon(ic), ic.rect.X, ic.rect.Y-area.Y, m.width)
	}
	for _, w := range m.wm.RenderOrder() {
		fr, ok := m.frames.get(w.ID)
		if !ok {
			continue
		}
		overlay(lines, m.renderWindow(w, fr), fr.rect.X, fr.rect.Y-area.Y, m.width)
	}
	if m.notice != "" {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.palette.Warning).
			Foreground(m.palette.Text).
			Padding(0, 1).
			MaxWidth(m.width).
			Render(m.notice)
		overlay(lines, box, m.width-lipgloss.Width(box)-1, 0, m.width)
	}
	if m.showHelp {
		m.help.ShowAll = true
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.palette.Accent).
			Padding(1, 2).
			Render(lipgloss.NewStyle().Bold(true).Render("Keyboard shortcuts") + "\n\n" + m.help.View(m.keys))
		x := (m.width - lipgloss.Width(box)) / 2
		y := (area.Height - lipgloss.Height(box)) / 2
		overlay(lines, box, x, y, m.width)
	}

	return m.renderTopBar() + "\n" + strings.Join(lines, "\n") + "\n" + m.renderDock()
}

func (m *Model) wallpaper(area tiling.Rect) []string {
	row := lipgloss.NewStyle().Background(m.palette.Surface).Render(strings.Repeat(" ", area.Width))
	lines := make([]string, area.Height)
	for i := range lines {
		lines[i] = row
	}
	return lines
}

func (m *Model) renderTopBar() string {
	left := lipgloss.NewStyle().Bold(true).Foreground(m.palette.Accent).Render(" ◆ termdesk")
	if w, ok := m.wm.Active(); ok {
		left += "  " + w.Title
	}
	right := lipgloss.NewStyle().Foreground(m.palette.Muted).Render("? help  ") + m.clockText() + " "
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Background(m.palette.Select).
		Foreground(m.palette.Text).
		Width(m.width).
		MaxWidth(m.width).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) renderDock() string {
	var b strings.Builder
	col := 0
	chips := false
	for _, it := range m.dockItems() {
		pad := it.x - col
		if it.windowID != "" && !chips {
			chips = true
			if pad >= 2 {
				b.WriteString(strings.Repeat(" ", pad-2) + "│ ")
				pad = 0
			}
		}
		if pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		style := lipgloss.NewStyle().Foreground(m.palette.Muted)
		switch {
		case it.windowID != "":
			style = style.Foreground(m.palette.Text).Background(m.palette.Surface)
		case it.running:
			style = style.Foreground(m.palette.Success).Bold(true)
		}
		b.WriteString(style.Render(it.label))
		col = it.x + it.width
	}
	return lipgloss.NewStyle().
		Background(m.palette.Select).
		Width(m.width).
		MaxWidth(m.width).
		Render(b.String())
}

func (m *Model) renderIcon(ic icon) string {
	glyph := lipgloss.NewStyle().Bold(true).Foreground(m.palette.Accent).Render(iconGlyph(ic.kind))
	label := lipgloss.NewStyle().Foreground(m.palette.Text).Render(shortLabel(ic.kind))
	return lipgloss.NewStyle().
		Width(ic.rect.Width).
		Height(ic.rect.Height).
		Align(lipgloss.Center).
		Render(glyph + "\n" + label)
}

func (m *Model) renderWindow(w wm.Window, fr *frame) string {
	innerW, innerH := fr.rect.Width-2, fr.rect.Height-2
	if innerW < 1 || innerH < 1 {
		return ""
	}
	active := m.wm.IsActive(w.ID)

	border, barBg := m.palette.Muted, m.palette.Select
	if active {
		border, barBg = m.palette.Accent, m.palette.Accent
	}

	title := ansi.Truncate(w.Title, innerW-ansi.StringWidth(titleButtons)-1, "…")
	bar := lipgloss.NewStyle().
		Width(innerW).
		MaxWidth(innerW).
		Background(barBg).
		Foreground(m.palette.Text).
		Bold(active).
		Render(titleButtons + " " + title)

	content := bar
	if bodyH := innerH - 1; bodyH > 0 {
		body := ""
		if app, ok := m.apps[w.ID]; ok {
			body = app.View(innerW, bodyH, m.palette)
		}
		content += "\n" + lipgloss.NewStyle().
			Width(innerW).MaxWidth(innerW).
			Height(bodyH).MaxHeight(bodyH).
			Render(body)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(content)
}

// overlay paints block onto base with its top-left cell at (x, y), cutting
// the covered cells out of each base line without breaking escape sequences.
func overlay(base []string, block string, x, y, width int) {
	if block == "" || x >= width {
		return
	}
	if x < 0 {
		x = 0
	}
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		if row >= len(base) {
			return
		}
		lw := ansi.StringWidth(line)
		if x+lw > width {
			line = ansi.Truncate(line, width-x, "")
			lw = ansi.StringWidth(line)
		}

		bg := base[row]
		left := ansi.Cut(bg, 0, x)
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.Cut(bg, x+lw, width)
		base[row] = left + ansi.ResetStyle + line + ansi.ResetStyle + right
	}
}
