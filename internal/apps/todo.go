package apps

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/todostore"
)

// TodoFilter restricts which tasks are listed.
type TodoFilter int

const (
	FilterAll TodoFilter = iota
	FilterActive
	FilterCompleted
)

func (f TodoFilter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

func (f TodoFilter) match(t todostore.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

type todoMode int

const (
	todoBrowse todoMode = iota
	todoAdding
	todoEditing
)

type todoLoadedMsg struct {
	window string
	tasks  []todostore.Task
	err    error
}

func (m todoLoadedMsg) Target() string { return m.window }

type todoChangedMsg struct {
	window string
	closed bool
}

func (m todoChangedMsg) Target() string { return m.window }

// Todo is a task list backed by a todostore.Store.
type Todo struct {
	windowID string
	deps     Deps

	tasks    []todostore.Task
	cursor   int
	filter   TodoFilter
	selected map[string]bool

	mode        todoMode
	input       textinput.Model
	newPriority todostore.Priority
	editID      string

	ctx     context.Context
	cancel  context.CancelFunc
	changes <-chan todostore.Event
	status  string
}

// NewTodo creates a task list; tasks are loaded by Init.
func NewTodo(windowID string, deps Deps) *Todo {
	deps = deps.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Prompt = "› "

	return &Todo{
		windowID:    windowID,
		deps:        deps,
		selected:    make(map[string]bool),
		input:       ti,
		newPriority: todostore.PriorityMedium,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (t *Todo) Init() tea.Cmd {
	ch, err := t.deps.Store.Watch(t.ctx)
	if err != nil {
		t.deps.Logger.Warn("todo watch unavailable", "window", t.windowID, "error", err)
	}
	t.changes = ch
	return tea.Batch(t.load(), t.waitForChange())
}

// Close stops watching the store.
func (t *Todo) Close() {
	t.cancel()
}

func (t *Todo) Capturing() bool { return t.mode != todoBrowse }

func (t *Todo) load() tea.Cmd {
	store, ctx, window := t.deps.Store, t.ctx, t.windowID
	return func() tea.Msg {
		tasks, err := store.List(ctx)
		return todoLoadedMsg{window: window, tasks: tasks, err: err}
	}
}

func (t *Todo) waitForChange() tea.Cmd {
	ch, window := t.changes, t.windowID
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-ch
		return todoChangedMsg{window: window, closed: !ok}
	}
}

// Tasks returns the listed tasks in display order.
func (t *Todo) Tasks() []todostore.Task {
	return t.visible()
}

// Selected returns the number of selected tasks.
func (t *Todo) Selected() int { return len(t.selected) }

// Filter returns the active filter.
func (t *Todo) Filter() TodoFilter { return t.filter }

// visible applies the filter and orders incomplete first, then by priority,
// then newest first.
func (t *Todo) visible() []todostore.Task {
	out := make([]todostore.Task, 0, len(t.tasks))
	for _, task := range t.tasks {
		if t.filter.match(task) {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
			return pa > pb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func priorityRank(p todostore.Priority) int {
	switch p {
	case todostore.PriorityHigh:
		return 3
	case todostore.PriorityMedium:
		return 2
	case todostore.PriorityLow:
		return 1
	}
	return 0
}

func (t *Todo) current() (todostore.Task, bool) {
	vis := t.visible()
	if t.cursor < 0 || t.cursor >= len(vis) {
		return todostore.Task{}, false
	}
	return vis[t.cursor], true
}

func (t *Todo) index(id string) int {
	for i, task := range t.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func (t *Todo) clampCursor() {
	n := len(t.visible())
	if t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *Todo) put(task todostore.Task) {
	if err := t.deps.Store.Put(task); err != nil {
		t.deps.Logger.Error("todo save failed", "id", task.ID, "error", err)
		t.status = "save failed: " + err.Error()
		return
	}
	if i := t.index(task.ID); i >= 0 {
		t.tasks[i] = task
	} else {
		t.tasks = append(t.tasks, task)
	}
	t.status = ""
}

func (t *Todo) remove(id string) {
	if err := t.deps.Store.Delete(id); err != nil {
		t.deps.Logger.Error("todo delete failed", "id", id, "error", err)
		t.status = "delete failed: " + err.Error()
		return
	}
	if i := t.index(id); i >= 0 {
		t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)
	}
	delete(t.selected, id)
	t.status = ""
}

// Add stores a new incomplete task. Blank text is ignored.
func (t *Todo) Add(text string, priority todostore.Priority) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if !priority.Valid() {
		priority = todostore.PriorityMedium
	}
	t.put(todostore.Task{
		ID:        t.deps.NewID(),
		Text:      text,
		Priority:  priority,
		CreatedAt: t.deps.Now(),
	})
}

func (t *Todo) Update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case todoLoadedMsg:
		if msg.err != nil {
			t.deps.Logger.Error("todo load failed", "window", t.windowID, "error", msg.err)
			t.status = "load failed: " + msg.err.Error()
			return t, nil
		}
		t.tasks = msg.tasks
		for id := range t.selected {
			if t.index(id) < 0 {
				delete(t.selected, id)
			}
		}
		t.clampCursor()
		return t, nil

	case todoChangedMsg:
		if msg.closed {
			return t, nil
		}
		return t, tea.Batch(t.load(), t.waitForChange())

	case tea.KeyMsg:
		if t.mode != todoBrowse {
			return t, t.updateInput(msg)
		}
		return t, t.updateBrowse(msg)
	}

	if t.mode != todoBrowse {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, cmd
	}
	return t, nil
}

func (t *Todo) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	vis := t.visible()
	switch msg.String() {
	case "j", "down":
		if t.cursor < len(vis)-1 {
			t.cursor++
		}
	case "k", "up":
		if t.cursor > 0 {
			t.cursor--
		}
	case "g", "home":
		t.cursor = 0
	case "G", "end":
		t.cursor = len(vis) - 1
		t.clampCursor()
	case "a", "n":
		t.mode = todoAdding
		t.newPriority = todostore.PriorityMedium
		t.input.SetValue("")
		return t.input.Focus()
	case "e", "enter":
		cur, ok := t.current()
		if !ok {
			return nil
		}
		t.mode = todoEditing
		t.editID = cur.ID
		t.input.SetValue(cur.Text)
		t.input.CursorEnd()
		return t.input.Focus()
	case " ", "x":
		if cur, ok := t.current(); ok {
			cur.Completed = !cur.Completed
			t.put(cur)
			t.followTask(cur.ID)
		}
	case "p":
		if cur, ok := t.current(); ok {
			cur.Priority = cur.Priority.Next()
			t.put(cur)
			t.followTask(cur.ID)
		}
	case "d", "delete":
		if cur, ok := t.current(); ok {
			t.remove(cur.ID)
			t.clampCursor()
		}
	case "f":
		t.filter = (t.filter + 1) % 3
		t.selected = make(map[string]bool)
		t.cursor = 0
	case "v":
		if cur, ok := t.current(); ok {
			if t.selected[cur.ID] {
				delete(t.selected, cur.ID)
			} else {
				t.selected[cur.ID] = true
			}
		}
	case "V", "ctrl+a":
		t.toggleSelectAll(vis)
	case "D":
		if len(t.selected) == 0 {
			return nil
		}
		n := len(t.selected)
		for id := range t.selected {
			t.remove(id)
		}
		t.clampCursor()
		return notify(t.windowID, fmt.Sprintf("Deleted %d tasks", n), false)
	}
	return nil
}

// toggleSelectAll selects every listed task, or clears the selection when
// all of them are already selected.
func (t *Todo) toggleSelectAll(vis []todostore.Task) {
	all := len(vis) > 0
	for _, task := range vis {
		if !t.selected[task.ID] {
			all = false
			break
		}
	}
	t.selected = make(map[string]bool)
	if all {
		return
	}
	for _, task := range vis {
		t.selected[task.ID] = true
	}
}

// followTask keeps the cursor on id after the display order changes.
func (t *Todo) followTask(id string) {
	for i, task := range t.visible() {
		if task.ID == id {
			t.cursor = i
			return
		}
	}
	t.clampCursor()
}

func (t *Todo) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		t.endInput()
		return nil
	case "tab":
		if t.mode == todoAdding {
			t.newPriority = t.newPriority.Next()
		}
		return nil
	case "enter":
		text := strings.TrimSpace(t.input.Value())
		switch t.mode {
		case todoAdding:
			t.Add(text, t.newPriority)
			t.filterShowsNew()
		case todoEditing:
			if i := t.index(t.editID); i >= 0 && text != "" {
				task := t.tasks[i]
				task.Text = text
				t.put(task)
			}
		}
		t.endInput()
		return nil
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return cmd
}

func (t *Todo) filterShowsNew() {
	if t.filter == FilterCompleted {
		t.filter = FilterAll
	}
}

func (t *Todo) endInput() {
	t.mode = todoBrowse
	t.editID = ""
	t.input.Blur()
	t.input.SetValue("")
}

func (t *Todo) View(width, height int, pal Palette) string {
	active, done := 0, 0
	for _, task := range t.tasks {
		if task.Completed {
			done++
		} else {
			active++
		}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(pal.Accent).Render("Tasks") +
		lipgloss.NewStyle().Foreground(pal.Muted).Render(
			fmt.Sprintf("  %d active · %d done · filter: %s", active, done, t.filter))
	if len(t.selected) > 0 {
		header += lipgloss.NewStyle().Foreground(pal.Warning).Render(fmt.Sprintf(" · %d selected", len(t.selected)))
	}

	footer := t.footer(width, pal)
	listHeight := height - 2 - lipgloss.Height(footer)
	if listHeight < 1 {
		listHeight = 1
	}

	vis := t.visible()
	var rows []string
	if len(vis) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(pal.Muted).Render("No tasks. Press a to add one."))
	}
	start := 0
	if t.cursor >= listHeight {
		start = t.cursor - listHeight + 1
	}
	for i := start; i < len(vis) && i < start+listHeight; i++ {
		rows = append(rows, t.row(vis[i], i == t.cursor, width, pal))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.NewStyle().Height(listHeight).Render(strings.Join(rows, "\n")),
		footer,
	)
	return fit(body, width, height)
}

func (t *Todo) row(task todostore.Task, focused bool, width int, pal Palette) string {
	marker := "  "
	if focused {
		marker = "› "
	}
	sel := " "
	if t.selected[task.ID] {
		sel = "●"
	}
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}

	badge := lipgloss.NewStyle().Foreground(priorityColor(task.Priority, pal)).Render(priorityBadge(task.Priority))

	textStyle := lipgloss.NewStyle().Foreground(pal.Text)
	if task.Completed {
		textStyle = textStyle.Foreground(pal.Muted).Strikethrough(true)
	}
	line := marker + sel + " " + box + " " + badge + " " + textStyle.Render(task.Text)
	style := lipgloss.NewStyle().MaxWidth(width)
	if focused {
		style = style.Background(pal.Select)
	}
	return style.Render(line)
}

func priorityBadge(p todostore.Priority) string {
	switch p {
	case todostore.PriorityHigh:
		return "!!!"
	case todostore.PriorityLow:
		return "!  "
	default:
		return "!! "
	}
}

func priorityColor(p todostore.Priority, pal Palette) lipgloss.Color {
	switch p {
	case todostore.PriorityHigh:
		return pal.Danger
	case todostore.PriorityLow:
		return pal.Success
	default:
		return pal.Warning
	}
}

func (t *Todo) footer(width int, pal Palette) string {
	muted := lipgloss.NewStyle().Foreground(pal.Muted)
	switch t.mode {
	case todoAdding:
		t.input.Width = width - 4
		prio := lipgloss.NewStyle().Foreground(priorityColor(t.newPriority, pal)).Render(string(t.newPriority))
		return t.input.View() + "\n" + muted.Render("enter add · tab priority: ") + prio + muted.Render(" · esc cancel")
	case todoEditing:
		t.input.Width = width - 4
		return t.input.View() + "\n" + muted.Render("enter save · esc cancel")
	}
	help := "a add · e edit · space done · p priority · d delete · f filter · v/V select · D delete selected"
	if t.status != "" {
		return lipgloss.NewStyle().Foreground(pal.Danger).Render(t.status) + "\n" + muted.Render(help)
	}
	return muted.Render(help)
}
