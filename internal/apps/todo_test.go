package apps

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/todostore"
)

func newTestTodo(t *testing.T) (*Todo, todostore.Store) {
	t.Helper()
	store := todostore.Memory()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	deps := Deps{
		Store: store,
		Now: func() time.Time {
			return base.Add(time.Duration(n) * time.Minute)
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("t%d", n)
		},
	}
	td := NewTodo("w1", deps)
	t.Cleanup(td.Close)
	return td, store
}

func texts(tasks []todostore.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Text
	}
	return out
}

func typeText(td *Todo, s string) {
	for _, r := range s {
		td.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestTodoAddViaKeys(t *testing.T) {
	td, store := newTestTodo(t)

	td.Update(runes("a"))
	if !td.Capturing() {
		t.Fatal("adding should capture keys")
	}
	typeText(td, "buy milk")
	td.Update(tea.KeyMsg{Type: tea.KeyTab})
	td.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if td.Capturing() {
		t.Fatal("enter should leave input mode")
	}
	tasks := td.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Text != "buy milk" || tasks[0].Priority != todostore.PriorityHigh || tasks[0].Completed {
		t.Fatalf("task = %+v", tasks[0])
	}

	stored, err := store.List(td.ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != tasks[0].ID {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestTodoBlankAddIgnored(t *testing.T) {
	td, _ := newTestTodo(t)
	td.Update(runes("a"))
	typeText(td, "   ")
	td.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(td.Tasks()) != 0 {
		t.Fatalf("blank task was added: %+v", td.Tasks())
	}
}

func TestTodoDisplayOrder(t *testing.T) {
	td, _ := newTestTodo(t)
	td.Add("low old", todostore.PriorityLow)
	td.Add("high", todostore.PriorityHigh)
	td.Add("medium", todostore.PriorityMedium)
	td.Add("low new", todostore.PriorityLow)
	td.Add("done high", todostore.PriorityHigh)

	// Complete "done high", which sorts first as the high-priority newest task.
	td.cursor = 0
	td.Update(runes("x"))

	want := []string{"high", "medium", "low new", "low old", "done high"}
	if got := texts(td.Tasks()); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestTodoEdit(t *testing.T) {
	td, _ := newTestTodo(t)
	td.Add("draft", todostore.PriorityMedium)

	td.Update(runes("e"))
	td.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	typeText(td, "final")
	td.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := td.Tasks()[0].Text; got != "final" {
		t.Fatalf("text = %q, want final", got)
	}

	td.Update(runes("e"))
	td.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	td.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := td.Tasks()[0].Text; got != "final" {
		t.Fatalf("blank edit changed text to %q", got)
	}

	td.Update(runes("e"))
	typeText(td, " more")
	td.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := td.Tasks()[0].Text; got != "final" {
		t.Fatalf("cancelled edit changed text to %q", got)
	}
}

func TestTodoPriorityAndDelete(t *testing.T) {
	td, store := newTestTodo(t)
	td.Add("one", todostore.PriorityLow)

	td.Update(runes("p"))
	if got := td.Tasks()[0].Priority; got != todostore.PriorityMedium {
		t.Fatalf("priority = %v, want medium", got)
	}

	td.Update(runes("d"))
	if len(td.Tasks()) != 0 {
		t.Fatal("d did not delete the task")
	}
	stored, _ := store.List(td.ctx)
	if len(stored) != 0 {
		t.Fatalf("store still has %d tasks", len(stored))
	}
}

func TestTodoFilterCycle(t *testing.T) {
	td, _ := newTestTodo(t)
	td.Add("open", todostore.PriorityMedium)
	td.Add("closed", todostore.PriorityMedium)
	td.cursor = 0
	td.Update(runes(" "))

	td.Update(runes("f"))
	if td.Filter() != FilterActive || strings.Join(texts(td.Tasks()), ",") != "open" {
		t.Fatalf("active filter: %v %v", td.Filter(), texts(td.Tasks()))
	}
	td.Update(runes("f"))
	if td.Filter() != FilterCompleted || strings.Join(texts(td.Tasks()), ",") != "closed" {
		t.Fatalf("completed filter: %v %v", td.Filter(), texts(td.Tasks()))
	}
	td.Update(runes("f"))
	if td.Filter() != FilterAll || len(td.Tasks()) != 2 {
		t.Fatalf("all filter: %v %v", td.Filter(), texts(td.Tasks()))
	}
}

func TestTodoSelectAllToggleAndBulkDelete(t *testing.T) {
	td, _ := newTestTodo(t)
	for i := 0; i < 3; i++ {
		td.Add(fmt.Sprintf("task %d", i), todostore.PriorityMedium)
	}

	td.Update(runes("V"))
	if td.Selected() != 3 {
		t.Fatalf("selected = %d, want 3", td.Selected())
	}
	td.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if td.Selected() != 0 {
		t.Fatalf("second select-all should clear, got %d", td.Selected())
	}

	td.cursor = 0
	td.Update(runes("v"))
	td.Update(runes("j"))
	td.Update(runes("v"))
	if td.Selected() != 2 {
		t.Fatalf("selected = %d, want 2", td.Selected())
	}
	_, cmd := td.Update(runes("D"))
	if len(td.Tasks()) != 1 || td.Selected() != 0 {
		t.Fatalf("after D: tasks=%d selected=%d", len(td.Tasks()), td.Selected())
	}
	if cmd == nil {
		t.Fatal("bulk delete should notify")
	}
	if msg, ok := cmd().(NotifyMsg); !ok || msg.Bell {
		t.Fatalf("bulk delete msg = %+v", msg)
	}
}

func TestTodoReloadsFromStore(t *testing.T) {
	td, store := newTestTodo(t)
	if err := store.Put(todostore.Task{ID: "ext", Text: "external", Priority: todostore.PriorityLow}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	td.selected["gone"] = true

	td.Update(td.load()())
	if got := texts(td.Tasks()); len(got) != 1 || got[0] != "external" {
		t.Fatalf("tasks = %v", got)
	}
	if td.Selected() != 0 {
		t.Fatal("selection of missing task should be dropped")
	}
}

func TestTodoMessagesAreTargeted(t *testing.T) {
	var msg tea.Msg = todoChangedMsg{window: "w9"}
	tg, ok := msg.(Targeted)
	if !ok || tg.Target() != "w9" {
		t.Fatalf("todoChangedMsg target = %v", msg)
	}
}

func TestTodoView(t *testing.T) {
	td, _ := newTestTodo(t)
	out := td.View(60, 12, DarkPalette())
	if !strings.Contains(out, "No tasks") {
		t.Fatalf("empty view = %q", out)
	}
	td.Add("write report", todostore.PriorityHigh)
	out = td.View(60, 12, DarkPalette())
	if !strings.Contains(out, "write report") || !strings.Contains(out, "1 active") {
		t.Fatalf("view = %q", out)
	}
}
