package todostore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleTasks() []Task {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []Task{
		{ID: "b", Text: "second", Priority: PriorityHigh, CreatedAt: base.Add(time.Minute)},
		{ID: "a", Text: "first", Priority: PriorityLow, CreatedAt: base},
		{ID: "c", Text: "third", Completed: true, Priority: PriorityMedium, CreatedAt: base.Add(time.Minute)},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	for _, task := range sampleTasks() {
		if err := s.Put(task); err != nil {
			t.Fatalf("put %s: %v", task.ID, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}
	order := []string{got[0].ID, got[1].ID, got[2].ID}
	if order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("expected creation order a,b,c got %v", order)
	}
	if !got[2].Completed || got[1].Priority != PriorityHigh {
		t.Fatalf("fields not preserved: %+v", got)
	}

	if err := s.Delete("b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete("missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	got, _ = s.List(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks after delete, got %d", len(got))
	}

	if err := s.Put(Task{ID: "../escape"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, Memory())
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	exerciseStore(t, s)

	reopened, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected tasks to persist, got %d", len(got))
	}
}

func TestDiskStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(Task{ID: "ok", Text: "fine"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.task"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected only the valid task, got %+v", got)
	}
	if got[0].Priority != PriorityMedium {
		t.Fatalf("expected missing priority to default to medium, got %q", got[0].Priority)
	}
}

func TestDiskStoreWatch(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	other, _ := Open(dir, nil)
	if err := other.Put(Task{ID: "x", Text: "from elsewhere"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	select {
	case ev := <-events:
		if filepath.Base(ev.Path) != "x.task" {
			t.Fatalf("unexpected event path %q", ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for watch event")
	}
}

func TestPriorityNext(t *testing.T) {
	if PriorityLow.Next() != PriorityMedium || PriorityMedium.Next() != PriorityHigh || PriorityHigh.Next() != PriorityLow {
		t.Fatalf("unexpected priority cycle")
	}
}
