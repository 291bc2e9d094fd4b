// Package todostore persists task list entries.
package todostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is one entry of the task list.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Event signals that the stored tasks changed outside this process.
type Event struct {
	Path string
}

// ErrInvalidID is returned for ids that cannot be used as storage keys.
var ErrInvalidID = errors.New("todostore: invalid task id")

// Store persists tasks keyed by id.
type Store interface {
	List(ctx context.Context) ([]Task, error)
	Put(task Task) error
	Delete(id string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func sortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

type memoryStore struct {
	mu    sync.Mutex
	tasks map[string]Task
}

// Memory returns a Store that keeps tasks for the lifetime of the process.
func Memory() Store {
	return &memoryStore{tasks: make(map[string]Task)}
}

func (m *memoryStore) List(ctx context.Context) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	sortTasks(out)
	return out, nil
}

func (m *memoryStore) Put(task Task) error {
	if err := validateID(task.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
	return nil
}

func (m *memoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

// Watch returns a nil channel; nothing else can change a memory store.
func (m *memoryStore) Watch(ctx context.Context) (<-chan Event, error) {
	return nil, nil
}
