package todostore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
)

const taskSuffix = ".task"

type diskStore struct {
	d        *diskv.Diskv
	basePath string
	logger   *slog.Logger
}

// Open returns a Store that keeps one JSON document per task under dir.
func Open(dir string, logger *slog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("todostore: ensure base path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &diskStore{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 0, // files may be edited by another session
		}),
		basePath: dir,
		logger:   logger,
	}, nil
}

func (s *diskStore) List(ctx context.Context) ([]Task, error) {
	tasks := make([]Task, 0)
	for key := range s.d.Keys(ctx.Done()) {
		if !strings.HasSuffix(key, taskSuffix) {
			continue
		}
		val, err := s.d.Read(key)
		if err != nil {
			s.logger.Warn("skipping unreadable task", "key", key, "error", err)
			continue
		}
		var t Task
		if err := json.Unmarshal(val, &t); err != nil {
			s.logger.Warn("skipping corrupt task", "key", key, "error", err)
			continue
		}
		t.ID = strings.TrimSuffix(key, taskSuffix)
		if !t.Priority.Valid() {
			t.Priority = PriorityMedium
		}
		tasks = append(tasks, t)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return tasks, nil
}

func (s *diskStore) Put(task Task) error {
	if err := validateID(task.ID); err != nil {
		return err
	}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("todostore: encode %s: %w", task.ID, err)
	}
	if err := s.d.Write(task.ID+taskSuffix, data); err != nil {
		return fmt.Errorf("todostore: write %s: %w", task.ID, err)
	}
	return nil
}

func (s *diskStore) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	key := id + taskSuffix
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("todostore: erase %s: %w", id, err)
	}
	return nil
}

// Watch streams change notifications until ctx is cancelled. Bursts of
// writes are coalesced into a single event.
func (s *diskStore) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("todostore: create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("todostore: watch %s: %w", s.basePath, err)
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		defer watcher.Close()

		var (
			fire <-chan time.Time
			last string
		)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(filepath.Base(evt.Name), taskSuffix) {
					continue
				}
				last = evt.Name
				if fire == nil {
					fire = time.After(100 * time.Millisecond)
				}
			case <-fire:
				fire = nil
				select {
				case events <- Event{Path: last}:
				default:
					// Consumer is behind; it reloads everything on the next event anyway.
				}
			}
		}
	}()

	return events, nil
}
