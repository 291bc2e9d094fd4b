package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 150 * time.Millisecond

// Watch reloads path whenever it changes on disk and hands the result to
// onChange until ctx is cancelled. The parent directory is watched so that
// editors which replace the file by rename are still observed. onChange runs
// on the watcher goroutine.
func Watch(ctx context.Context, path string, onChange func(*LoadResult, error)) error {
	canon, err := canonicalPath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(canon)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: ensure dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()

		var (
			mu    sync.Mutex
			timer *time.Timer
		)
		schedule := func() {
			mu.Lock()
			defer mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, func() {
				if ctx.Err() != nil {
					return
				}
				onChange(LoadFromPath(canon))
			})
		}
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

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
				if filepath.Clean(evt.Name) != canon {
					continue
				}
				if evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename) {
					schedule()
				}
			}
		}
	}()

	return nil
}
