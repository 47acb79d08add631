package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for filesystem activity to settle
// before regenerating.
const DefaultDebounce = 250 * time.Millisecond

// WatchFunc receives the outcome of each regeneration.
type WatchFunc func(res *Result, written bool, err error)

// Watch generates once, then regenerates out whenever a Go file under
// opts.Root changes, until ctx is cancelled. Newly created workflow
// directories are picked up automatically.
func Watch(ctx context.Context, opts Options, out string, debounce time.Duration, onResult WatchFunc) error {
	opts = opts.withDefaults()
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onResult == nil {
		onResult = func(*Result, bool, error) {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, opts.Root); err != nil {
		return err
	}

	absOut, _ := filepath.Abs(out)
	onResult(Generate(ctx, opts, out))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if abs, _ := filepath.Abs(event.Name); abs == absOut || strings.HasSuffix(event.Name, ".tmp") {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !ignoredDir(info.Name()) {
					_ = watcher.Add(event.Name)
				}
			}
			if !relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onResult(Generate(ctx, opts, out))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watch error", "error", err)
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read %s: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() || ignoredDir(e.Name()) {
			continue
		}
		if err := watcher.Add(filepath.Join(root, e.Name())); err != nil {
			return fmt.Errorf("watch %s: %w", e.Name(), err)
		}
	}
	return nil
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasSuffix(event.Name, ".go") {
		return true
	}
	// Directory create/remove/rename changes the workflow set.
	return filepath.Ext(event.Name) == ""
}
