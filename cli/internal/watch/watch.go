// Package watch reruns a callback when a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danny270793/myorm/internal/debug"
)

// DefaultDebounce is used when Watcher.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls OnChange after writes to File settle for Debounce.
type Watcher struct {
	File     string
	Debounce time.Duration
	OnChange func() error
}

// Run watches until ctx is done. The directory holding File is watched so
// that files replaced by rename (as SQLite journals do) keep being seen.
// Callback errors are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return fmt.Errorf("watch: no callback")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(w.File)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// the -journal and -wal side files count as changes to the database
			if path, err := filepath.Abs(event.Name); err != nil || !matches(path, target) {
				continue
			}
			timer.Reset(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.OnChange(); err != nil {
				debug.Error("watch callback failed", "file", w.File, "error", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			debug.Warn("watch error", "file", w.File, "error", err)

		case <-ctx.Done():
			timer.Stop()
			return nil
		}
	}
}

func matches(path, target string) bool {
	return path == target || path == target+"-journal" || path == target+"-wal"
}
