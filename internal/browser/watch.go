package browser

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// watchDebounce coalesces the burst of writes a browser makes to
	// its cookie database into a single change event.
	watchDebounce = 500 * time.Millisecond

	// pollInterval is the fallback poll period when inotify is not
	// available.
	pollInterval = 2 * time.Second
)

// Watch observes the cookie database at path and calls onChange after
// the browser writes to it. It blocks until the context is canceled.
// When the platform watcher cannot be set up it degrades to polling the
// file's mtime and size.
func Watch(ctx context.Context, l *log.Logger, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		l.Printf("fsnotify unavailable, polling instead: %v", err)
		return pollWatch(ctx, path, onChange)
	}
	defer w.Close()

	// Watch the directory: sqlite checkpoints replace files, which
	// drops a watch placed on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		l.Printf("cannot watch %s, polling instead: %v", filepath.Dir(path), err)
		return pollWatch(ctx, path, onChange)
	}

	base := filepath.Base(path)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return pollWatch(ctx, path, onChange)
			}
			// The -wal and -shm companions change on every write too.
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
		case <-timerC:
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return pollWatch(ctx, path, onChange)
			}
			l.Printf("watch error: %v", err)
		}
	}
}

// pollWatch checks the file's mtime and size on an interval.
func pollWatch(ctx context.Context, path string, onChange func()) error {
	var lastMod time.Time
	var lastSize int64
	if info, err := os.Stat(path); err == nil {
		lastMod, lastSize = info.ModTime(), info.Size()
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !info.ModTime().Equal(lastMod) || info.Size() != lastSize {
				lastMod, lastSize = info.ModTime(), info.Size()
				onChange()
			}
		}
	}
}
