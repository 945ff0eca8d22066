// Package watch batches file system changes so the CLI can re-lint
// Starlark files as they are edited.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is emitted.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a set of roots and emits batches of changed .star files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// New creates a watcher over the given paths. Directory roots are watched
// recursively (hidden directories skipped); file roots are watched through
// their parent directory.
func New(roots []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, debounce: DefaultDebounce}
	for _, root := range roots {
		if err := w.add(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add registers a root with the underlying watcher.
func (w *Watcher) add(root string) error {
	fi, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return w.fsw.Add(filepath.Dir(root))
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		}
		return nil
	})
}

// SetDebounce overrides the quiet period. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start returns a channel of change batches. Each batch holds the .star
// files written, created, or renamed since the previous batch, sorted,
// emitted once the file system has been quiet for the debounce period.
// The channel closes when the context is cancelled or the watcher shuts
// down.
func (w *Watcher) Start(ctx context.Context) <-chan []string {
	out := make(chan []string)
	go w.loop(ctx, out)
	return out
}

// Close shuts down the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, out chan<- []string) {
	defer close(out)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Directories created under a watched root join the watch
			// set so files added inside them are seen.
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = w.add(event.Name)
					continue
				}
			}
			if !relevant(event) {
				continue
			}
			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			timer = nil
			fire = nil
			batch := existing(drain(pending))
			if len(batch) == 0 {
				continue
			}
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// relevant reports whether the event is a write, create, or rename of a
// .star file.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasSuffix(event.Name, ".star")
}

// drain empties the pending set and returns its paths sorted.
func drain(pending map[string]bool) []string {
	batch := make([]string, 0, len(pending))
	for path := range pending {
		batch = append(batch, path)
		delete(pending, path)
	}
	sort.Strings(batch)
	return batch
}

// existing filters the batch to paths that still resolve to regular files.
// A rename leaves an event for the old path behind; linting it would only
// report a spurious read failure.
func existing(batch []string) []string {
	files := batch[:0]
	for _, path := range batch {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	return files
}
