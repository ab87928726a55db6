// Package watch calls a function whenever one of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("parsnip.watch")

// DefaultDebounce is how long changes to one file are ignored after a
// change was reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports writes to files. It watches the directories holding
// them, so files replaced by a rename are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	onChange func(path string)
	debounce time.Duration

	mu         sync.Mutex
	lastChange map[string]time.Time
}

// New returns a watcher calling onChange with the path of a changed file.
func New(onChange func(path string), files ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher:    fsWatcher,
		files:      make(map[string]bool),
		onChange:   onChange,
		debounce:   DefaultDebounce,
		lastChange: make(map[string]time.Time),
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		log.Debugf("watching %s", dir)
	}
	return w, nil
}

// SetDebounce changes the debounce interval. Zero reports every event.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	w.debounce = d
	w.mu.Unlock()
}

// Run processes events until ctx is done and then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event, time.Now())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watcher error: %s", err)
		}
	}
}

// handle reports event if it writes or creates a watched file and the
// file has not been reported within the debounce interval.
func (w *Watcher) handle(event fsnotify.Event, now time.Time) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return false
	}

	w.mu.Lock()
	if last, ok := w.lastChange[path]; ok && now.Sub(last) < w.debounce {
		w.mu.Unlock()
		return false
	}
	w.lastChange[path] = now
	w.mu.Unlock()

	log.Infof("changed: %s", path)
	w.onChange(path)
	return true
}
