// Package watcher provides file system watching with debouncing for the config file.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tommyrac/Dawn/internal/log"
	"github.com/tommyrac/Dawn/internal/timing"
)

// Watcher monitors a single file and signals after writes settle.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  *timing.Debouncer
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a new file watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		path:      filepath.Clean(cfg.Path),
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	w.debounce = timing.NewDebouncer(w.notify, cfg.DebounceDur, false)
	return w, nil
}

// Start begins watching the file's directory. Watching the directory rather
// than the file survives editors that save by rename.
// Returns a channel that receives a signal when the file changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()

	log.Debug(log.CatWatcher, "watching", "path", w.path)
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	w.debounce.Cancel()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			log.Debug(log.CatWatcher, "change detected", "path", event.Name, "op", event.Op.String())
			w.debounce.Call()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching after transient errors
			log.ErrorErr(log.CatWatcher, "watch error", err, "path", w.path)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) notify() {
	select {
	case <-w.done:
		return
	default:
	}
	// Non-blocking send - a pending signal already covers this change
	select {
	case w.onChange <- struct{}{}:
	default:
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
