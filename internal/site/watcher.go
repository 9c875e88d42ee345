package site

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of write events from editors that save in
// several steps.
const debounceWindow = 250 * time.Millisecond

// Watcher watches the site tree for HTML changes and invokes a callback
// with the changed paths.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	exclude map[string]bool
	logger  *slog.Logger

	onChange func(paths []string)

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer

	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher over root. Directories named in excludeDirs
// are not watched.
func NewWatcher(root string, excludeDirs []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(excludeDirs))
	for _, dir := range excludeDirs {
		excluded[dir] = true
	}

	return &Watcher{
		watcher: fsw,
		root:    root,
		exclude: excluded,
		logger:  logger,
		pending: make(map[string]bool),
		done:    make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the callback invoked with changed HTML paths.
func (w *Watcher) SetChangeCallback(fn func(paths []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start registers every directory under the root and begins watching.
// fsnotify does not recurse, so each directory is added individually.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.exclude[d.Name()] {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return err
	}

	go w.watch()
	w.logger.Debug("site watcher started", "root", w.root)
	return nil
}

// watch is the main event loop.
func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".html") {
				// New directories need a watch of their own.
				if event.Has(fsnotify.Create) && !w.exclude[filepath.Base(event.Name)] {
					if err := w.watcher.Add(event.Name); err == nil {
						continue
					}
				}
				continue
			}
			w.record(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("site watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// record buffers a changed path and (re)arms the debounce timer.
func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, w.flush)
}

// flush delivers the buffered paths to the callback.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	fn := w.onChange
	w.mu.Unlock()

	if fn != nil {
		fn(paths)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}
