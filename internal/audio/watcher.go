package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to earcon files so stale decodes can be dropped.
// It watches the directories holding the files, which also catches editors
// that save by renaming a temp file into place.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger

	paths    map[string]struct{}
	dirs     map[string]int // Directory to number of watched files in it
	onChange func(path string)

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates an earcon file watcher.
func NewWatcher(logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger: logger,
		paths:  make(map[string]struct{}),
		dirs:   make(map[string]int),
	}
}

// SetChangeCallback sets the function called with each changed path.
func (w *Watcher) SetChangeCallback(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Watch adds a file to the watch list.
func (w *Watcher) Watch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	w.paths[path] = struct{}{}

	dir := filepath.Dir(path)
	w.dirs[dir]++
	if w.dirs[dir] == 1 && w.fsw != nil {
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
		}
	}
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; !ok {
		return
	}
	delete(w.paths, path)

	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return
	}
	delete(w.dirs, dir)
	if w.fsw != nil {
		_ = w.fsw.Remove(dir)
	}
}

// Watched returns the number of watched files.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Start begins watching. It returns once the directories are registered;
// events are handled until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.loop(ctx, fsw, w.done)
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return
	}
	fsw, cancel, done := w.fsw, w.cancel, w.done
	w.fsw, w.cancel, w.done = nil, nil, nil
	w.mu.Unlock()

	cancel()
	_ = fsw.Close()
	<-done
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fsw != nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("sound watcher error", "error", err)
		}
	}
}

// handle reports writes and replacements of watched files.
func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	_, watched := w.paths[event.Name]
	fn := w.onChange
	w.mu.Unlock()

	if !watched || fn == nil {
		return
	}
	w.logger.Debug("sound file changed", "path", event.Name)
	fn(event.Name)
}
