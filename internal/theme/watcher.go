package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Watcher polls the user override of a palette and reloads it when the
// file is created, changed or removed.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	dir     string
	palette *Palette
	seen    time.Time // Modification time of the override, zero if absent

	pollInterval     time.Duration
	onChangeCallback func(p *Palette)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewWatcher creates a watcher for palette overrides in dir.
func NewWatcher(palette *Palette, dir string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger:       logger,
		dir:          dir,
		palette:      palette,
		seen:         palette.ModTime,
		pollInterval: 1 * time.Second,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// SetPollInterval sets the polling interval for file changes.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// SetChangeCallback sets the callback to invoke when the palette changes.
// The callback receives a copy of the reloaded palette.
func (w *Watcher) SetChangeCallback(callback func(p *Palette)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start begins polling.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if w.dir == "" {
		w.mu.Unlock()
		w.logger.Debug("no palette directory, not watching")
		return nil
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	interval := w.pollInterval
	w.mu.Unlock()

	go w.watchLoop(ctx, interval)

	w.logger.Debug("palette watcher started", "dir", w.dir, "interval", interval)
	return nil
}

// Stop stops polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("palette watcher stopped")
}

// UpdatePalette switches to watching a different palette.
func (w *Watcher) UpdatePalette(p *Palette) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.palette = p
	w.seen = p.ModTime
}

// Palette returns a copy of the current palette.
func (w *Watcher) Palette() Palette {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return *w.palette
}

func (w *Watcher) watchLoop(ctx context.Context, interval time.Duration) {
	defer close(w.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

// checkForChanges reloads the palette when the override's modification
// time differs from the last one seen.
func (w *Watcher) checkForChanges() {
	w.mu.RLock()
	name := w.palette.Name
	seen := w.seen
	w.mu.RUnlock()

	path := filepath.Join(w.dir, name+".toml")
	var modTime time.Time
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	} else if !os.IsNotExist(err) {
		w.logger.Warn("failed to stat palette", "path", path, "error", err)
		return
	}
	if modTime.Equal(seen) {
		return
	}

	next, err := LoadPalette(name, w.dir)
	if err != nil {
		w.logger.Warn("failed to reload palette", "path", path, "error", err)
		w.mu.Lock()
		w.seen = modTime
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	changed := *w.palette != *next
	w.palette = next
	w.seen = modTime
	callback := w.onChangeCallback
	w.mu.Unlock()

	if changed {
		w.logger.Info("palette changed, reloading", "path", path)
		if callback != nil {
			cp := *next
			callback(&cp)
		}
	}
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
