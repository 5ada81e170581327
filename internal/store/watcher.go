package store

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long the state watcher waits for a burst of file
// events to end before rehydrating.
const DefaultSettle = 50 * time.Millisecond

// StateWatcher follows rewrites of the state file by other instances and
// rehydrates the storage, which in turn notifies subscribers of every key
// that changed.
type StateWatcher struct {
	storage *Storage
	logger  *slog.Logger
	settle  time.Duration
}

// NewStateWatcher creates a watcher for the storage's backing file.
func NewStateWatcher(storage *Storage, logger *slog.Logger) *StateWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateWatcher{storage: storage, logger: logger, settle: DefaultSettle}
}

// Run watches until ctx is done. A save shows up as several events (the
// temp file is written, then renamed over the state file); they are
// coalesced into one rehydrate.
func (w *StateWatcher) Run(ctx context.Context) error {
	path := w.storage.Path()
	if path == "" {
		return errors.New("storage has no backing file")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fsw.Close() }()

	// The directory rather than the file, so renames onto it are seen.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return err
	}

	name := filepath.Base(path)
	settle := time.NewTimer(w.settle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				settle.Reset(w.settle)
			}

		case <-settle.C:
			w.logger.Debug("state file changed, rehydrating", "file", path)
			if err := w.storage.Hydrate(); err != nil {
				w.logger.Warn("failed to rehydrate state", "error", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("state watcher error", "error", err)
		}
	}
}
