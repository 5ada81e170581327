// Package store provides persistent key/value storage for user preferences
// such as the selected theme.
package store

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ChangeType indicates the type of storage change.
type ChangeType int

const (
	// ChangeTypeSet indicates a key was written.
	ChangeTypeSet ChangeType = iota
	// ChangeTypeRemove indicates a key was removed.
	ChangeTypeRemove
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	if c == ChangeTypeRemove {
		return "remove"
	}
	return "set"
}

// Sources reported in ChangeEvent.
const (
	SourceLocal = "local" // Written through this Storage
	SourceFile  = "file"  // Picked up from a rewrite of the state file
)

// ChangeEvent signals a change to a single key.
type ChangeEvent struct {
	Type   ChangeType
	Key    string
	Value  string
	Source string
}

// Storage is a string key/value store persisted to a JSON file.
// Read and write failures are logged and otherwise ignored so callers
// never have to handle storage being unavailable.
type Storage struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
	logger *slog.Logger

	subscribers []chan ChangeEvent
	closed      bool
}

// NewStorage opens the storage backed by path. An empty path keeps values
// in memory only.
func NewStorage(path string, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Storage{
		path:   path,
		values: make(map[string]string),
		logger: logger,
	}

	if path != "" {
		state, err := LoadStateFile(path)
		if err != nil {
			logger.Warn("failed to load state, starting empty", "path", path, "error", err)
		} else {
			s.values = state.Values
		}
	}

	return s
}

// Path returns the backing file path, or "" for in-memory storage.
func (s *Storage) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Storage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Keys returns all stored keys in sorted order.
func (s *Storage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.values))
}

// Set stores value under key and persists the change.
func (s *Storage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if old, ok := s.values[key]; ok && old == value {
		return
	}

	s.values[key] = value
	s.persistLocked()
	s.notifyChange(ChangeEvent{Type: ChangeTypeSet, Key: key, Value: value, Source: SourceLocal})
}

// Remove deletes key and persists the change.
func (s *Storage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, ok := s.values[key]; !ok {
		return
	}

	delete(s.values, key)
	s.persistLocked()
	s.notifyChange(ChangeEvent{Type: ChangeTypeRemove, Key: key, Source: SourceLocal})
}

// Hydrate reloads the backing file and emits an event for every key that
// differs from the in-memory copy.
func (s *Storage) Hydrate() error {
	if s.path == "" {
		return nil
	}

	state, err := LoadStateFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	var events []ChangeEvent
	for k, v := range state.Values {
		if old, ok := s.values[k]; !ok || old != v {
			events = append(events, ChangeEvent{Type: ChangeTypeSet, Key: k, Value: v, Source: SourceFile})
		}
	}
	for k := range s.values {
		if _, ok := state.Values[k]; !ok {
			events = append(events, ChangeEvent{Type: ChangeTypeRemove, Key: k, Source: SourceFile})
		}
	}
	s.values = state.Values

	slices.SortFunc(events, func(a, b ChangeEvent) int {
		return strings.Compare(a.Key, b.Key)
	})
	for _, e := range events {
		s.notifyChange(e)
	}

	if len(events) > 0 {
		s.logger.Debug("state rehydrated", "path", s.path, "changes", len(events))
	}
	return nil
}

// Subscribe returns a channel that receives change events.
func (s *Storage) Subscribe() <-chan ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ChangeEvent, 10)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription.
func (s *Storage) Unsubscribe(ch <-chan ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		// Compare by checking if it's the same channel
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close closes all subscriber channels. Further writes are ignored.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}

func (s *Storage) persistLocked() {
	if s.path == "" {
		return
	}
	state := &StateFile{Values: maps.Clone(s.values)}
	if err := SaveStateFile(s.path, state); err != nil {
		s.logger.Warn("failed to persist state", "path", s.path, "error", err)
	}
}

// notifyChange sends a change event to all subscribers (non-blocking).
func (s *Storage) notifyChange(event ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}
