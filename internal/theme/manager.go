package theme

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/dbus"
	"github.com/jmylchreest/docshell/internal/store"
)

// Sources reported in ChangeEvent.
const (
	SourceUser   = "user"   // Set, Toggle or Clear
	SourceSync   = "sync"   // Another instance rewrote the state file
	SourceSystem = "system" // Desktop colour scheme preference
)

// systemTimeout bounds the portal lookup during Init.
const systemTimeout = 500 * time.Millisecond

// Store is the persistence the manager writes the selected theme to.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// SystemSchemeFunc reads the desktop colour scheme preference.
type SystemSchemeFunc func(ctx context.Context) (dbus.ColorScheme, error)

// ChangeEvent is delivered to subscribers after every theme change.
type ChangeEvent struct {
	Name     string
	Previous string
	Source   string
}

// Manager tracks the selected theme.
type Manager struct {
	mu         sync.RWMutex
	store      Store
	paletteDir string
	logger     *slog.Logger
	current    string

	subscribers []chan ChangeEvent
}

// NewManager creates a manager backed by s. Palette overrides are read
// from paletteDir; an empty dir uses the bundled palettes only.
func NewManager(s Store, paletteDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:      s,
		paletteDir: paletteDir,
		logger:     logger,
		current:    DefaultName,
	}
}

// Init resolves the initial theme: a valid stored theme wins, then the
// desktop preference when cfg.FollowSystem is set, then cfg.Default.
// Nothing is written to the store.
func (m *Manager) Init(ctx context.Context, cfg config.ThemeConfig, system SystemSchemeFunc) string {
	name := m.resolve(ctx, cfg, system)

	m.mu.Lock()
	m.current = name
	m.mu.Unlock()

	m.logger.Debug("theme initialised", "theme", name)
	return name
}

func (m *Manager) resolve(ctx context.Context, cfg config.ThemeConfig, system SystemSchemeFunc) string {
	if stored, ok := m.store.Get(StorageKey); ok {
		if Valid(stored) {
			return stored
		}
		m.logger.Warn("ignoring unknown stored theme", "theme", stored)
	}

	if cfg.FollowSystem && system != nil {
		ctx, cancel := context.WithTimeout(ctx, systemTimeout)
		defer cancel()

		scheme, err := system(ctx)
		if err != nil {
			m.logger.Debug("system colour scheme unavailable", "error", err)
		} else {
			switch scheme {
			case dbus.ColorSchemePreferDark:
				return Dark
			case dbus.ColorSchemePreferLight:
				return Light
			}
		}
	}

	if Valid(cfg.Default) {
		return cfg.Default
	}
	return DefaultName
}

// Current returns the selected theme name.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set selects and persists a theme. Unknown names are ignored and Set
// returns false. The light theme is persisted by removing the key.
// Subscribers are notified on every valid call, even if the theme did not
// change.
func (m *Manager) Set(name string) bool {
	if !Valid(name) {
		m.logger.Debug("ignoring unknown theme", "theme", name)
		return false
	}

	m.mu.Lock()
	prev := m.current
	m.current = name
	m.mu.Unlock()

	if name == Light {
		m.store.Remove(StorageKey)
	} else {
		m.store.Set(StorageKey, name)
	}

	m.logger.Info("theme changed", "theme", name, "previous", prev)
	m.notify(ChangeEvent{Name: name, Previous: prev, Source: SourceUser})
	return true
}

// Toggle moves to the next theme in cycle order and returns it.
func (m *Manager) Toggle() string {
	next := Next(m.Current())
	m.Set(next)
	return next
}

// Clear resets to the light theme.
func (m *Manager) Clear() {
	m.Set(Light)
}

// Adopt takes over a theme selected by another instance without writing
// it back. An empty or unknown name means the default.
func (m *Manager) Adopt(name string) {
	if !Valid(name) {
		name = DefaultName
	}

	m.mu.Lock()
	prev := m.current
	if prev == name {
		m.mu.Unlock()
		return
	}
	m.current = name
	m.mu.Unlock()

	m.logger.Debug("theme synced", "theme", name, "previous", prev)
	m.notify(ChangeEvent{Name: name, Previous: prev, Source: SourceSync})
}

// HandleStoreEvent adopts theme changes picked up from the state file.
// Events this process wrote itself are ignored.
func (m *Manager) HandleStoreEvent(ev store.ChangeEvent) {
	if ev.Key != StorageKey || ev.Source != store.SourceFile {
		return
	}
	if ev.Type == store.ChangeTypeRemove {
		m.Adopt(DefaultName)
		return
	}
	m.Adopt(ev.Value)
}

// Palette loads the palette of the current theme.
func (m *Manager) Palette() (*Palette, error) {
	return LoadPalette(m.Current(), m.paletteDir)
}

// PaletteDir returns the directory palette overrides are read from.
func (m *Manager) PaletteDir() string {
	return m.paletteDir
}

// Subscribe returns a channel that receives theme changes.
func (m *Manager) Subscribe() <-chan ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan ChangeEvent, 10)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Manager) Unsubscribe(ch <-chan ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

func (m *Manager) notify(ev ChangeEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, ch := range m.subscribers {
		select {
		case ch <- ev:
		default:
			m.logger.Warn("theme subscriber channel full, dropping event")
		}
	}
}
