package audio

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"sync"

	"github.com/jmylchreest/docshell/internal/config"
)

// Priorities that can carry a sound.
const (
	PriorityPolite    = "polite"
	PriorityAssertive = "assertive"
)

// Manager plays the sound configured for an announcement priority.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool
	volume  int

	sounds map[string]string // Priority to expanded sound path
}

// NewManager creates an audio manager from cfg. Sounds only play when
// announce.earcons is enabled.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	player := NewPlayer(logger)
	m := &Manager{
		logger:  logger,
		player:  player,
		watcher: NewWatcher(logger),
		sounds:  make(map[string]string),
	}
	m.watcher.SetChangeCallback(player.Forget)
	m.load(cfg)
	return m
}

func (m *Manager) load(cfg *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.sounds)
	if cfg == nil {
		m.enabled = false
		return
	}

	m.enabled = cfg.Announce.Earcons
	m.volume = cfg.Audio.Volume
	m.player.SetVolume(cfg.Audio.Volume)

	for _, priority := range []string{PriorityPolite, PriorityAssertive} {
		path := cfg.GetSoundForPriority(priority)
		if path == "" {
			continue
		}

		expanded := expandPath(path)
		if _, err := os.Stat(expanded); err != nil {
			m.logger.Warn("sound file not found", "priority", priority, "path", expanded)
			continue
		}

		m.sounds[priority] = expanded
		m.logger.Debug("loaded sound", "priority", priority, "path", expanded)
	}
}

// Enabled reports whether earcons are turned on.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SoundFor returns the sound path for a priority.
func (m *Manager) SoundFor(priority string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path, ok := m.sounds[priority]
	return path, ok
}

func (m *Manager) snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sounds := make(map[string]string, len(m.sounds))
	maps.Copy(sounds, m.sounds)
	return sounds
}

// Start preloads the configured sounds and starts watching them.
func (m *Manager) Start(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}

	sounds := m.snapshot()
	for _, path := range sounds {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
		m.watcher.Watch(path)
	}

	if err := m.watcher.Start(ctx); err != nil {
		return err
	}

	m.logger.Info("audio manager started", "sounds", len(sounds))
	return nil
}

// Stop shuts down the audio manager.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// PlayForPriority plays the sound configured for the given priority. It
// does nothing when earcons are disabled or no sound is configured.
func (m *Manager) PlayForPriority(priority string) error {
	if !m.Enabled() {
		return nil
	}

	path, ok := m.SoundFor(priority)
	if !ok {
		m.logger.Debug("no sound configured for priority", "priority", priority)
		return nil
	}
	return m.player.Play(path)
}

// GetVolume returns the configured volume (0-100).
func (m *Manager) GetVolume() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// UpdateConfig applies a new configuration and reloads sounds.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.player.Reset()
	for _, path := range m.snapshot() {
		m.watcher.Unwatch(path)
	}

	m.load(cfg)

	for _, path := range m.snapshot() {
		m.watcher.Watch(path)
	}
	m.logger.Debug("audio manager config updated")
}
