// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes environment overrides. Sections and keys are separated
// by a double underscore: DOCSHELL_POSITION__GAP sets [position] gap.
const EnvPrefix = "DOCSHELL_"

// Default configuration values. Sizes are terminal cells.
const (
	DefaultGap                   = 1
	DefaultPopupFallbackWidth    = 24
	DefaultPopupFallbackHeight   = 10
	DefaultTooltipFallbackWidth  = 12
	DefaultTooltipFallbackHeight = 1
	DefaultPopupBreathingRoom    = 4
	DefaultSidebarWidth          = 28
	DefaultSidebarRailWidth      = 6
	DefaultSidebarBreakpoint     = 100
	DefaultDiagnosticsCapacity   = 50
	DefaultTheme                 = "light"
)

// Config represents the docshell configuration.
type Config struct {
	Position    PositionConfig    `toml:"position"`
	Popup       PopupConfig       `toml:"popup"`
	Tooltip     TooltipConfig     `toml:"tooltip"`
	Sidebar     SidebarConfig     `toml:"sidebar"`
	Scroll      ScrollConfig      `toml:"scroll"`
	ScrollSpy   ScrollSpyConfig   `toml:"scrollspy"`
	Announce    AnnounceConfig    `toml:"announce"`
	Theme       ThemeConfig       `toml:"theme"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Audio       AudioConfig       `toml:"audio"`
	Clipboard   ClipboardConfig   `toml:"clipboard"`
}

// PositionConfig holds panel placement settings.
type PositionConfig struct {
	Gap                   int `toml:"gap"`                     // Clearance to trigger and terminal edges
	PopupFallbackWidth    int `toml:"popup_fallback_width"`    // Used when a popup measures as empty
	PopupFallbackHeight   int `toml:"popup_fallback_height"`   // Used when a popup measures as empty
	TooltipFallbackWidth  int `toml:"tooltip_fallback_width"`  // Used when a tooltip measures as empty
	TooltipFallbackHeight int `toml:"tooltip_fallback_height"` // Used when a tooltip measures as empty
	PopupBreathingRoom    int `toml:"popup_breathing_room"`    // Rows kept free when capping the user popup
}

// PopupConfig holds hover intent timings for the user and theme popups.
type PopupConfig struct {
	OpenDelay  Duration `toml:"open_delay"`  // Hover time before opening
	CloseDelay Duration `toml:"close_delay"` // Grace period after leaving
}

// TooltipConfig holds sidebar tooltip settings.
type TooltipConfig struct {
	Enabled         bool     `toml:"enabled"`
	CloseTransition Duration `toml:"close_transition"` // Fade-out before removal
}

// SidebarConfig holds sidebar layout settings.
type SidebarConfig struct {
	Width      int  `toml:"width"`      // Expanded width
	RailWidth  int  `toml:"rail_width"` // Collapsed width
	Breakpoint int  `toml:"breakpoint"` // Terminals this narrow or narrower force the rail
	Collapsed  bool `toml:"collapsed"`  // Initial state
}

// ScrollConfig holds scroll state settings.
type ScrollConfig struct {
	IdleDelay Duration `toml:"idle_delay"` // Time after the last scroll before scrolling ends
}

// ScrollSpyConfig holds scroll spy settings.
type ScrollSpyConfig struct {
	ClickLock Duration `toml:"click_lock"` // Spy updates are ignored this long after a nav jump
	Band      float64  `toml:"band"`       // Fraction of the viewport height used as the active line
}

// AnnounceConfig holds announcement settings.
type AnnounceConfig struct {
	Delay   Duration `toml:"delay"`   // Time between clearing and setting the live region
	Desktop bool     `toml:"desktop"` // Also send desktop notifications
	Earcons bool     `toml:"earcons"` // Play a sound with each announcement
}

// ThemeConfig holds theme settings.
type ThemeConfig struct {
	Default      string `toml:"default"`       // Used when nothing is stored
	FollowSystem bool   `toml:"follow_system"` // Ask the desktop portal when nothing is stored
	Watch        bool   `toml:"watch"`         // Hot-reload user palette files
}

// DiagnosticsConfig holds diagnostics settings.
type DiagnosticsConfig struct {
	Capacity int `toml:"capacity"` // Entries kept in memory
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Volume int         `toml:"volume"` // 0-100
	Sounds SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-priority sound file paths.
type SoundConfig struct {
	Polite    string `toml:"polite"`
	Assertive string `toml:"assertive"`
}

// ClipboardConfig holds clipboard settings.
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Position: PositionConfig{
			Gap:                   DefaultGap,
			PopupFallbackWidth:    DefaultPopupFallbackWidth,
			PopupFallbackHeight:   DefaultPopupFallbackHeight,
			TooltipFallbackWidth:  DefaultTooltipFallbackWidth,
			TooltipFallbackHeight: DefaultTooltipFallbackHeight,
			PopupBreathingRoom:    DefaultPopupBreathingRoom,
		},
		Popup: PopupConfig{
			OpenDelay:  Duration(200 * time.Millisecond),
			CloseDelay: Duration(100 * time.Millisecond),
		},
		Tooltip: TooltipConfig{
			Enabled:         true,
			CloseTransition: Duration(150 * time.Millisecond),
		},
		Sidebar: SidebarConfig{
			Width:      DefaultSidebarWidth,
			RailWidth:  DefaultSidebarRailWidth,
			Breakpoint: DefaultSidebarBreakpoint,
		},
		Scroll: ScrollConfig{
			IdleDelay: Duration(150 * time.Millisecond),
		},
		ScrollSpy: ScrollSpyConfig{
			ClickLock: Duration(time.Second),
			Band:      0.2,
		},
		Announce: AnnounceConfig{
			Delay: Duration(100 * time.Millisecond),
		},
		Theme: ThemeConfig{
			Default: DefaultTheme,
			Watch:   true,
		},
		Diagnostics: DiagnosticsConfig{
			Capacity: DefaultDiagnosticsCapacity,
		},
		Audio: AudioConfig{
			Volume: 80,
		},
		Clipboard: ClipboardConfig{
			Command: "", // Auto-detect
		},
	}
}

// ConfigDir returns the docshell config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "docshell")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// ThemesDir returns the directory holding user palette overrides.
func ThemesDir() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "docshell")
}

// StatePath returns the path to the persisted key/value state file.
func StatePath() string {
	return filepath.Join(DataPath(), "state.json")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist. Environment overrides
// are applied on top of the file and the result is validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// No config file, use defaults
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays DOCSHELL_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return fmt.Errorf("loading env overrides: %w", err)
	}

	if len(k.Keys()) == 0 {
		return nil
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "toml"}); err != nil {
		return fmt.Errorf("applying env overrides: %w", err)
	}
	return nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Position.Gap < 0 {
		return fmt.Errorf("position.gap must be non-negative, got %d", c.Position.Gap)
	}
	if c.Position.PopupFallbackWidth < 1 || c.Position.PopupFallbackHeight < 1 {
		return fmt.Errorf("popup fallback size must be at least 1x1, got %dx%d",
			c.Position.PopupFallbackWidth, c.Position.PopupFallbackHeight)
	}
	if c.Position.TooltipFallbackWidth < 1 || c.Position.TooltipFallbackHeight < 1 {
		return fmt.Errorf("tooltip fallback size must be at least 1x1, got %dx%d",
			c.Position.TooltipFallbackWidth, c.Position.TooltipFallbackHeight)
	}
	if c.Position.PopupBreathingRoom < 0 {
		return fmt.Errorf("position.popup_breathing_room must be non-negative, got %d", c.Position.PopupBreathingRoom)
	}

	for name, d := range map[string]Duration{
		"popup.open_delay":         c.Popup.OpenDelay,
		"popup.close_delay":        c.Popup.CloseDelay,
		"tooltip.close_transition": c.Tooltip.CloseTransition,
		"scroll.idle_delay":        c.Scroll.IdleDelay,
		"scrollspy.click_lock":     c.ScrollSpy.ClickLock,
		"announce.delay":           c.Announce.Delay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %s", name, d.Duration())
		}
	}

	if c.Sidebar.Width < 1 || c.Sidebar.RailWidth < 1 {
		return fmt.Errorf("sidebar widths must be positive, got width=%d rail_width=%d", c.Sidebar.Width, c.Sidebar.RailWidth)
	}
	if c.Sidebar.RailWidth > c.Sidebar.Width {
		return fmt.Errorf("sidebar.rail_width (%d) must not exceed sidebar.width (%d)", c.Sidebar.RailWidth, c.Sidebar.Width)
	}
	if c.Sidebar.Breakpoint < 0 {
		return fmt.Errorf("sidebar.breakpoint must be non-negative, got %d", c.Sidebar.Breakpoint)
	}

	if c.ScrollSpy.Band < 0 || c.ScrollSpy.Band > 1 {
		return fmt.Errorf("scrollspy.band must be between 0 and 1, got %g", c.ScrollSpy.Band)
	}

	if !validThemes[c.Theme.Default] {
		return fmt.Errorf("invalid theme.default %q, must be one of: light, dark, high-contrast", c.Theme.Default)
	}

	if c.Diagnostics.Capacity < 1 {
		return fmt.Errorf("diagnostics.capacity must be positive, got %d", c.Diagnostics.Capacity)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	return nil
}

// validThemes lists the accepted theme.default values.
var validThemes = map[string]bool{
	"light":         true,
	"dark":          true,
	"high-contrast": true,
}

// GetSoundForPriority returns the sound file path for an announcement
// priority ("polite" or "assertive"). Expands ~ to home directory.
func (c *Config) GetSoundForPriority(priority string) string {
	if priority == "assertive" {
		return expandPath(c.Audio.Sounds.Assertive)
	}
	return expandPath(c.Audio.Sounds.Polite)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
