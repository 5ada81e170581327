package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/docshell/internal/config"
)

// Colors is the set of colours a theme provides. Values are hex strings
// understood by lipgloss.
type Colors struct {
	Background    string `toml:"background"`
	Foreground    string `toml:"foreground"`
	Muted         string `toml:"muted"`
	Accent        string `toml:"accent"`
	Border        string `toml:"border"`
	Surface       string `toml:"surface"`
	Selection     string `toml:"selection"`
	SelectionText string `toml:"selection_text"`
	Active        string `toml:"active"`
	Tooltip       string `toml:"tooltip"`
	TooltipText   string `toml:"tooltip_text"`
}

// Palette is a loaded theme.
type Palette struct {
	Name        string `toml:"-"`
	DisplayName string `toml:"display_name"`
	Glamour     string `toml:"glamour"` // Glamour standard style for document bodies
	Colors      Colors `toml:"colors"`

	Path    string    `toml:"-"` // User override file, empty if none
	ModTime time.Time `toml:"-"`
}

// LoadPalette loads the bundled palette for name and applies the user
// override from dir on top of it. An empty dir skips the override.
func LoadPalette(name, dir string) (*Palette, error) {
	p := &Palette{Name: name}
	if err := p.decode(dir); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadUserPalette loads a palette from config.ThemesDir.
func LoadUserPalette(name string) (*Palette, error) {
	return LoadPalette(name, config.ThemesDir())
}

func (p *Palette) decode(dir string) error {
	var next Palette

	bundled, found := GetEmbeddedPalette(p.Name)
	if found {
		if err := toml.Unmarshal(bundled, &next); err != nil {
			return fmt.Errorf("failed to parse bundled palette %s: %w", p.Name, err)
		}
	}

	path := ""
	var modTime time.Time
	if dir != "" {
		candidate := filepath.Join(dir, p.Name+".toml")
		data, err := os.ReadFile(candidate)
		switch {
		case err == nil:
			// Fields present in the override win; the rest stay bundled.
			if err := toml.Unmarshal(data, &next); err != nil {
				return fmt.Errorf("failed to parse palette %s: %w", candidate, err)
			}
			if info, err := os.Stat(candidate); err == nil {
				modTime = info.ModTime()
			}
			path = candidate
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("failed to read palette %s: %w", candidate, err)
		}
	}

	if !found && path == "" {
		return fmt.Errorf("unknown palette %q", p.Name)
	}

	if next.DisplayName == "" {
		next.DisplayName = DisplayName(p.Name)
	}
	next.Name = p.Name
	next.Path = path
	next.ModTime = modTime
	*p = next
	return nil
}

// IsBundledOnly reports whether the palette has no user override.
func (p *Palette) IsBundledOnly() bool {
	return p.Path == ""
}

// Reload re-reads the user override if its modification time changed.
// Returns true if the palette changed.
func (p *Palette) Reload() (bool, error) {
	if p.Path == "" {
		return false, nil
	}

	info, err := os.Stat(p.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(p.ModTime) {
		return false, nil
	}

	old := *p
	if err := p.decode(filepath.Dir(p.Path)); err != nil {
		return false, err
	}
	return old.Colors != p.Colors || old.Glamour != p.Glamour || old.DisplayName != p.DisplayName, nil
}

// PaletteInfo provides basic palette information for listing.
type PaletteInfo struct {
	Name        string
	DisplayName string
	Path        string
	IsBundled   bool
}

// ListAvailable lists the known themes and whether a user override exists
// for each in dir.
func ListAvailable(dir string) []PaletteInfo {
	infos := make([]PaletteInfo, 0, len(Names))
	for _, name := range Names {
		info := PaletteInfo{
			Name:        name,
			DisplayName: DisplayName(name),
			IsBundled:   IsEmbeddedPalette(name),
		}
		if dir != "" {
			path := filepath.Join(dir, name+".toml")
			if _, err := os.Stat(path); err == nil {
				info.Path = path
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// CreateThemesDir creates the user palette directory if it doesn't exist.
func CreateThemesDir() error {
	return os.MkdirAll(config.ThemesDir(), 0755)
}
