package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedPalettes contains all bundled palette files.
//
//go:embed themes/*.toml
var EmbeddedPalettes embed.FS

// GetEmbeddedPalette retrieves a bundled palette by name.
// Returns the TOML content and whether it was found.
func GetEmbeddedPalette(name string) ([]byte, bool) {
	data, err := EmbeddedPalettes.ReadFile("themes/" + name + ".toml")
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListEmbeddedPalettes returns names of all embedded palettes.
func ListEmbeddedPalettes() []string {
	entries, err := fs.ReadDir(EmbeddedPalettes, "themes")
	if err != nil {
		return Names
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext == ".toml" {
			names = append(names, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	return names
}

// IsEmbeddedPalette checks if a palette is bundled.
func IsEmbeddedPalette(name string) bool {
	_, found := GetEmbeddedPalette(name)
	return found
}
