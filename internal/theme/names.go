package theme

// Theme names.
const (
	Light        = "light"
	Dark         = "dark"
	HighContrast = "high-contrast"
)

// DefaultName is the theme used when nothing is stored.
const DefaultName = Light

// StorageKey is the key the selected theme is persisted under.
const StorageKey = "theme"

// Names lists the themes in cycle order.
var Names = []string{Light, Dark, HighContrast}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Next returns the theme after name in cycle order. Unknown names cycle
// back to the first theme.
func Next(name string) string {
	for i, n := range Names {
		if n == name {
			return Names[(i+1)%len(Names)]
		}
	}
	return Names[0]
}

// DisplayName returns the human readable name of a theme.
func DisplayName(name string) string {
	switch name {
	case Light:
		return "Light"
	case Dark:
		return "Dark"
	case HighContrast:
		return "High Contrast"
	default:
		return name
	}
}
