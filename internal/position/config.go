package position

// DefaultGap is the clearance kept between a panel and its trigger or the
// viewport edges when no gap is configured.
const DefaultGap = 12

// Align controls where a panel sits horizontally relative to its trigger
// when it is not placed beside a reference element.
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// Valid reports whether a is a known alignment. The empty value is valid
// and behaves as AlignStart.
func (a Align) Valid() bool {
	switch a {
	case "", AlignStart, AlignCenter, AlignEnd:
		return true
	default:
		return false
	}
}

// VerticalPreference selects which side of the trigger is tried first.
type VerticalPreference int

const (
	// PreferAuto infers the preference from the trigger position:
	// triggers in the bottom half of the viewport prefer above.
	PreferAuto VerticalPreference = iota
	// PreferAbove tries above the trigger first.
	PreferAbove
	// PreferBelow tries below the trigger first.
	PreferBelow
)

// String returns the string representation of VerticalPreference.
func (p VerticalPreference) String() string {
	switch p {
	case PreferAbove:
		return "above"
	case PreferBelow:
		return "below"
	default:
		return "auto"
	}
}

// ParseVerticalPreference parses "auto", "above" or "below".
// Unknown values map to PreferAuto.
func ParseVerticalPreference(s string) VerticalPreference {
	switch s {
	case "above":
		return PreferAbove
	case "below":
		return PreferBelow
	default:
		return PreferAuto
	}
}

// Config tunes a single Compute call. The zero value is usable but has no
// gap; start from DefaultConfig to get the standard clearance.
type Config struct {
	// Gap is the minimum clearance between the panel and the trigger or the
	// viewport edges.
	Gap float64

	// PreferAbove forces the vertical strategy. PreferAuto infers it.
	PreferAbove VerticalPreference

	// Side places the panel beside Reference (or the trigger) instead of
	// aligning it under or over the trigger. Hosts set this from their own
	// layout state, e.g. a collapsed sidebar rail.
	Side bool

	// Reference is the element whose right edge anchors side placement.
	// Nil means the trigger itself.
	Reference *Rect

	// Align is the horizontal alignment used outside side mode.
	Align Align

	// MaxWidth and MaxHeight cap the panel size. Zero means no cap.
	MaxWidth  float64
	MaxHeight float64

	// CenterVertically centres the panel on the trigger in side mode
	// instead of aligning top or bottom edges.
	CenterVertically bool
}

// DefaultConfig returns a Config with the default gap and start alignment.
func DefaultConfig() Config {
	return Config{
		Gap:   DefaultGap,
		Align: AlignStart,
	}
}

// reference returns the rect anchoring side placement.
func (c Config) reference(trigger Rect) Rect {
	if c.Reference != nil {
		return *c.Reference
	}
	return trigger
}
