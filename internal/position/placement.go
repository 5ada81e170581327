package position

import (
	"fmt"
	"math"
	"strings"
)

// Horizontal is the side of the trigger or reference the panel ended up on.
type Horizontal string

const (
	HorizontalLeft  Horizontal = "left"
	HorizontalRight Horizontal = "right"
)

// Vertical describes how the panel was placed relative to the trigger.
type Vertical string

const (
	VerticalAbove            Vertical = "above"
	VerticalBelow            Vertical = "below"
	VerticalAligned          Vertical = "aligned"
	VerticalAboveConstrained Vertical = "above-constrained"
	VerticalBelowConstrained Vertical = "below-constrained"
)

// Constrained reports whether the panel height was reduced to fit.
func (v Vertical) Constrained() bool {
	return strings.HasSuffix(string(v), "-constrained")
}

// Placement is the final geometry computed for a panel together with the
// semantic tags hosts use for directional decoration.
type Placement struct {
	Left       float64    `json:"left" yaml:"left"`
	Top        float64    `json:"top" yaml:"top"`
	Width      float64    `json:"width" yaml:"width"`
	Height     float64    `json:"height" yaml:"height"`
	Horizontal Horizontal `json:"horizontal" yaml:"horizontal"`
	Vertical   Vertical   `json:"vertical" yaml:"vertical"`

	// Scrollable is set when the panel is smaller than its natural size and
	// must scroll its content internally.
	Scrollable bool `json:"scrollable" yaml:"scrollable"`
}

// Rect returns the placed panel as a Rect.
func (p Placement) Rect() Rect {
	return Rect{Top: p.Top, Left: p.Left, Width: p.Width, Height: p.Height}
}

// Marker returns the placement marker, e.g. "below-left" or
// "aligned-right". Hosts attach it to the panel to orient arrows.
func (p Placement) Marker() string {
	return string(p.Vertical) + "-" + string(p.Horizontal)
}

// Constrained reports whether the panel was height-constrained.
func (p Placement) Constrained() bool {
	return p.Vertical.Constrained()
}

// Style holds the instructions for applying a Placement to a fixed
// positioned panel. All values are rounded to whole pixels or cells.
type Style struct {
	Left      int    `json:"left" yaml:"left"`
	Top       int    `json:"top" yaml:"top"`
	MaxHeight int    `json:"max_height,omitempty" yaml:"max_height,omitempty"`
	MaxWidth  int    `json:"max_width,omitempty" yaml:"max_width,omitempty"`
	ScrollY   bool   `json:"scroll_y,omitempty" yaml:"scroll_y,omitempty"`
	Placement string `json:"placement" yaml:"placement"`
}

// Style derives application instructions from p. A height cap is emitted
// when cfg carries MaxHeight or when the placement had to shrink the panel;
// a width cap only when cfg carries MaxWidth.
func (p Placement) Style(cfg Config) Style {
	s := Style{
		Left:      round(p.Left),
		Top:       round(p.Top),
		Placement: p.Marker(),
	}
	if cfg.MaxHeight > 0 || p.Constrained() || p.Scrollable {
		s.MaxHeight = round(p.Height)
		s.ScrollY = true
	}
	if cfg.MaxWidth > 0 {
		s.MaxWidth = round(p.Width)
	}
	return s
}

// CSS renders s as an inline fixed-position declaration list.
func (s Style) CSS() string {
	var b strings.Builder
	b.WriteString("position: fixed !important;")
	fmt.Fprintf(&b, " left: %dpx !important;", s.Left)
	fmt.Fprintf(&b, " top: %dpx !important;", s.Top)
	b.WriteString(" right: auto !important;")
	b.WriteString(" bottom: auto !important;")
	if s.ScrollY {
		fmt.Fprintf(&b, " max-height: %dpx !important;", s.MaxHeight)
		b.WriteString(" overflow-y: auto !important;")
	}
	if s.MaxWidth > 0 {
		fmt.Fprintf(&b, " max-width: %dpx !important;", s.MaxWidth)
	}
	return b.String()
}

func round(v float64) int {
	return int(math.Round(v))
}
