package position

import "math"

// Rect is an axis-aligned box in viewport coordinates.
// The origin is the top-left corner and y grows downward.
type Rect struct {
	Top    float64 `json:"top" yaml:"top"`
	Left   float64 `json:"left" yaml:"left"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewRect creates a Rect from its top-left corner and size.
func NewRect(left, top, width, height float64) Rect {
	return Rect{Top: top, Left: left, Width: width, Height: height}
}

// NewViewport returns the visible window as a Rect anchored at (0,0).
func NewViewport(width, height float64) Rect {
	return Rect{Width: width, Height: height}
}

// Right returns the right edge.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 {
	return r.Top + r.Height/2
}

// Size returns the width and height of the rect.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Right() <= r.Right() &&
		other.Top >= r.Top && other.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether (x, y) lies inside r.
// The right and bottom edges are exclusive.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Top:    r.Top + d,
		Left:   r.Left + d,
		Width:  r.Width - 2*d,
		Height: r.Height - 2*d,
	}
}

// Round returns r with every field rounded to the nearest integer.
func (r Rect) Round() Rect {
	return Rect{
		Top:    math.Round(r.Top),
		Left:   math.Round(r.Left),
		Width:  math.Round(r.Width),
		Height: math.Round(r.Height),
	}
}

// Size is the natural size of a panel before any placement constraint.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// IsZero reports whether either dimension is unmeasurable.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// OrDefault substitutes fallback dimensions for any dimension that measured
// as zero, as happens with detached or hidden elements.
func (s Size) OrDefault(fallback Size) Size {
	if s.Width <= 0 {
		s.Width = fallback.Width
	}
	if s.Height <= 0 {
		s.Height = fallback.Height
	}
	return s
}

// At places the size at the given top-left corner.
func (s Size) At(left, top float64) Rect {
	return Rect{Top: top, Left: left, Width: s.Width, Height: s.Height}
}
