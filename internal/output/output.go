// Package output provides output formatters for placements and hover traces.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/docshell/internal/position"
)

// Result is one placement computation with its inputs.
type Result struct {
	Trigger   position.Rect      `json:"trigger" yaml:"trigger"`
	Panel     position.Size      `json:"panel" yaml:"panel"`
	Viewport  position.Rect      `json:"viewport" yaml:"viewport"`
	Placement position.Placement `json:"placement" yaml:"placement"`
	Style     position.Style     `json:"style" yaml:"style"`
}

// Transition is one step of a replayed hover sequence and the panel state
// it produced.
type Transition struct {
	AtMS      int64               `json:"at_ms" yaml:"at_ms"`
	Step      string              `json:"step" yaml:"step"`
	State     string              `json:"state" yaml:"state"`
	Placement *position.Placement `json:"placement,omitempty" yaml:"placement,omitempty"`
}

// Formatter formats positioning results for output.
type Formatter interface {
	// Format writes a single placement result.
	Format(w io.Writer, r Result) error
	// FormatTrace writes a hover replay.
	FormatTrace(w io.Writer, trace []Transition) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "text"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (FormatType, error) {
	switch f := FormatType(strings.ToLower(s)); f {
	case FormatPlain, FormatJSON, FormatYAML:
		return f, nil
	case "plain", "":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template string // Custom template for plain format
	Field    string // Print only this field (plain format)
	ShowCSS  bool   // Include the inline style declaration
}

// FormatField returns a single field of a result as text.
func FormatField(r Result, field string) string {
	p, s := r.Placement, r.Style
	switch strings.ToLower(field) {
	case "placement", "marker":
		return p.Marker()
	case "left":
		return fmt.Sprint(s.Left)
	case "top":
		return fmt.Sprint(s.Top)
	case "width":
		return fmt.Sprint(p.Width)
	case "height":
		return fmt.Sprint(p.Height)
	case "horizontal":
		return string(p.Horizontal)
	case "vertical":
		return string(p.Vertical)
	case "css", "style":
		return s.CSS()
	case "rect":
		return fmt.Sprintf("%d,%d,%g,%g", s.Left, s.Top, p.Width, p.Height)
	default:
		return p.Marker()
	}
}
