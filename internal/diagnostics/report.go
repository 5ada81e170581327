package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Viewport is the terminal size in cells.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Report is a snapshot of the application state for bug reports.
type Report struct {
	Version     string    `json:"version" yaml:"version"`
	Theme       string    `json:"theme" yaml:"theme"`
	Terminal    string    `json:"terminal" yaml:"terminal"`
	Viewport    Viewport  `json:"viewport" yaml:"viewport"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Entries     []Entry   `json:"entries" yaml:"entries"`
}

// NewReport builds a report from the ring's current entries.
func NewReport(version, theme, terminal string, viewport Viewport, ring *Ring) Report {
	entries := []Entry{}
	if ring != nil {
		entries = ring.Entries()
	}
	return Report{
		Version:     version,
		Theme:       theme,
		Terminal:    terminal,
		Viewport:    viewport,
		GeneratedAt: time.Now(),
		Entries:     entries,
	}
}

// ValidFormat reports whether format is supported by Render.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Render writes the report in the given format.
func (r Report) Render(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, r.Text())
		return err
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Text renders the report for humans, with entry times relative to
// GeneratedAt.
func (r Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "docshell %s\n", r.Version)
	fmt.Fprintf(&b, "Theme:    %s\n", r.Theme)
	fmt.Fprintf(&b, "Terminal: %s\n", r.Terminal)
	fmt.Fprintf(&b, "Viewport: %dx%d\n", r.Viewport.Width, r.Viewport.Height)

	if len(r.Entries) == 0 {
		b.WriteString("\nNo entries.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nEntries (%s):\n", humanize.Comma(int64(len(r.Entries))))
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "  [%s] %-5s %s", humanize.RelTime(e.Time, r.GeneratedAt, "ago", "from now"), e.Type, e.Message)
		for _, k := range sortedKeys(e.Data) {
			fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
