package docs

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// DefaultStyle is used when no glamour style is set.
const DefaultStyle = styles.LightStyle

// Renderer renders Markdown for the terminal. It caches the underlying
// glamour renderer until the style or width changes.
type Renderer struct {
	mu    sync.Mutex
	style string
	width int
	term  *glamour.TermRenderer
}

// NewRenderer creates a renderer for a glamour standard style and a word
// wrap width in cells.
func NewRenderer(style string, width int) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	return &Renderer{style: style, width: width}
}

// SetStyle switches the glamour style.
func (r *Renderer) SetStyle(style string) {
	if style == "" {
		style = DefaultStyle
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if style != r.style {
		r.style = style
		r.term = nil
	}
}

// SetWidth changes the word wrap width.
func (r *Renderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width != r.width {
		r.width = width
		r.term = nil
	}
}

// Style returns the current glamour style.
func (r *Renderer) Style() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.style
}

// Render renders Markdown.
func (r *Renderer) Render(markdown string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.term == nil {
		opts := []glamour.TermRendererOption{glamour.WithStandardStyle(r.style)}
		if r.width > 0 {
			opts = append(opts, glamour.WithWordWrap(r.width))
		}
		term, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return "", fmt.Errorf("failed to create renderer: %w", err)
		}
		r.term = term
	}

	out, err := r.term.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// RenderSection renders a section with its heading.
func (r *Renderer) RenderSection(s Section) (string, error) {
	prefix := "##"
	for range s.Depth {
		prefix += "#"
	}
	return r.Render(prefix + " " + s.Title + "\n\n" + s.Body + "\n")
}
