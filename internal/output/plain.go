package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

// PlainFormatter formats results as aligned key/value text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes a result as plain text.
func (f *PlainFormatter) Format(w io.Writer, r Result) error {
	if f.template != nil {
		return f.template.Execute(w, r)
	}

	if f.opts.Field != "" {
		_, err := fmt.Fprintln(w, FormatField(r, f.opts.Field))
		return err
	}

	p, s := r.Placement, r.Style

	var sb strings.Builder
	row := func(key string, value any) {
		sb.WriteString(fmt.Sprintf("%-11s %v\n", key, value))
	}

	row("placement", p.Marker())
	row("left", s.Left)
	row("top", s.Top)
	row("size", fmt.Sprintf("%gx%g", p.Width, p.Height))
	if s.MaxHeight > 0 {
		row("max-height", s.MaxHeight)
	}
	if s.MaxWidth > 0 {
		row("max-width", s.MaxWidth)
	}
	if p.Scrollable {
		row("scrollable", "yes")
	}
	if f.opts.ShowCSS {
		row("css", s.CSS())
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatTrace writes one line per replayed step.
func (f *PlainFormatter) FormatTrace(w io.Writer, trace []Transition) error {
	for _, t := range trace {
		line := fmt.Sprintf("%8s  %-13s %s", elapsed(t.AtMS), t.Step, t.State)
		if t.Placement != nil {
			line += fmt.Sprintf("  %s at %g,%g", t.Placement.Marker(), t.Placement.Left, t.Placement.Top)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func elapsed(ms int64) string {
	return "+" + (time.Duration(ms) * time.Millisecond).String()
}

// templateFuncs returns helper functions for custom templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"field": FormatField,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}
}
