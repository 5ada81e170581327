package docs

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

//go:embed guide.md
var embedded embed.FS

// GuideName is the name of the bundled guide.
const GuideName = "guide.md"

// Section is a heading and the Markdown that follows it up to the next
// heading.
type Section struct {
	ID     string
	Title  string
	Level  int    // Heading level, 2 for ##
	Depth  int    // Nesting depth below the top section level, 0 for top
	Parent string // Parent section id, empty at the top
	Body   string
}

// Document is a parsed Markdown document.
type Document struct {
	Name     string
	Title    string
	Intro    string // Markdown before the first section
	Sections []Section
}

// Section returns the section with the given id.
func (d *Document) Section(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Load reads and parses a Markdown file. An empty path loads the bundled
// guide.
func Load(path string) (*Document, error) {
	if path == "" {
		data, err := embedded.ReadFile(GuideName)
		if err != nil {
			return nil, fmt.Errorf("failed to read bundled guide: %w", err)
		}
		return Parse(GuideName, data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(filepath.Base(path), data), nil
}

type heading struct {
	level     int
	title     string
	lineStart int // Offset of the heading's first line
	bodyStart int // Offset just past the heading
}

// Parse splits source into sections. Headings inside code blocks are not
// section boundaries.
func Parse(name string, source []byte) *Document {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(source))

	var headings []heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		start := lineStart(source, first.Start)
		bodyStart := lineEnd(source, last.Stop)
		if !isATX(source[start:]) {
			bodyStart = skipSetextUnderline(source, bodyStart)
		}
		headings = append(headings, heading{
			level:     h.Level,
			title:     strings.TrimSpace(inlineText(h, source)),
			lineStart: start,
			bodyStart: bodyStart,
		})
		return ast.WalkSkipChildren, nil
	})

	doc := &Document{Name: name}

	// The first level one heading is the title; sections start at the
	// shallowest remaining level.
	if len(headings) > 0 && headings[0].level == 1 {
		doc.Title = headings[0].title
		doc.Intro = strings.TrimSpace(string(source[headings[0].bodyStart:nextStart(headings, 0, len(source))]))
		headings = headings[1:]
	} else if len(headings) > 0 {
		doc.Intro = strings.TrimSpace(string(source[:headings[0].lineStart]))
	} else {
		doc.Intro = strings.TrimSpace(string(source))
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	ids := uniqueIDs{}
	type open struct {
		level int
		id    string
	}
	var stack []open

	for i, h := range headings {
		for len(stack) > 0 && stack[len(stack)-1].level >= h.level {
			stack = stack[:len(stack)-1]
		}

		parent := ""
		id := Slugify(h.title)
		if len(stack) > 0 {
			parent = stack[len(stack)-1].id
			id = parent + "__" + id
		}
		id = ids.take(id)

		doc.Sections = append(doc.Sections, Section{
			ID:     id,
			Title:  h.title,
			Level:  h.level,
			Depth:  len(stack),
			Parent: parent,
			Body:   strings.TrimSpace(string(source[h.bodyStart:nextStart(headings, i, len(source))])),
		})
		stack = append(stack, open{level: h.level, id: id})
	}

	return doc
}

func nextStart(headings []heading, i, end int) int {
	if i+1 < len(headings) {
		return headings[i+1].lineStart
	}
	return end
}

// inlineText concatenates the text content of n's inline children.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}

func lineStart(source []byte, pos int) int {
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

func lineEnd(source []byte, pos int) int {
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

// isATX reports whether line opens with a '#' heading marker.
func isATX(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " "), []byte("#"))
}

// skipSetextUnderline moves past a line made only of '=' or '-'.
func skipSetextUnderline(source []byte, pos int) int {
	end := lineEnd(source, pos)
	line := bytes.TrimSpace(source[pos:end])
	if len(line) > 0 && (len(bytes.Trim(line, "=")) == 0 || len(bytes.Trim(line, "-")) == 0) {
		return end
	}
	return pos
}
