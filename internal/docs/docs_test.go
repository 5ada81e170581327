package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Installation", "installation"},
		{"Getting Started", "getting-started"},
		{"  Spaces   everywhere ", "spaces-everywhere"},
		{"C++ & Go!", "c-go"},
		{"snake_case_name", "snake-case-name"},
		{"Ünïcode Títle", "ünïcode-títle"},
		{"v1.2 release", "v12-release"},
		{"!!!", "section"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func ids(doc *Document) []string {
	out := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		out = append(out, s.ID)
	}
	return out
}

func TestParse_NestedIDs(t *testing.T) {
	src := `# Manual

Welcome.

## Install

Get it.

### Linux

apt.

#### Arch

pacman.

### macOS

brew.

## Usage

Run it.
`
	doc := Parse("manual.md", []byte(src))

	assert.Equal(t, "Manual", doc.Title)
	assert.Equal(t, "Welcome.", doc.Intro)
	assert.Equal(t, []string{
		"install",
		"install__linux",
		"install__linux__arch",
		"install__macos",
		"usage",
	}, ids(doc))

	arch, ok := doc.Section("install__linux__arch")
	require.True(t, ok)
	assert.Equal(t, "Arch", arch.Title)
	assert.Equal(t, 4, arch.Level)
	assert.Equal(t, 2, arch.Depth)
	assert.Equal(t, "install__linux", arch.Parent)
	assert.Equal(t, "pacman.", arch.Body)

	install, _ := doc.Section("install")
	assert.Equal(t, "Get it.", install.Body)
	assert.Equal(t, 0, install.Depth)

	_, ok = doc.Section("missing")
	assert.False(t, ok)
}

func TestParse_DuplicateHeadings(t *testing.T) {
	src := "## Notes\n\na\n\n## Notes\n\nb\n\n## Notes\n\nc\n"
	doc := Parse("x.md", []byte(src))

	assert.Equal(t, []string{"notes", "notes_2", "notes_3"}, ids(doc))
	assert.Equal(t, "x", doc.Title)
}

func TestParse_IgnoresHeadingsInCode(t *testing.T) {
	src := "## Real\n\n```sh\n# not a heading\n```\n\n## Also real\n"
	doc := Parse("x.md", []byte(src))

	assert.Equal(t, []string{"real", "also-real"}, ids(doc))
	assert.Contains(t, doc.Sections[0].Body, "# not a heading")
}

func TestParse_SetextAndInline(t *testing.T) {
	src := "Intro text.\n\nFirst *part*\n------------\n\nbody one\n\n## The `code` bit\n\nbody two\n"
	doc := Parse("x.md", []byte(src))

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Intro text.", doc.Intro)
	assert.Equal(t, "First part", doc.Sections[0].Title)
	assert.Equal(t, "body one", doc.Sections[0].Body)
	assert.Equal(t, "The code bit", doc.Sections[1].Title)
	assert.Equal(t, "the-code-bit", doc.Sections[1].ID)
}

func TestParse_NoHeadings(t *testing.T) {
	doc := Parse("plain.md", []byte("just text\n"))
	assert.Empty(t, doc.Sections)
	assert.Equal(t, "just text", doc.Intro)
	assert.Equal(t, "plain", doc.Title)
}

func TestLoad_Guide(t *testing.T) {
	doc, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "docshell", doc.Title)
	assert.Contains(t, ids(doc), "navigation__search")
	assert.Contains(t, ids(doc), "themes__custom-palettes")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("## One\n\ntext\n"), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", doc.Name)
	assert.Equal(t, []string{"one"}, ids(doc))

	_, err = Load(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestRenderer(t *testing.T) {
	r := NewRenderer("notty", 40)

	out, err := r.RenderSection(Section{Title: "Install", Body: "Run the **installer**."})
	require.NoError(t, err)
	assert.Contains(t, out, "Install")
	assert.Contains(t, out, "installer")

	r.SetWidth(60)
	r.SetStyle("")
	assert.Equal(t, DefaultStyle, r.Style())
	_, err = r.Render("text")
	require.NoError(t, err)

	r.SetStyle("no-such-style")
	_, err = r.Render("text")
	assert.Error(t, err)
}
