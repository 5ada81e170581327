package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jmylchreest/docshell/internal/docs"
	"github.com/jmylchreest/docshell/internal/scrollspy"
)

// navItem is a sidebar link to a section.
type navItem struct {
	target string
	title  string
	depth  int
}

func navItems(doc *docs.Document) []navItem {
	items := make([]navItem, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		items = append(items, navItem{target: s.ID, title: s.Title, depth: s.Depth})
	}
	return items
}

// minContentWidth keeps the content pane usable when the sidebar is wide.
const minContentWidth = 20

// sidebarWidth returns the width of the docked sidebar.
func (m Model) sidebarWidth() int {
	w := m.cfg.Sidebar.Width
	if m.shell.Collapsed(m.width) {
		w = m.cfg.Sidebar.RailWidth
	}
	return max(min(w, m.width-minContentWidth-1), 0)
}

// menuWidth returns the width of the narrow-screen menu overlay.
func (m Model) menuWidth() int {
	return min(m.cfg.Sidebar.Width, m.width)
}

// relayout recomputes the frame and the content after a resize or a
// sidebar change.
func (m *Model) relayout() {
	if !m.ready {
		return
	}
	sidebar := m.sidebarWidth()
	m.frame.set(m.width, m.height, sidebar)

	contentWidth := max(m.width-sidebar-1, 1)
	contentHeight := max(m.height-statusRows, 1)
	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
	m.report.Width = m.width
	m.report.Height = max(m.height-2, 1)
	m.help.Width = m.width

	m.renderer.SetWidth(max(contentWidth-2, 10))
	m.renderContent()
	m.ensureCursorVisible()
	m.repositionPanels()
}

// renderContent renders the document and records where each section
// starts, which drives jumps and the scroll spy.
func (m *Model) renderContent() {
	var chunks []string
	sections := make([]scrollspy.Section, 0, len(m.doc.Sections))
	line := 0

	add := func(out string) int {
		out = strings.Trim(out, "\n")
		n := strings.Count(out, "\n") + 1
		chunks = append(chunks, out)
		line += n
		return n
	}

	intro := m.doc.Intro
	if m.doc.Title != "" {
		intro = "# " + m.doc.Title + "\n\n" + intro
	}
	if strings.TrimSpace(intro) != "" {
		out, err := m.renderer.Render(intro)
		if err != nil {
			m.logger.Warn("failed to render introduction", "error", err)
			out = intro
		}
		add(out)
	}

	for _, s := range m.doc.Sections {
		out, err := m.renderer.RenderSection(s)
		if err != nil {
			m.logger.Warn("failed to render section", "section", s.ID, "error", err)
			out = s.Title + "\n\n" + s.Body
		}
		top := line
		n := add(out)
		sections = append(sections, scrollspy.Section{ID: s.ID, Top: top, Height: n})
	}

	m.sections = sections
	m.viewport.SetContent(strings.Join(chunks, "\n"))
	m.syncScroll()
}

// syncScroll feeds the content offset to the shell and the scroll spy.
func (m *Model) syncScroll() {
	offset := m.viewport.YOffset
	if offset != m.shell.Offset() {
		m.shell.Scroll(offset)
	}
	m.spy.Update(m.sections, offset, m.viewport.Height)
}

// jumpTo scrolls the content to the section of nav item i.
func (m *Model) jumpTo(i int) {
	if i < 0 || i >= len(m.nav) {
		return
	}
	target := m.nav[i].target
	for _, s := range m.sections {
		if s.ID == target {
			m.viewport.SetYOffset(s.Top)
			break
		}
	}
	m.spy.Click(target)
	m.shell.NavClicked()
	m.syncScroll()
	m.logger.Debug("jumped to section", "section", target, "offset", m.viewport.YOffset)
}

// applyFilter narrows the nav to links fuzzily matching the search input.
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.searchInput.Value())
	m.cursor = 0
	m.navOffset = 0
	if query == "" {
		m.filter = nil
		m.filtering = false
		return
	}

	titles := make([]string, len(m.nav))
	for i, item := range m.nav {
		titles[i] = item.title
	}
	matches := fuzzy.Find(query, titles)

	m.filter = make([]int, 0, len(matches))
	for _, match := range matches {
		m.filter = append(m.filter, match.Index)
	}
	m.filtering = true
}

// visible returns the nav indices shown in the sidebar, in display order.
func (m Model) visible() []int {
	if m.filtering {
		return m.filter
	}
	all := make([]int, len(m.nav))
	for i := range all {
		all[i] = i
	}
	return all
}

// cursorItem returns the nav index under the cursor.
func (m Model) cursorItem() (int, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return 0, false
	}
	return vis[m.cursor], true
}

// navRows is the number of rows available for nav links.
func (m Model) navRows() int {
	return max(m.height-statusRows-navFirstRow-3, 0)
}

func (m *Model) moveCursor(delta int) {
	n := len(m.visible())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.ensureCursorVisible()

	if i, ok := m.cursorItem(); ok && m.mode == ModeBrowse {
		m.showTooltip(navFirstRow+m.cursor-m.navOffset, m.nav[i].title)
	}
}

func (m *Model) ensureCursorVisible() {
	rows := m.navRows()
	if rows <= 0 {
		m.navOffset = 0
		return
	}
	if m.cursor < m.navOffset {
		m.navOffset = m.cursor
	}
	if m.cursor >= m.navOffset+rows {
		m.navOffset = m.cursor - rows + 1
	}
	m.navOffset = max(m.navOffset, 0)
}

// navAtRow returns the position in the visible list shown at screen row y.
func (m Model) navAtRow(y int) (int, bool) {
	k := y - navFirstRow
	if k < 0 || k >= m.navRows() {
		return 0, false
	}
	k += m.navOffset
	if k >= len(m.visible()) {
		return 0, false
	}
	return k, true
}
