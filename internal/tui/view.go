package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/docshell/internal/panel"
	"github.com/jmylchreest/docshell/internal/theme"
)

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.viewHelp()
	case ModeDiagnostics:
		return m.viewDiagnostics()
	default:
		return m.viewShell()
	}
}

func (m Model) viewShell() string {
	rows := max(m.height-statusRows, 0)
	sidebarW := m.sidebarWidth()
	rail := m.shell.Collapsed(m.width)

	var body string
	if sidebarW > 0 {
		sidebar := m.renderSidebar(sidebarW, rows, rail)
		divider := m.look.divider.Render(strings.TrimSuffix(strings.Repeat("│\n", rows), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, divider, m.viewport.View())
	} else {
		body = m.viewport.View()
	}

	if m.shell.Mobile(m.width) && m.shell.MenuOpen() {
		body = placeOverlay(0, 0, m.renderSidebar(m.menuWidth(), rows, false), body)
	}

	screen := body + "\n" + m.statusBar()

	screen = m.drawPanel(screen, m.tooltip, m.tooltipView, func() string {
		_, label := m.frame.tooltip()
		return renderTooltip(m.look, label)
	})
	screen = m.drawPanel(screen, m.themePopup, m.themeView, func() string {
		return renderMenuPopup(m.look, "Theme", m.themeMenu)
	})
	screen = m.drawPanel(screen, m.account, m.accountView, func() string {
		return renderMenuPopup(m.look, accountTitle(m.user), m.accountMenu)
	})

	return screen
}

// drawPanel composites a visible panel at its placement, clipped to the
// placed size. A closing panel is drawn faint while it fades out.
func (m Model) drawPanel(screen string, c *panel.Controller, o *overlay, render func() string) string {
	p, s, visible := o.snapshot()
	if !visible {
		return screen
	}
	content := clipBlock(render(), int(p.Width), int(p.Height))
	if c.State() == panel.StateClosing {
		content = m.look.backdrop.Render(ansi.Strip(content))
	}
	return placeOverlay(s.Left, s.Top, content, screen)
}

// renderSidebar renders the sidebar as a block of exactly width x rows
// cells. A rail shows abbreviated links.
func (m Model) renderSidebar(width, rows int, rail bool) string {
	lines := make([]string, rows)
	line := func(row int, s string) {
		if row >= 0 && row < rows {
			lines[row] = s
		}
	}

	title := m.doc.Title
	if title == "" {
		title = "docshell"
	}
	if rail {
		title = "≡"
	}
	line(0, m.look.title.Render(ansi.Truncate(" "+title, width, "…")))

	if m.mode == ModeSearch && !rail {
		line(1, m.searchInput.View())
	} else if m.filtering {
		line(1, m.look.muted.Render(fmt.Sprintf("/%s (%d)", m.searchInput.Value(), len(m.filter))))
	}

	vis := m.visible()
	for r := 0; r < m.navRows(); r++ {
		k := m.navOffset + r
		if k >= len(vis) {
			break
		}
		item := m.nav[vis[k]]
		label := strings.Repeat("  ", item.depth) + item.title
		if rail {
			label = abbreviate(item.title, item.depth)
		}

		style := m.look.link
		if m.spy.IsActive(item.target) {
			style = m.look.linkActive
		}
		if k == m.cursor {
			style = m.look.linkCursor
		}
		line(navFirstRow+r, style.Render(ansi.Truncate(" "+label, width, "…")))
	}

	current := theme.DisplayName(m.themes.Current())
	themeLabel := "◐ Theme: " + current
	accountLabel := "☺ " + accountTitle(m.user) + " ▾"
	if rail {
		themeLabel = "◐"
		accountLabel = "☺"
	}
	line(rows-themeRowOffset+statusRows, m.look.button.Render(ansi.Truncate(" "+themeLabel, width, "…")))
	line(rows-accountRowOffset+statusRows, m.look.button.Render(ansi.Truncate(" "+accountLabel, width, "…")))

	return m.look.sidebar.
		Width(width).
		Height(rows).
		MaxWidth(width).
		MaxHeight(rows).
		Render(strings.Join(lines, "\n"))
}

// abbreviate shortens a nav label for the rail.
func abbreviate(title string, depth int) string {
	r := []rune(strings.TrimSpace(title))
	if len(r) == 0 {
		return "·"
	}
	first := strings.ToUpper(string(r[0]))
	if depth > 0 {
		return "·" + strings.ToLower(first)
	}
	return first
}

// statusBar shows a transient status message or the key bar on the left
// and the live region on the right.
func (m Model) statusBar() string {
	left := m.buildKeybindBar(m.width)
	if m.statusMsg != "" {
		style := m.look.status
		if m.statusErr {
			style = m.look.statusErr
		}
		left = style.Render(m.statusMsg)
	}

	var right string
	if region := m.announcer.Region(); region.Message != "" {
		right = m.look.muted.Render(region.Message)
	}
	if m.shell.Scrolled() {
		pos := fmt.Sprintf(" %3.0f%%", m.viewport.ScrollPercent()*100)
		if m.shell.Scrolling() {
			right += m.look.key.Render(pos)
		} else {
			right += m.look.muted.Render(pos)
		}
	}

	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) viewHelp() string {
	titleStyle := m.look.title.MarginBottom(1)
	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.View(m.keys) + "\n\n"
	s += m.look.muted.Render("Press ? or esc to return")
	return s
}

func (m Model) viewDiagnostics() string {
	header := m.look.title.Padding(0, 1).Render("Diagnostics")
	footer := m.look.muted.Render("y copy  esc back  j/k scroll")
	return header + "\n" + m.report.View() + "\n" + footer
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
func (m Model) buildKeybindBar(width int) string {
	var binds []keybind

	switch {
	case m.mode == ModeSearch:
		binds = []keybind{
			{"enter", "jump", 1},
			{"esc", "cancel", 2},
			{"↑/↓", "navigate", 3},
		}
	case m.account.IsOpen(), m.themePopup.IsOpen():
		binds = []keybind{
			{"enter", "select", 1},
			{"esc", "close", 2},
			{"↑/↓", "move", 3},
		}
	default:
		binds = []keybind{
			{"q", "quit", 1},
			{"?", "help", 2},
			{"enter", "jump", 3},
			{"/", "search", 4},
			{"t", "theme", 5},
			{"[/]", "sidebar", 6},
			{"u", "account", 7},
			{"D", "diagnostics", 8},
		}
		if m.shell.Mobile(m.width) {
			binds = append(binds, keybind{"m", "menu", 6})
		}
	}
	slices.SortStableFunc(binds, func(a, b keybind) int {
		return cmp.Compare(a.priority, b.priority)
	})

	// Build the bar, adding keybinds until we run out of space
	const separator = "  "
	result := ""
	used := 0
	for _, b := range binds {
		plain := b.key + " " + b.desc
		need := len([]rune(plain))
		if result != "" {
			need += len(separator)
		}
		if width > 0 && used+need > width/2 {
			break
		}
		if result != "" {
			result += separator
		}
		result += m.look.key.Render(b.key) + " " + m.look.muted.Render(b.desc)
		used += need
	}

	return result
}
