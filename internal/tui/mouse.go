package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/docshell/internal/panel"
)

// wheelLines is how far one wheel notch scrolls the content.
const wheelLines = 3

// handleMouse turns pointer motion into hover intent and clicks into
// activations.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	wheel := tea.MouseEvent(msg).IsWheel()
	if m.mode != ModeBrowse {
		if m.mode == ModeDiagnostics && wheel {
			var cmd tea.Cmd
			m.report, cmd = m.report.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	x, y := float64(msg.X), float64(msg.Y)

	switch {
	case wheel:
		if x < m.frame.sidebarRect().Right() {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(wheelLines)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(wheelLines)
		}
		m.syncScroll()
		return m, nil

	case msg.Action == tea.MouseActionMotion:
		m.hover(msg.X, msg.Y, x, y)
		return m, nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		cmd := m.click(msg.X, msg.Y, x, y)
		return m, cmd
	}

	return m, nil
}

func (m *Model) hover(col, row int, x, y float64) {
	m.account.HoverTrigger(m.frame.accountTrigger().ContainsPoint(x, y))
	m.account.HoverPanel(m.account.PanelContains(x, y))
	m.themePopup.HoverTrigger(m.frame.themeTrigger().ContainsPoint(x, y))
	m.themePopup.HoverPanel(m.themePopup.PanelContains(x, y))

	if float64(col) >= m.frame.sidebarRect().Right() {
		m.tooltip.HoverTrigger(false)
		return
	}
	k, ok := m.navAtRow(row)
	if !ok {
		m.tooltip.HoverTrigger(false)
		return
	}
	prev, _ := m.frame.tooltip()
	if prev != row {
		m.tooltip.HoverTrigger(false)
		m.frame.setTooltip(row, m.nav[m.visible()[k]].title)
	}
	m.tooltip.HoverTrigger(true)
}

func (m *Model) click(col, row int, x, y float64) tea.Cmd {
	// Clicks inside an open popup pick an entry.
	if m.account.PanelContains(x, y) {
		return m.clickMenu(m.account, m.accountMenu, row, m.activateAccountItem)
	}
	if m.themePopup.PanelContains(x, y) {
		return m.clickMenu(m.themePopup, m.themeMenu, row, m.activateThemeItem)
	}

	if !m.account.Contains(x, y) {
		m.account.ClickOutside()
	}
	if !m.themePopup.Contains(x, y) {
		m.themePopup.ClickOutside()
	}

	switch {
	case m.frame.accountTrigger().ContainsPoint(x, y):
		m.hideTooltip()
		m.account.Click()
		return nil
	case m.frame.themeTrigger().ContainsPoint(x, y):
		m.hideTooltip()
		if !m.themePopup.Click() {
			m.themes.Toggle()
		}
		return nil
	}

	width := m.frame.sidebarRect().Width
	if m.shell.MenuOpen() {
		width = float64(m.menuWidth())
		if float64(col) >= width {
			m.shell.BackdropClicked()
			m.relayout()
			return nil
		}
	}
	if float64(col) < width {
		if k, ok := m.navAtRow(row); ok {
			m.cursor = k
			m.jumpTo(m.visible()[k])
			m.relayout()
		}
	}
	return nil
}

func (m *Model) clickMenu(c *panel.Controller, menu *panel.Menu, row int, activate func(string) tea.Cmd) tea.Cmd {
	item, ok := menuItemAt(menu, c.Style(), row)
	if !ok {
		return nil
	}
	c.Close()
	return activate(item.ID)
}
