package tui

import (
	"strings"

	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/panel"
	"github.com/jmylchreest/docshell/internal/position"
	"github.com/jmylchreest/docshell/internal/theme"
)

// Account menu entries.
const (
	accountSidebar     = "sidebar"
	accountDiagnostics = "diagnostics"
	accountCopy        = "copy-diagnostics"
	accountHelp        = "help"
	accountQuit        = "quit"
)

func accountItems() []panel.MenuItem {
	return []panel.MenuItem{
		{ID: accountSidebar, Label: "Toggle sidebar"},
		{ID: accountDiagnostics, Label: "Diagnostics"},
		{ID: accountCopy, Label: "Copy diagnostics"},
		{ID: accountHelp, Label: "Keyboard shortcuts"},
		{ID: accountQuit, Label: "Quit"},
	}
}

func themeItems() []panel.MenuItem {
	items := make([]panel.MenuItem, len(theme.Names))
	for i, name := range theme.Names {
		items[i] = panel.MenuItem{ID: name, Label: theme.DisplayName(name)}
	}
	return items
}

// cellPresets scales the panel presets to terminal cells.
func cellPresets(cfg *config.Config) panel.Presets {
	p := cfg.Position
	return panel.Presets{
		Gap:           float64(p.Gap),
		BreathingRoom: float64(p.PopupBreathingRoom),
		PopupFallback: position.Size{
			Width:  float64(p.PopupFallbackWidth),
			Height: float64(p.PopupFallbackHeight),
		},
		TooltipFallback: position.Size{
			Width:  float64(p.TooltipFallbackWidth),
			Height: float64(p.TooltipFallbackHeight),
		},
	}
}

// setupPanels creates the account popup, the theme popup and the sidebar
// tooltip.
func (m *Model) setupPanels(sched panel.Scheduler) {
	cfg := m.cfg
	fr := m.frame
	shell := m.shell
	look := m.look
	presets := cellPresets(cfg)

	collapsed := func() bool {
		w, _, _ := fr.size()
		return shell.Collapsed(w)
	}

	m.accountMenu = panel.NewMenu(accountItems()...)
	m.accountView = &overlay{}
	accountMenu := m.accountMenu
	user := m.user
	m.account = panel.NewController(panel.Options{
		Name: "account",
		Config: func(vp position.Rect) position.Config {
			return presets.UserPopup(collapsed(), vp.Height)
		},
		Fallback:   presets.PopupFallback,
		OpenDelay:  cfg.Popup.OpenDelay.Duration(),
		CloseDelay: cfg.Popup.CloseDelay.Duration(),
		Scheduler:  sched,
		Logger:     m.logger,
	},
		renderMeasurer(func() string { return renderMenuPopup(look, accountTitle(user), accountMenu) }),
		geometry{frame: fr, trigger: fr.accountTrigger},
		m.accountView,
	)
	m.account.OnChange(func(s panel.State) {
		switch s {
		case panel.StateOpen:
			accountMenu.Opened()
		case panel.StateClosed:
			accountMenu.Closed()
		}
	})

	m.themeMenu = panel.NewMenu(themeItems()...)
	m.themeView = &overlay{}
	themeMenu := m.themeMenu
	m.themePopup = panel.NewController(panel.Options{
		Name: "theme",
		Config: func(position.Rect) position.Config {
			return presets.ThemePopup()
		},
		Fallback:   presets.PopupFallback,
		OpenDelay:  cfg.Popup.OpenDelay.Duration(),
		CloseDelay: cfg.Popup.CloseDelay.Duration(),
		Gate:       collapsed,
		Scheduler:  sched,
		Logger:     m.logger,
	},
		renderMeasurer(func() string { return renderMenuPopup(look, "Theme", themeMenu) }),
		geometry{frame: fr, trigger: fr.themeTrigger},
		m.themeView,
	)
	m.themePopup.OnChange(func(s panel.State) {
		switch s {
		case panel.StateOpen:
			if cur, ok := themeMenu.Current(); !ok || !themeMenu.FocusID(cur.ID) {
				themeMenu.Opened()
			}
		case panel.StateClosed:
			themeMenu.Closed()
		}
	})

	m.tooltipView = &overlay{}
	m.tooltip = panel.NewController(panel.Options{
		Name: "tooltip",
		Config: func(position.Rect) position.Config {
			return presets.Tooltip()
		},
		Fallback:        presets.TooltipFallback,
		CloseTransition: cfg.Tooltip.CloseTransition.Duration(),
		Gate: func() bool {
			return cfg.Tooltip.Enabled && collapsed()
		},
		Scheduler: sched,
		Logger:    m.logger,
	},
		renderMeasurer(func() string {
			_, label := fr.tooltip()
			return renderTooltip(look, label)
		}),
		geometry{frame: fr, trigger: fr.tooltipTrigger},
		m.tooltipView,
	)
}

func accountTitle(user string) string {
	if user == "" {
		return "Account"
	}
	return user
}

// renderMenuPopup renders a bordered popup menu with the focused entry
// highlighted and the current entry marked.
func renderMenuPopup(look *styles, title string, menu *panel.Menu) string {
	width := len([]rune(title))
	for _, it := range menu.Items() {
		width = max(width, len([]rune(it.Label))+2)
	}

	var b strings.Builder
	b.WriteString(look.title.Render(title))
	focus := menu.Focus()
	for i, it := range menu.Items() {
		b.WriteString("\n")
		mark := "  "
		if it.Current {
			mark = "● "
		}
		line := mark + it.Label
		line += strings.Repeat(" ", max(width-len([]rune(line)), 0))
		switch {
		case i == focus:
			b.WriteString(look.popupFocus.Render(line))
		case it.Current:
			b.WriteString(look.popupCurrent.Render(line))
		default:
			b.WriteString(look.popupItem.Render(line))
		}
	}
	return look.popup.Render(b.String())
}

func renderTooltip(look *styles, label string) string {
	if label == "" {
		return ""
	}
	return look.tooltip.Render(label)
}

// menuItemAt maps a click inside a popup to the menu entry under it. The
// popup has a border row and a title row above the entries.
func menuItemAt(menu *panel.Menu, s position.Style, y int) (panel.MenuItem, bool) {
	idx := y - s.Top - 2
	items := menu.Items()
	if idx < 0 || idx >= len(items) {
		return panel.MenuItem{}, false
	}
	return items[idx], true
}

// showTooltip shows the tooltip for the nav link at the given screen row.
func (m *Model) showTooltip(row int, label string) {
	if !m.cfg.Tooltip.Enabled || !m.shell.Collapsed(m.width) {
		m.hideTooltip()
		return
	}
	prev, _ := m.frame.tooltip()
	if prev == row && m.tooltip.IsOpen() {
		return
	}
	m.frame.setTooltip(row, label)
	m.tooltip.Open()
}

func (m *Model) hideTooltip() {
	m.tooltip.Close()
}

// repositionPanels places open panels again after the layout changed. The
// theme popup only exists for the collapsed sidebar and closes otherwise.
func (m *Model) repositionPanels() {
	if !m.shell.Collapsed(m.width) {
		m.themePopup.Close()
		m.tooltip.Close()
	}
	m.account.Reposition()
	m.themePopup.Reposition()
	m.tooltip.Reposition()
}
