package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/docshell/internal/theme"
)

// styles are the lipgloss styles derived from the active palette.
type styles struct {
	sidebar      lipgloss.Style
	title        lipgloss.Style
	link         lipgloss.Style
	linkActive   lipgloss.Style
	linkCursor   lipgloss.Style
	button       lipgloss.Style
	divider      lipgloss.Style
	muted        lipgloss.Style
	key          lipgloss.Style
	status       lipgloss.Style
	statusErr    lipgloss.Style
	popup        lipgloss.Style
	popupItem    lipgloss.Style
	popupFocus   lipgloss.Style
	popupCurrent lipgloss.Style
	tooltip      lipgloss.Style
	backdrop     lipgloss.Style
}

func newStyles(p *theme.Palette) styles {
	var c theme.Colors
	if p != nil {
		c = p.Colors
	}
	color := func(hex string) lipgloss.TerminalColor {
		if hex == "" {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(hex)
	}

	return styles{
		sidebar: lipgloss.NewStyle().
			Background(color(c.Surface)).
			Foreground(color(c.Foreground)),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.Accent)),
		link: lipgloss.NewStyle().
			Foreground(color(c.Foreground)),
		linkActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.Active)),
		linkCursor: lipgloss.NewStyle().
			Background(color(c.Selection)).
			Foreground(color(c.SelectionText)),
		button: lipgloss.NewStyle().
			Foreground(color(c.Accent)),
		divider: lipgloss.NewStyle().
			Foreground(color(c.Border)),
		muted: lipgloss.NewStyle().
			Foreground(color(c.Muted)),
		key: lipgloss.NewStyle().
			Foreground(color(c.Accent)),
		status: lipgloss.NewStyle().
			Foreground(color(c.Foreground)),
		statusErr: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")),
		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(c.Border)).
			Background(color(c.Background)).
			Foreground(color(c.Foreground)).
			Padding(0, 1),
		popupItem: lipgloss.NewStyle().
			Foreground(color(c.Foreground)),
		popupFocus: lipgloss.NewStyle().
			Background(color(c.Selection)).
			Foreground(color(c.SelectionText)),
		popupCurrent: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.Active)),
		tooltip: lipgloss.NewStyle().
			Background(color(c.Tooltip)).
			Foreground(color(c.TooltipText)).
			Padding(0, 1),
		backdrop: lipgloss.NewStyle().
			Faint(true),
	}
}
