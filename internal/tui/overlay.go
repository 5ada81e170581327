package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeOverlay draws fg over bg with its top-left corner at cell (x, y).
// Rows and columns of fg outside bg are dropped; bg lines shorter than x
// are padded.
func placeOverlay(x, y int, fg, bg string) string {
	if fg == "" {
		return bg
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLine := bgLines[row]
		bgWidth := ansi.StringWidth(bgLine)
		fgWidth := ansi.StringWidth(fgLine)

		var b strings.Builder
		if bgWidth >= x {
			b.WriteString(ansi.Truncate(bgLine, x, ""))
		} else {
			b.WriteString(bgLine)
			b.WriteString(strings.Repeat(" ", x-bgWidth))
		}
		b.WriteString(fgLine)
		if right := x + fgWidth; right < bgWidth {
			b.WriteString(ansi.Cut(bgLine, right, bgWidth))
		}
		bgLines[row] = b.String()
	}

	return strings.Join(bgLines, "\n")
}

// clipBlock limits a rendered block to width cells and height lines.
func clipBlock(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		if ansi.StringWidth(l) > width {
			lines[i] = ansi.Truncate(l, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// blockSize returns the size of a rendered block in cells.
func blockSize(s string) (width, height int) {
	if s == "" {
		return 0, 0
	}
	return lipgloss.Width(s), lipgloss.Height(s)
}
