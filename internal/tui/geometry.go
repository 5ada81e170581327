package tui

import (
	"sync"

	"github.com/jmylchreest/docshell/internal/position"
)

// Fixed rows of the shell, counted from the bottom of the terminal.
const (
	statusRows       = 1 // live region / key bar
	themeRowOffset   = 3 // theme button, above the account button
	accountRowOffset = 2 // account button, last sidebar row
	navFirstRow      = 2 // first nav link below the sidebar title
)

// frame is the live layout of the shell in cells. The model updates it on
// every resize or sidebar change; panel geometry reads it on demand.
type frame struct {
	mu      sync.Mutex
	width   int
	height  int
	sidebar int

	// Row of the nav link under the tooltip, or -1.
	tooltipRow   int
	tooltipLabel string
}

func newFrame() *frame {
	return &frame{tooltipRow: -1}
}

func (f *frame) set(width, height, sidebar int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height, f.sidebar = width, height, sidebar
}

func (f *frame) size() (width, height, sidebar int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height, f.sidebar
}

// viewport is the terminal without the status row.
func (f *frame) viewport() position.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return position.NewViewport(float64(f.width), float64(max(f.height-statusRows, 0)))
}

// sidebarRect is the reference element for side-mode panels.
func (f *frame) sidebarRect() position.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return position.NewRect(0, 0, float64(f.sidebar), float64(max(f.height-statusRows, 0)))
}

func (f *frame) sidebarRow(offset int) position.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return position.NewRect(0, float64(f.height-offset), float64(f.sidebar), 1)
}

func (f *frame) themeTrigger() position.Rect {
	return f.sidebarRow(themeRowOffset)
}

func (f *frame) accountTrigger() position.Rect {
	return f.sidebarRow(accountRowOffset)
}

func (f *frame) setTooltip(row int, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tooltipRow, f.tooltipLabel = row, label
}

func (f *frame) tooltip() (int, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tooltipRow, f.tooltipLabel
}

func (f *frame) tooltipTrigger() position.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return position.NewRect(0, float64(f.tooltipRow), float64(f.sidebar), 1)
}

// geometry implements panel.Geometry over the frame.
type geometry struct {
	frame   *frame
	trigger func() position.Rect
}

func (g geometry) Trigger() position.Rect  { return g.trigger() }
func (g geometry) Viewport() position.Rect { return g.frame.viewport() }

func (g geometry) Reference() (position.Rect, bool) {
	r := g.frame.sidebarRect()
	return r, r.Width > 0
}

// renderMeasurer implements panel.Measurer by rendering the panel content.
type renderMeasurer func() string

func (r renderMeasurer) Measure() position.Size {
	w, h := blockSize(r())
	return position.Size{Width: float64(w), Height: float64(h)}
}

// overlay implements panel.Applier. It records where the panel goes; the
// view composites it on top of the shell.
type overlay struct {
	mu        sync.Mutex
	visible   bool
	placement position.Placement
	style     position.Style
}

func (o *overlay) Apply(p position.Placement, s position.Style) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = true
	o.placement = p
	o.style = s
}

func (o *overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = false
}

func (o *overlay) snapshot() (position.Placement, position.Style, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.placement, o.style, o.visible
}
