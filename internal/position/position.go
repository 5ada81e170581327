// Package position computes viewport-aware placements for floating panels
// such as popups, menus and tooltips.
//
// Compute is a pure function of the trigger geometry, the natural panel
// size, the viewport and a Config. It keeps no state, performs no I/O and is
// safe to call concurrently for independent panels. Measuring the panel and
// applying the result are the caller's job.
package position

// Compute returns the placement for a panel of natural size panel.Width x
// panel.Height opened from trigger inside viewport. Only the size of panel
// is used.
//
// The panel is first clamped to cfg.MaxWidth/cfg.MaxHeight. Horizontally it
// is either placed beside cfg.Reference (side mode) with a fallback to the
// left of the trigger, or aligned to the trigger and clamped into the
// viewport. Vertically it is placed above or below the trigger depending on
// the preference and available space; when neither side fits, the larger
// side is used and the panel is shrunk to it. A final clamp keeps the panel
// within the viewport gaps whenever it is small enough to fit.
func Compute(trigger, panel, viewport Rect, cfg Config) Placement {
	gap := cfg.Gap
	width, height := panel.Width, panel.Height

	if cfg.MaxWidth > 0 && width > cfg.MaxWidth {
		width = cfg.MaxWidth
	}
	if cfg.MaxHeight > 0 && height > cfg.MaxHeight {
		height = cfg.MaxHeight
	}

	minX, maxX := viewport.Left+gap, viewport.Right()-gap
	minY, maxY := viewport.Top+gap, viewport.Bottom()-gap
	bottomHalf := trigger.CenterY() > viewport.CenterY()

	p := Placement{
		Horizontal: HorizontalLeft,
		Vertical:   VerticalBelow,
	}

	// Horizontal.
	if cfg.Side {
		p.Left = cfg.reference(trigger).Right() + gap
		p.Horizontal = HorizontalRight
		if p.Left+width > maxX {
			p.Left = trigger.Left - width - gap
			p.Horizontal = HorizontalLeft
		}
		if p.Left < minX {
			p.Left = minX
		}
	} else {
		switch cfg.Align {
		case AlignEnd:
			p.Left = trigger.Right() - width
		case AlignCenter:
			p.Left = trigger.Left + (trigger.Width-width)/2
		default:
			p.Left = trigger.Left
		}
		// Right edge first so an over-wide panel ends up on the left gap.
		if p.Left+width > maxX {
			p.Left = maxX - width
		}
		if p.Left < minX {
			p.Left = minX
		}
	}

	// Vertical.
	spaceAbove := trigger.Top - viewport.Top - gap
	spaceBelow := viewport.Bottom() - trigger.Bottom() - gap
	wantAbove := bottomHalf
	switch cfg.PreferAbove {
	case PreferAbove:
		wantAbove = true
	case PreferBelow:
		wantAbove = false
	}

	switch {
	case cfg.Side:
		p.Vertical = VerticalAligned
		if span := maxY - minY; height > span {
			height = max(span, 0)
		}
		switch {
		case cfg.CenterVertically:
			p.Top = trigger.Top + (trigger.Height-height)/2
		case bottomHalf:
			p.Top = trigger.Bottom() - height
			if p.Top < minY {
				p.Top = minY
			}
		default:
			p.Top = trigger.Top
			if p.Top+height > maxY {
				p.Top = maxY - height
			}
		}
	case wantAbove && spaceAbove >= height:
		p.Top = trigger.Top - height - gap
		p.Vertical = VerticalAbove
	case spaceBelow >= height:
		p.Top = trigger.Bottom() + gap
		p.Vertical = VerticalBelow
	case spaceAbove > spaceBelow:
		p.Top = minY
		if cfg.MaxHeight <= 0 && spaceAbove < height {
			height = max(spaceAbove, 0)
		}
		p.Vertical = VerticalAboveConstrained
	default:
		p.Top = trigger.Bottom() + gap
		if cfg.MaxHeight <= 0 && spaceBelow < height {
			height = max(spaceBelow, 0)
		}
		p.Vertical = VerticalBelowConstrained
	}

	// Bottom edge first so an over-tall panel is pinned to the top gap.
	if p.Top+height > maxY {
		p.Top = maxY - height
	}
	if p.Top < minY {
		p.Top = minY
	}

	p.Width = width
	p.Height = height
	p.Scrollable = width < panel.Width || height < panel.Height
	return p
}
