package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/docshell/internal/position"
)

func TestPresets(t *testing.T) {
	expanded := UserPopupConfig(false, 800)
	assert.Equal(t, 12.0, expanded.Gap)
	assert.False(t, expanded.Side)
	assert.Equal(t, position.AlignStart, expanded.Align)
	assert.Equal(t, 700.0, expanded.MaxHeight)

	collapsed := UserPopupConfig(true, 800)
	assert.True(t, collapsed.Side)

	// Tiny viewports still get a positive cap.
	assert.Equal(t, 1.0, UserPopupConfig(false, 50).MaxHeight)

	theme := ThemePopupConfig()
	assert.True(t, theme.Side)
	assert.Zero(t, theme.MaxHeight)

	tip := TooltipConfig()
	assert.True(t, tip.Side)
	assert.True(t, tip.CenterVertically)
}

func TestPresets_Cells(t *testing.T) {
	p := Presets{
		Gap:             1,
		BreathingRoom:   4,
		PopupFallback:   position.Size{Width: 24, Height: 10},
		TooltipFallback: position.Size{Width: 12, Height: 1},
	}

	cfg := p.UserPopup(true, 40)
	assert.Equal(t, 1.0, cfg.Gap)
	assert.Equal(t, 36.0, cfg.MaxHeight)
	assert.Equal(t, 1.0, p.Tooltip().Gap)

	assert.Equal(t, position.Size{Width: 240, Height: 200}, PixelPresets().PopupFallback)
	assert.Equal(t, position.Size{Width: 100, Height: 32}, PixelPresets().TooltipFallback)
}
