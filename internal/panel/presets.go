package panel

import "github.com/jmylchreest/docshell/internal/position"

// Fallback sizes for panels that measure as empty, in pixels.
var (
	PopupFallback   = position.Size{Width: 240, Height: 200}
	TooltipFallback = position.Size{Width: 100, Height: 32}
)

// DefaultBreathingRoom is the space kept free when capping the user popup
// height, in pixels.
const DefaultBreathingRoom = 100

// Presets holds the unit-dependent values behind the standard panel
// configurations. Pixel hosts use PixelPresets; terminal hosts scale them to
// cells.
type Presets struct {
	Gap             float64
	BreathingRoom   float64
	PopupFallback   position.Size
	TooltipFallback position.Size
}

// PixelPresets returns the presets for pixel viewports.
func PixelPresets() Presets {
	return Presets{
		Gap:             position.DefaultGap,
		BreathingRoom:   DefaultBreathingRoom,
		PopupFallback:   PopupFallback,
		TooltipFallback: TooltipFallback,
	}
}

// UserPopup returns the user popup configuration. It opens beside the
// sidebar while the sidebar is collapsed and is capped to the viewport
// height minus the breathing room.
func (p Presets) UserPopup(collapsed bool, viewportHeight float64) position.Config {
	return position.Config{
		Gap:       p.Gap,
		Side:      collapsed,
		Align:     position.AlignStart,
		MaxHeight: max(viewportHeight-p.BreathingRoom, 1),
	}
}

// ThemePopup returns the theme popup configuration. The popup only exists
// for the collapsed rail, so it always opens beside the sidebar.
func (p Presets) ThemePopup() position.Config {
	return position.Config{
		Gap:   p.Gap,
		Side:  true,
		Align: position.AlignStart,
	}
}

// Tooltip returns the sidebar tooltip configuration: beside the sidebar,
// centred on the hovered item.
func (p Presets) Tooltip() position.Config {
	return position.Config{
		Gap:              p.Gap,
		Side:             true,
		Align:            position.AlignStart,
		CenterVertically: true,
	}
}

// UserPopupConfig is PixelPresets().UserPopup.
func UserPopupConfig(collapsed bool, viewportHeight float64) position.Config {
	return PixelPresets().UserPopup(collapsed, viewportHeight)
}

// ThemePopupConfig is PixelPresets().ThemePopup.
func ThemePopupConfig() position.Config {
	return PixelPresets().ThemePopup()
}

// TooltipConfig is PixelPresets().Tooltip.
func TooltipConfig() position.Config {
	return PixelPresets().Tooltip()
}
