package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// D-Bus names of the settings portal.
const (
	PortalDest              = "org.freedesktop.portal.Desktop"
	PortalPath              = "/org/freedesktop/portal/desktop"
	PortalSettingsInterface = "org.freedesktop.portal.Settings"

	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"
)

// ColorScheme is the desktop-wide appearance preference.
type ColorScheme uint32

const (
	ColorSchemeNoPreference ColorScheme = 0
	ColorSchemePreferDark   ColorScheme = 1
	ColorSchemePreferLight  ColorScheme = 2
)

// String returns the string representation of ColorScheme.
func (c ColorScheme) String() string {
	switch c {
	case ColorSchemePreferDark:
		return "prefer-dark"
	case ColorSchemePreferLight:
		return "prefer-light"
	default:
		return "no-preference"
	}
}

// SystemColorScheme reads the color scheme from the settings portal on the
// session bus.
func SystemColorScheme(ctx context.Context) (ColorScheme, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return ColorSchemeNoPreference, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return ReadColorScheme(ctx, conn.Object(PortalDest, PortalPath))
}

// ReadColorScheme reads the color scheme through obj. It tries ReadOne
// first and falls back to the deprecated Read for older portals.
func ReadColorScheme(ctx context.Context, obj dbus.BusObject) (ColorScheme, error) {
	var v dbus.Variant

	call := obj.CallWithContext(ctx, PortalSettingsInterface+".ReadOne", 0, appearanceNamespace, colorSchemeKey)
	if err := call.Store(&v); err != nil {
		call = obj.CallWithContext(ctx, PortalSettingsInterface+".Read", 0, appearanceNamespace, colorSchemeKey)
		if err := call.Store(&v); err != nil {
			return ColorSchemeNoPreference, fmt.Errorf("failed to read color scheme: %w", err)
		}
	}

	return colorSchemeFromVariant(v)
}

// colorSchemeFromVariant unwraps the (possibly nested) variant returned by
// the portal.
func colorSchemeFromVariant(v dbus.Variant) (ColorScheme, error) {
	val := v.Value()
	for {
		inner, ok := val.(dbus.Variant)
		if !ok {
			break
		}
		val = inner.Value()
	}

	switch n := val.(type) {
	case uint32:
		if n > uint32(ColorSchemePreferLight) {
			return ColorSchemeNoPreference, nil
		}
		return ColorScheme(n), nil
	case int32:
		if n < 0 || n > int32(ColorSchemePreferLight) {
			return ColorSchemeNoPreference, nil
		}
		return ColorScheme(n), nil
	default:
		return ColorSchemeNoPreference, fmt.Errorf("unexpected color-scheme value of type %T", val)
	}
}
