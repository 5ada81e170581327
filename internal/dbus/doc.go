// Package dbus talks to desktop services on the session bus: the
// org.freedesktop.Notifications server used for desktop announcements and
// the org.freedesktop.portal.Settings interface used to read the system
// color scheme.
package dbus
