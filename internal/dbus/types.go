package dbus

import (
	"github.com/godbus/dbus/v5"
)

// D-Bus names of the notification server.
const (
	NotificationsDest      = "org.freedesktop.Notifications"
	NotificationsPath      = "/org/freedesktop/Notifications"
	NotificationsInterface = "org.freedesktop.Notifications"
)

// Urgency levels defined by the freedesktop.org notification specification.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Notification holds the parameters of an org.freedesktop.Notifications.Notify
// call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// NewNotification creates a notification with server-default expiry and
// normal urgency.
func NewNotification(appName, summary, body string) *Notification {
	n := &Notification{
		AppName:       appName,
		Summary:       summary,
		Body:          body,
		Hints:         make(map[string]dbus.Variant),
		ExpireTimeout: -1,
	}
	n.SetUrgency(UrgencyNormal)
	return n
}

func (n *Notification) setHint(key string, v any) {
	if n.Hints == nil {
		n.Hints = make(map[string]dbus.Variant)
	}
	n.Hints[key] = dbus.MakeVariant(v)
}

// SetUrgency sets the urgency hint.
func (n *Notification) SetUrgency(u byte) {
	n.setHint("urgency", u)
}

// SetCategory sets the category hint, e.g. "presence" or "im".
func (n *Notification) SetCategory(c string) {
	n.setHint("category", c)
}

// SetTransient marks the notification as not to be kept in history.
func (n *Notification) SetTransient(transient bool) {
	n.setHint("transient", transient)
}

// SetSuppressSound asks the server not to play its own sound.
func (n *Notification) SetSuppressSound(suppress bool) {
	n.setHint("suppress-sound", suppress)
}

// Urgency extracts the urgency hint.
// Returns UrgencyNormal if not specified.
func (n *Notification) Urgency() byte {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return b
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint.
// Returns empty string if not specified.
func (n *Notification) Category() string {
	if v, ok := n.Hints["category"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Transient returns true if the transient hint is set.
func (n *Notification) Transient() bool {
	if v, ok := n.Hints["transient"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// SuppressSound returns true if the suppress-sound hint is set.
func (n *Notification) SuppressSound() bool {
	if v, ok := n.Hints["suppress-sound"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// args returns the Notify method arguments in wire order.
func (n *Notification) args() []any {
	actions := n.Actions
	if actions == nil {
		actions = []string{}
	}
	hints := n.Hints
	if hints == nil {
		hints = map[string]dbus.Variant{}
	}
	return []any{
		n.AppName,
		n.ReplacesID,
		n.AppIcon,
		n.Summary,
		n.Body,
		actions,
		hints,
		n.ExpireTimeout,
	}
}
