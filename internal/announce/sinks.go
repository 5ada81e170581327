package announce

import (
	"context"

	"github.com/jmylchreest/docshell/internal/dbus"
)

// AppName is the application name sent with desktop notifications.
const AppName = "docshell"

// Player plays the earcon for a priority.
type Player interface {
	PlayForPriority(priority string) error
}

// EarconSink plays a sound for each announcement.
func EarconSink(p Player) Sink {
	return SinkFunc(func(_ context.Context, _ string, priority Priority) error {
		return p.PlayForPriority(string(priority))
	})
}

// Notifier sends desktop notifications.
type Notifier interface {
	Notify(ctx context.Context, n *dbus.Notification) (uint32, error)
}

// DesktopSink mirrors announcements as transient desktop notifications.
// Assertive announcements are sent with normal urgency, polite ones with
// low urgency.
func DesktopSink(n Notifier) Sink {
	return SinkFunc(func(ctx context.Context, msg string, priority Priority) error {
		note := dbus.NewNotification(AppName, msg, "")
		note.SetTransient(true)
		note.SetCategory("presence")
		if priority == Assertive {
			note.SetUrgency(dbus.UrgencyNormal)
		} else {
			note.SetUrgency(dbus.UrgencyLow)
			note.SetSuppressSound(true)
		}
		_, err := n.Notify(ctx, note)
		return err
	})
}
