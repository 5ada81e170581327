package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Notifier sends desktop notifications. Each notification replaces the
// previous one sent through the same Notifier, so a stream of
// announcements occupies a single slot on screen.
type Notifier struct {
	mu     sync.Mutex
	obj    dbus.BusObject
	logger *slog.Logger
	lastID uint32
}

// NewNotifier creates a notifier bound to the notification server on the
// session bus.
func NewNotifier(logger *slog.Logger) (*Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewNotifierWithObject(conn.Object(NotificationsDest, NotificationsPath), logger), nil
}

// NewNotifierWithObject creates a notifier calling obj directly.
func NewNotifierWithObject(obj dbus.BusObject, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{obj: obj, logger: logger}
}

// Notify sends n and returns the server-assigned id. A zero ReplacesID is
// filled in with the id of the previous notification.
func (nt *Notifier) Notify(ctx context.Context, n *Notification) (uint32, error) {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	if n.ReplacesID == 0 {
		n.ReplacesID = nt.lastID
	}

	var id uint32
	call := nt.obj.CallWithContext(ctx, NotificationsInterface+".Notify", 0, n.args()...)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}

	nt.lastID = id
	nt.logger.Debug("sent desktop notification", "id", id, "summary", n.Summary, "urgency", n.Urgency())
	return id, nil
}

// CloseLast closes the most recent notification, if any.
func (nt *Notifier) CloseLast(ctx context.Context) error {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	if nt.lastID == 0 {
		return nil
	}

	call := nt.obj.CallWithContext(ctx, NotificationsInterface+".CloseNotification", 0, nt.lastID)
	if call.Err != nil {
		return fmt.Errorf("failed to close notification %d: %w", nt.lastID, call.Err)
	}
	nt.lastID = 0
	return nil
}
