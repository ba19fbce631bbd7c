// Package notify delivers desktop notifications for due reminders and
// remembers, per reminder per day, that delivery was already attempted.
package notify

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/ferntree/sprout/internal/store"
)

// Permission is the user's answer to the notification capability request,
// asked once during init and stored in the config.
type Permission string

const (
	// PermissionUnrequested means the user has never been asked.
	PermissionUnrequested Permission = ""
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
)

// ParsePermission maps a stored config value onto the tri-state. Anything
// unrecognized counts as never-asked.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionUnrequested
	}
}

// Notifier hands a notification to the system. Delivery is fire-and-forget:
// the only feedback is the error from the hand-off itself, never a read
// receipt.
type Notifier interface {
	Permission() Permission
	Send(title, body string) error
}

// Desktop sends through the system notification daemon.
type Desktop struct {
	perm Permission
}

// NewDesktop returns a Desktop notifier carrying the stored permission.
func NewDesktop(perm Permission) *Desktop {
	return &Desktop{perm: perm}
}

// Permission returns the stored capability state.
func (d *Desktop) Permission() Permission { return d.perm }

// Send displays a desktop notification.
func (d *Desktop) Send(title, body string) error {
	if err := beeep.Notify(title, body, ""); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	return nil
}

// Marks records which (reminder, day) pairs have had a dispatch attempt.
// Marks are presence-only and never deleted; a new day uses a new key, which
// is what resets eligibility at midnight.
type Marks struct {
	store store.Store
}

// NewMarks returns a Marks over s.
func NewMarks(s store.Store) Marks {
	return Marks{store: s}
}

// markKey is the store key for one reminder on one calendar day.
func markKey(id string, day time.Time) string {
	return "notified-" + id + "-" + day.Format("2006-01-02")
}

// Marked reports whether a dispatch was already attempted for id on day.
func (m Marks) Marked(id string, day time.Time) bool {
	_, err := m.store.Get(markKey(id, day))
	return err == nil
}

// Mark records a dispatch attempt for id on day.
func (m Marks) Mark(id string, day time.Time) error {
	return m.store.Set(markKey(id, day), "1")
}
