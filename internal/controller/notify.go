package controller

import (
	"time"

	"github.com/julianstephens/daydicated/internal/constants"
)

// Notification is a transient message shown to the user
type Notification struct {
	Message string
	IsError bool
	Expires time.Time
}

func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.Expires)
}

// Notify queues an informational message
func (c *Controller) Notify(msg string) {
	c.push(Notification{Message: msg})
}

// NotifyError queues err as an error message. nil is ignored.
func (c *Controller) NotifyError(err error) {
	if err == nil {
		return
	}
	c.push(Notification{Message: err.Error(), IsError: true})
}

func (c *Controller) push(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n.Expires = c.now().Add(constants.NotificationLifetime)
	c.notes = append(c.notes, n)
}

// Notifications returns the messages still live at now, oldest first.
// It does not change the queue; see PruneNotifications.
func (c *Controller) Notifications(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, 0, len(c.notes))
	for _, n := range c.notes {
		if !n.Expired(now) {
			out = append(out, n)
		}
	}
	return out
}

// PruneNotifications forgets the messages that have expired at now
func (c *Controller) PruneNotifications(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.notes[:0]
	for _, n := range c.notes {
		if !n.Expired(now) {
			live = append(live, n)
		}
	}
	clear(c.notes[len(live):])
	c.notes = live
}
