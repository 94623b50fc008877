package state

import "time"

// Notification limits.
const (
	MaxNotifications = 6
	NotificationTTL  = 15 * time.Second
)

// NotificationKind is the closed set of notification payloads. Renderers
// switch over the concrete types; adding a kind means updating every switch.
type NotificationKind interface {
	notificationKind()
}

// IncomingMessage announces a live message. It is the only navigable kind:
// dismiss-all jumps to the conversation.
type IncomingMessage struct {
	Phone   string
	Content string
}

// StatusChange announces a modem lifecycle transition.
type StatusChange struct {
	Previous string
	Current  string
}

// SendFailure reports a failed send; Content is kept so the draft survives.
type SendFailure struct {
	Phone   string
	Content string
	Err     string
}

// ConnectionChange reports gateway connectivity.
type ConnectionChange struct {
	Connected    bool
	Reconnecting bool
}

// Level classifies Generic notifications.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Generic is a free-form notification.
type Generic struct {
	Level   Level
	Title   string
	Message string
}

func (IncomingMessage) notificationKind()  {}
func (StatusChange) notificationKind()     {}
func (SendFailure) notificationKind()      {}
func (ConnectionChange) notificationKind() {}
func (Generic) notificationKind()          {}

// NotificationEntry is one queued notification.
type NotificationEntry struct {
	Kind      NotificationKind
	CreatedAt time.Time
}

// Notifications is the bounded, newest-first notification list. Expiry is
// evaluated lazily when the list is read, never on a timer.
type Notifications struct {
	entries []NotificationEntry

	now func() time.Time
}

// NewNotifications creates an empty list.
func NewNotifications() *Notifications {
	return &Notifications{now: time.Now}
}

// Push prepends a notification, dropping the oldest entries beyond the cap.
func (n *Notifications) Push(kind NotificationKind) {
	entry := NotificationEntry{Kind: kind, CreatedAt: n.now()}
	n.entries = append([]NotificationEntry{entry}, n.entries...)
	if len(n.entries) > MaxNotifications {
		n.entries = n.entries[:MaxNotifications]
	}
}

// Active prunes expired entries and returns the live ones, newest first.
func (n *Notifications) Active() []NotificationEntry {
	cutoff := n.now().Add(-NotificationTTL)
	live := n.entries[:0]
	for _, entry := range n.entries {
		if entry.CreatedAt.After(cutoff) {
			live = append(live, entry)
		}
	}
	n.entries = live
	return n.entries
}

// DismissOldest removes the oldest live entry.
func (n *Notifications) DismissOldest() {
	if active := n.Active(); len(active) > 0 {
		n.entries = n.entries[:len(active)-1]
	}
}

// DismissAll clears the list.
func (n *Notifications) DismissAll() {
	n.entries = nil
}

// NavigationTarget returns the conversation to jump to when the operator
// dismisses all notifications: set only when the newest live entry is an
// incoming message.
func (n *Notifications) NavigationTarget() (phone string, ok bool) {
	active := n.Active()
	if len(active) == 0 {
		return "", false
	}
	if msg, isMessage := active[0].Kind.(IncomingMessage); isMessage {
		return msg.Phone, true
	}
	return "", false
}
