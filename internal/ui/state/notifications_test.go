package state

import (
	"fmt"
	"testing"
	"time"
)

func newTestNotifications() (*Notifications, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	n := NewNotifications()
	n.now = clock.now
	return n, clock
}

func TestPushBoundsToNewestSix(t *testing.T) {
	n, clock := newTestNotifications()
	for i := 0; i < 10; i++ {
		clock.advance(time.Millisecond)
		n.Push(Generic{Title: fmt.Sprintf("n%d", i)})
	}

	active := n.Active()
	if len(active) != MaxNotifications {
		t.Fatalf("active count = %d, want %d", len(active), MaxNotifications)
	}
	// Newest first: n9 down to n4.
	for i, entry := range active {
		want := fmt.Sprintf("n%d", 9-i)
		if got := entry.Kind.(Generic).Title; got != want {
			t.Fatalf("entry %d = %q, want %q", i, got, want)
		}
	}
}

func TestExpiryIsLazy(t *testing.T) {
	n, clock := newTestNotifications()
	n.Push(Generic{Title: "old"})
	clock.advance(10 * time.Second)
	n.Push(Generic{Title: "new"})

	clock.advance(6 * time.Second)

	active := n.Active()
	if len(active) != 1 {
		t.Fatalf("active count = %d, want 1 (old entry expired)", len(active))
	}
	if got := active[0].Kind.(Generic).Title; got != "new" {
		t.Fatalf("surviving entry = %q, want new", got)
	}
}

func TestDismissOldest(t *testing.T) {
	n, clock := newTestNotifications()
	n.Push(Generic{Title: "first"})
	clock.advance(time.Millisecond)
	n.Push(Generic{Title: "second"})

	n.DismissOldest()

	active := n.Active()
	if len(active) != 1 {
		t.Fatalf("active count = %d, want 1", len(active))
	}
	if got := active[0].Kind.(Generic).Title; got != "second" {
		t.Fatalf("remaining entry = %q, want second", got)
	}
}

func TestDismissAll(t *testing.T) {
	n, _ := newTestNotifications()
	n.Push(Generic{Title: "a"})
	n.Push(Generic{Title: "b"})
	n.DismissAll()
	if len(n.Active()) != 0 {
		t.Fatalf("DismissAll left entries behind")
	}
}

func TestNavigationTargetOnlyForNewestIncomingMessage(t *testing.T) {
	n, clock := newTestNotifications()

	if _, ok := n.NavigationTarget(); ok {
		t.Fatalf("empty list must not be navigable")
	}

	n.Push(IncomingMessage{Phone: "+15550001", Content: "hi"})
	phone, ok := n.NavigationTarget()
	if !ok || phone != "+15550001" {
		t.Fatalf("NavigationTarget = %q,%v; want +15550001,true", phone, ok)
	}

	clock.advance(time.Millisecond)
	n.Push(StatusChange{Previous: "offline", Current: "online"})
	if _, ok := n.NavigationTarget(); ok {
		t.Fatalf("newest non-message entry must not be navigable")
	}
}
