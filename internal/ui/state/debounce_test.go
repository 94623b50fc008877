package state

import (
	"testing"
	"time"
)

// fakeClock lets tests step time explicitly.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDebouncer(window time.Duration) (*KeyDebouncer, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	d := NewKeyDebouncer(window)
	d.now = clock.now
	return d, clock
}

func TestDebouncerSuppressesBurst(t *testing.T) {
	d, clock := newTestDebouncer(50 * time.Millisecond)

	if !d.ShouldProcess("j") {
		t.Fatalf("first press must be accepted")
	}
	for i := 0; i < 5; i++ {
		clock.advance(5 * time.Millisecond)
		if d.ShouldProcess("j") {
			t.Fatalf("press %d within the window should be suppressed", i+2)
		}
	}
}

func TestDebouncerAcceptsSpacedRepeats(t *testing.T) {
	d, clock := newTestDebouncer(50 * time.Millisecond)

	if !d.ShouldProcess("j") {
		t.Fatalf("first press must be accepted")
	}
	clock.advance(60 * time.Millisecond)
	if !d.ShouldProcess("j") {
		t.Fatalf("press outside the window must be accepted")
	}
}

func TestDebouncerDifferentKeyAlwaysAccepted(t *testing.T) {
	d, clock := newTestDebouncer(50 * time.Millisecond)

	if !d.ShouldProcess("j") {
		t.Fatalf("first press must be accepted")
	}
	clock.advance(time.Millisecond)
	if !d.ShouldProcess("k") {
		t.Fatalf("a different key must always be accepted")
	}
	// The different key restarted the window for itself.
	clock.advance(time.Millisecond)
	if d.ShouldProcess("k") {
		t.Fatalf("immediate repeat of the new key should be suppressed")
	}
	// And the original key counts as different again.
	clock.advance(time.Millisecond)
	if !d.ShouldProcess("j") {
		t.Fatalf("interleaved key must be accepted")
	}
}

func TestDebouncerReset(t *testing.T) {
	d, clock := newTestDebouncer(50 * time.Millisecond)

	if !d.ShouldProcess("esc") {
		t.Fatalf("first press must be accepted")
	}
	clock.advance(time.Millisecond)
	d.Reset()
	if !d.ShouldProcess("esc") {
		t.Fatalf("press after Reset must be accepted")
	}
}
