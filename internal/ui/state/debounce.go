// Package state holds the pure UI state types: the message table, the
// notification list and the key debouncer. Nothing here performs IO.
package state

import "time"

// DebounceWindow is how long a repeated key press is ignored.
const DebounceWindow = 50 * time.Millisecond

// KeyDebouncer suppresses accidental repeats of the same key. A different key
// is always accepted and restarts the timing window.
type KeyDebouncer struct {
	window  time.Duration
	lastKey string
	lastAt  time.Time
	armed   bool

	now func() time.Time
}

// NewKeyDebouncer creates a debouncer; window <= 0 uses DebounceWindow.
func NewKeyDebouncer(window time.Duration) *KeyDebouncer {
	if window <= 0 {
		window = DebounceWindow
	}
	return &KeyDebouncer{window: window, now: time.Now}
}

// ShouldProcess reports whether the key press should be handled, recording it
// as the new reference press when accepted.
func (d *KeyDebouncer) ShouldProcess(key string) bool {
	now := d.now()
	if d.armed && key == d.lastKey && now.Sub(d.lastAt) < d.window {
		return false
	}
	d.lastKey = key
	d.lastAt = now
	d.armed = true
	return true
}

// Reset forgets the last press. Called on every view transition so the first
// key in a new view is never swallowed.
func (d *KeyDebouncer) Reset() {
	d.armed = false
	d.lastKey = ""
	d.lastAt = time.Time{}
}
