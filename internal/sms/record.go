// Package sms normalizes gateway messages into the flat records the message
// table renders.
package sms

import (
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

// Direction labels shown in the table.
const (
	DirectionOut = "← OUT"
	DirectionIn  = "→ IN"
)

const timestampLayout = "02/01/06 15:04"

// Record is the normalized projection of one gateway message. Only outgoing
// messages keep the raw original: it is needed for delivery-report lookups,
// and dropping it for incoming traffic keeps the loaded window small.
type Record struct {
	ID         string
	Phone      string
	Direction  string
	Timestamp  string
	Content    string
	IsOutgoing bool
	Original   *gateway.Message
}

// FromMessage builds a Record, stripping ANSI escapes and control/format
// runes from the content so a hostile message cannot corrupt the terminal.
func FromMessage(msg gateway.Message) Record {
	ts := msg.Timestamp()
	if ts.IsZero() {
		ts = time.Now()
	}

	direction := DirectionIn
	var original *gateway.Message
	if msg.IsOutgoing {
		direction = DirectionOut
		orig := msg
		original = &orig
	}

	return Record{
		ID:         msg.MessageID,
		Phone:      msg.PhoneNumber,
		Direction:  direction,
		Timestamp:  ts.Format(timestampLayout),
		Content:    sanitize(msg.Content),
		IsOutgoing: msg.IsOutgoing,
		Original:   original,
	}
}

// sanitize drops everything that would not render as a plain glyph,
// newlines included.
func sanitize(content string) string {
	stripped := ansi.Strip(content)
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsControl(r) || unicode.In(r, unicode.Cf, unicode.Co) || !unicode.IsGraphic(r) && r != ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
