package sms

import (
	"strings"
	"testing"
	"time"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

func TestFromMessageDirections(t *testing.T) {
	out := FromMessage(gateway.Message{MessageID: "m1", PhoneNumber: "+15551234", Content: "hi", IsOutgoing: true, CreatedAt: 1700000000})
	if out.Direction != DirectionOut {
		t.Fatalf("outgoing direction = %q, want %q", out.Direction, DirectionOut)
	}
	if out.Original == nil || out.Original.MessageID != "m1" {
		t.Fatalf("outgoing record should retain the original message")
	}

	in := FromMessage(gateway.Message{MessageID: "m2", PhoneNumber: "+15551234", Content: "yo", CreatedAt: 1700000000})
	if in.Direction != DirectionIn {
		t.Fatalf("incoming direction = %q, want %q", in.Direction, DirectionIn)
	}
	if in.Original != nil {
		t.Fatalf("incoming record should not retain the original message")
	}
}

func TestFromMessageTimestampPrefersCompletion(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	completed := created.Add(45 * time.Second)
	rec := FromMessage(gateway.Message{
		MessageID:   "m3",
		PhoneNumber: "+15551234",
		Content:     "x",
		CreatedAt:   created.Unix(),
		CompletedAt: completed.Unix(),
	})
	want := completed.Format("02/01/06 15:04")
	if rec.Timestamp != want {
		t.Fatalf("timestamp = %q, want %q", rec.Timestamp, want)
	}
}

func TestSanitizeStripsTerminalHazards(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"ansi color", "\x1b[31mred\x1b[0m text", "red text"},
		{"control runes", "a\x07b\r\nc", "abc"},
		{"format runes", "a​b‮c", "abc"},
		{"plain", "hello world", "hello world"},
		{"unicode kept", "héllo → ok", "héllo → ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitize(tc.in)
			if got != tc.want {
				t.Fatalf("sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeNeverEmitsEscape(t *testing.T) {
	hostile := "\x1b]0;owned\x07\x1b[2Jpayload"
	got := sanitize(hostile)
	if strings.ContainsRune(got, '\x1b') {
		t.Fatalf("sanitized output still contains ESC: %q", got)
	}
}
