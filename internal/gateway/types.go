package gateway

import "time"

// Message is one stored SMS as reported by the gateway.
type Message struct {
	MessageID   string `json:"message_id"`
	PhoneNumber string `json:"phone_number"`
	Content     string `json:"message_content"`
	IsOutgoing  bool   `json:"is_outgoing"`
	CreatedAt   int64  `json:"created_at,omitempty"`
	CompletedAt int64  `json:"completed_at,omitempty"`
}

// Timestamp returns the best available time for the message: completion time
// when set, creation time otherwise, the zero time when neither is known.
func (m Message) Timestamp() time.Time {
	switch {
	case m.CompletedAt > 0:
		return time.Unix(m.CompletedAt, 0)
	case m.CreatedAt > 0:
		return time.Unix(m.CreatedAt, 0)
	default:
		return time.Time{}
	}
}

// Contact pairs a phone number with an optional friendly name.
type Contact struct {
	PhoneNumber  string  `json:"phone_number"`
	FriendlyName *string `json:"friendly_name,omitempty"`
}

// SendReceipt acknowledges an accepted outgoing message.
type SendReceipt struct {
	MessageID   string `json:"message_id"`
	ReferenceID string `json:"reference_id"`
}

// DeliveryReport is one status update for an outgoing message.
type DeliveryReport struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Delivery report status categories as reported by the gateway.
const (
	StatusSent     = "sent"
	StatusReceived = "received"
	StatusRetrying = "retrying"
	StatusFailed   = "failed"
)

// DeviceInfo describes the modem behind the gateway.
type DeviceInfo struct {
	Battery BatteryLevel   `json:"battery"`
	Signal  SignalStrength `json:"signal"`
}

// BatteryLevel holds modem battery state. Status follows the modem
// convention: 0 not charging, 1 charging, 2 no battery.
type BatteryLevel struct {
	Charge  int     `json:"charge"`
	Voltage float64 `json:"voltage"`
	Status  int     `json:"status"`
}

// SignalStrength holds the raw modem RSSI (0..31, 99 means unknown).
type SignalStrength struct {
	RSSI int `json:"rssi"`
}

// Percentage converts RSSI to a 0..100 scale. RSSI 99 reads as unknown (0).
func (s SignalStrength) Percentage() int {
	if s.RSSI == 99 || s.RSSI <= 0 {
		return 0
	}
	if s.RSSI >= 31 {
		return 100
	}
	return int(float64(s.RSSI)/31.0*100.0 + 0.5)
}

// ModemState reports the modem lifecycle in status-change events.
type ModemState string

const (
	ModemOnline       ModemState = "online"
	ModemOffline      ModemState = "offline"
	ModemStartup      ModemState = "startup"
	ModemShuttingDown ModemState = "shutting_down"
)

// EventKind discriminates live events pushed by the gateway.
type EventKind int

const (
	EventNewMessage EventKind = iota
	EventStatusChange
	EventConnectionChange
)

// Event is one normalized live update. Exactly the fields relevant to the
// kind are populated. Delivery is at-most-once; ordering between events is
// gateway-defined.
type Event struct {
	Kind         EventKind
	Message      Message
	Previous     ModemState
	Current      ModemState
	Connected    bool
	Reconnecting bool
}
