package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/net/websocket"
)

// wireEvent is the envelope the gateway pushes over the WebSocket.
type wireEvent struct {
	Type         string          `json:"type"`
	Message      json.RawMessage `json:"message,omitempty"`
	Previous     ModemState      `json:"previous,omitempty"`
	Current      ModemState      `json:"current,omitempty"`
	Connected    bool            `json:"connected,omitempty"`
	Reconnecting bool            `json:"reconnecting,omitempty"`
}

// WSSubscriber subscribes to live gateway events over a WebSocket.
type WSSubscriber struct {
	uri    string
	origin string
	auth   string
}

// NewWSSubscriber creates a subscriber for the given ws:// or wss:// URI.
func NewWSSubscriber(uri, auth string) *WSSubscriber {
	return &WSSubscriber{uri: uri, origin: "http://localhost/", auth: auth}
}

// Subscribe connects and forwards decoded events until ctx is cancelled or
// the connection drops. The returned channel is closed on exit; callers that
// want reconnection call Subscribe again (the backend listener throttles
// those attempts).
func (s *WSSubscriber) Subscribe(ctx context.Context) (<-chan Event, error) {
	cfg, err := websocket.NewConfig(s.uri, s.origin)
	if err != nil {
		return nil, fmt.Errorf("configure websocket: %w", err)
	}
	if s.auth != "" {
		cfg.Header.Set("Authorization", "Bearer "+s.auth)
	}
	conn, err := websocket.DialConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	events := make(chan Event, 16)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			var wire wireEvent
			if err := websocket.JSON.Receive(conn, &wire); err != nil {
				return
			}
			evt, ok := decodeEvent(wire)
			if !ok {
				continue
			}
			select {
			case events <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func decodeEvent(wire wireEvent) (Event, bool) {
	switch wire.Type {
	case "new_message":
		var msg Message
		if err := json.Unmarshal(wire.Message, &msg); err != nil {
			return Event{}, false
		}
		return Event{Kind: EventNewMessage, Message: msg}, true
	case "status_change":
		return Event{Kind: EventStatusChange, Previous: wire.Previous, Current: wire.Current}, true
	case "connection_change":
		return Event{Kind: EventConnectionChange, Connected: wire.Connected, Reconnecting: wire.Reconnecting}, true
	default:
		return Event{}, false
	}
}
