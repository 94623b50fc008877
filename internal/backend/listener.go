// Package backend runs the goroutines that watch the gateway: the live event
// subscription and a periodic device-info poll. Both publish onto a single
// channel consumed by the UI loop.
package backend

import (
	"context"
	"sync"
	"time"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

// Kind represents the type of data emitted by the backend listener.
type Kind int

const (
	KindGatewayEvent Kind = iota
	KindDeviceInfo
)

// Event conveys a live gateway event, a device-info snapshot, or an error.
type Event struct {
	Kind    Kind
	Gateway gateway.Event
	Device  gateway.DeviceInfo
	Err     error
}

// Listener owns the background goroutines that feed the UI.
type Listener struct {
	subscriber gateway.Subscriber
	client     gateway.Client
	interval   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewListener starts the live subscription loop and, when interval > 0, a
// device-info poller. A nil subscriber disables live events; a nil client
// disables polling.
func NewListener(subscriber gateway.Subscriber, client gateway.Client, interval time.Duration) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Listener{
		subscriber: subscriber,
		client:     client,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan Event, 16),
	}

	if subscriber != nil {
		l.startSubscriptionLoop()
	}
	if client != nil && interval > 0 {
		l.startDevicePoller()
	}

	go func() {
		l.wg.Wait()
		close(l.events)
	}()

	return l
}

// Events returns the channel of backend events.
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Stop cancels the listener. Goroutines exit after their current operation
// completes; use Wait if a clean drain is required (e.g. in tests).
func (l *Listener) Stop() {
	l.cancel()
}

// Wait blocks until all goroutines have exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (l *Listener) Wait() {
	l.wg.Wait()
}

// startSubscriptionLoop keeps one subscription open, forwarding decoded events
// and resubscribing when the connection drops. The throttle paces reconnect
// attempts so a flapping gateway does not spin the loop.
func (l *Listener) startSubscriptionLoop() {
	throttle := newThrottle(2 * time.Second)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			if l.ctx.Err() != nil {
				return
			}
			throttle.wait()
			stream, err := l.subscriber.Subscribe(l.ctx)
			if err != nil {
				if !l.emit(Event{Kind: KindGatewayEvent, Err: err}) {
					return
				}
				continue
			}
			if !l.forward(stream) {
				return
			}
		}
	}()
}

// forward relays one subscription until it closes. Returns false when the
// listener is shutting down.
func (l *Listener) forward(stream <-chan gateway.Event) bool {
	for {
		select {
		case <-l.ctx.Done():
			return false
		case evt, ok := <-stream:
			if !ok {
				return true
			}
			if !l.emit(Event{Kind: KindGatewayEvent, Gateway: evt}) {
				return false
			}
		}
	}
}

func (l *Listener) startDevicePoller() {
	throttle := newThrottle(250 * time.Millisecond)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		emit := func() bool {
			throttle.wait()
			info, err := l.client.FetchDeviceInfo(l.ctx)
			return l.emit(Event{Kind: KindDeviceInfo, Device: info, Err: err})
		}

		if !emit() {
			return
		}

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-l.ctx.Done():
				return
			case <-ticker.C:
				if !emit() {
					return
				}
			}
		}
	}()
}

func (l *Listener) emit(evt Event) bool {
	select {
	case <-l.ctx.Done():
		return false
	case l.events <- evt:
		return true
	}
}
