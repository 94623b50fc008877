package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/backend"
	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/logging/events"
	"github.com/smsgw/sms-terminal/internal/ui/action"
	"github.com/smsgw/sms-terminal/internal/ui/state"
)

func waitForBackendEvent(l *backend.Listener) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-l.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

func awaitActions(q *action.Queue[Action]) tea.Cmd {
	return func() tea.Msg {
		<-q.Wake()
		return actionsPendingMsg{}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.listener != nil {
		return waitForBackendEvent(m.listener)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.listener = nil
	return nil
}

func (m *Model) handleActionsPendingMsg(tea.Msg) tea.Cmd {
	// The drain in finishUpdate does the work; just re-arm the waiter.
	return awaitActions(m.queue)
}

// applyBackendEvent converts one listener event into queued actions. The
// drain at the end of the tick applies them in order.
func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		events.Backend.Error(evt.Err)
		m.backendErr = evt.Err.Error()
		return
	}
	m.backendErr = ""

	switch evt.Kind {
	case backend.KindDeviceInfo:
		events.Backend.Event("deviceInfo")
		if view, ok := m.current.(*deviceInfoView); ok {
			view.setInfo(evt.Device)
		}
		return
	case backend.KindGatewayEvent:
	default:
		return
	}

	switch evt.Gateway.Kind {
	case gateway.EventNewMessage:
		events.Backend.Event("newMessage")
		msg := evt.Gateway.Message
		m.enqueue(HandleIncomingMessage{Message: msg})
		// No toast for a conversation the operator is already reading.
		if statePhone(m.view) != msg.PhoneNumber {
			m.enqueue(ShowNotification{Kind: state.IncomingMessage{
				Phone:   msg.PhoneNumber,
				Content: msg.Content,
			}})
		}
	case gateway.EventStatusChange:
		events.Backend.Event("statusChange")
		m.enqueue(ShowNotification{Kind: state.StatusChange{
			Previous: string(evt.Gateway.Previous),
			Current:  string(evt.Gateway.Current),
		}})
	case gateway.EventConnectionChange:
		events.Backend.Event("connectionChange")
		m.enqueue(ShowNotification{Kind: state.ConnectionChange{
			Connected:    evt.Gateway.Connected,
			Reconnecting: evt.Gateway.Reconnecting,
		}})
	}
}
