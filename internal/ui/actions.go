package ui

import (
	"fmt"

	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/ui/state"
)

// Action is the closed set of state changes producers may request. Actions
// are applied only by the dispatcher on the UI goroutine, in queue order.
type Action interface {
	actionKind() string
}

// SetViewState requests a transition to the given view, optionally clearing
// the active modal first.
type SetViewState struct {
	State        ViewState
	DismissModal bool
}

// SetModal replaces the single modal slot. A nil Modal dismisses.
type SetModal struct {
	Modal Modal
}

// HandleIncomingMessage merges a pushed message into the message table when
// the matching conversation is on screen.
type HandleIncomingMessage struct {
	Message gateway.Message
}

// ShowNotification queues a notification.
type ShowNotification struct {
	Kind state.NotificationKind
}

// ShowError requests the Error view, subject to the arbitration policy.
type ShowError struct {
	Message     string
	Dismissible bool
}

// Exit quits the application.
type Exit struct{}

func (a SetViewState) actionKind() string { return fmt.Sprintf("setView:%s", a.State.viewName()) }
func (SetModal) actionKind() string { return "setModal" }
func (HandleIncomingMessage) actionKind() string {
	return "handleIncomingMessage"
}
func (ShowNotification) actionKind() string { return "showNotification" }
func (ShowError) actionKind() string { return "showError" }
func (Exit) actionKind() string { return "exit" }
