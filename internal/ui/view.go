package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the closed set of full-screen views. Exactly one is active at
// any time; transitions go through Model.transitionTo.
type ViewState interface {
	viewName() string
	title() string
}

// MainMenuState is the landing menu.
type MainMenuState struct{}

// PhonebookState lists recent contacts and accepts a free phone number.
type PhonebookState struct{}

// DeviceInfoState shows modem battery and signal state.
type DeviceInfoState struct{}

// MessagesState is the paginated table for one conversation. Phone is never
// empty.
type MessagesState struct {
	Phone    string
	Reversed bool
}

// ComposeState is the message editor for one destination. Phone is never
// empty; Draft restores the buffer after a failed send. Reversed carries the
// sort order of the Messages view the editor was opened from.
type ComposeState struct {
	Phone    string
	Draft    string
	Reversed bool
}

// ErrorState is the full-screen error view. Dismissible=false is fatal: the
// operator can only quit.
type ErrorState struct {
	Message     string
	Dismissible bool
}

func (MainMenuState) viewName() string   { return "menu" }
func (PhonebookState) viewName() string  { return "phonebook" }
func (DeviceInfoState) viewName() string { return "device" }
func (MessagesState) viewName() string   { return "messages" }
func (ComposeState) viewName() string    { return "compose" }
func (ErrorState) viewName() string      { return "error" }

func (MainMenuState) title() string   { return "Main Menu" }
func (PhonebookState) title() string  { return "Phonebook" }
func (DeviceInfoState) title() string { return "Device Info" }
func (s MessagesState) title() string { return "Messages " + s.Phone }
func (s ComposeState) title() string  { return "Compose " + s.Phone }
func (ErrorState) title() string      { return "Error" }

// statePhone returns the conversation a view is bound to, if any.
func statePhone(view ViewState) string {
	switch s := view.(type) {
	case MessagesState:
		return s.Phone
	case ComposeState:
		return s.Phone
	default:
		return ""
	}
}

// component is the behaviour behind one active view. load runs once when the
// view is entered; a load error diverts the transition to the Error view.
type component interface {
	load(m *Model) (tea.Cmd, error)
	handleKey(m *Model, msg tea.KeyMsg) tea.Cmd
	render(m *Model) string
}
