package ui

import (
	"reflect"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/backend"
	"github.com/smsgw/sms-terminal/internal/cache"
	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/logging/events"
	"github.com/smsgw/sms-terminal/internal/theme"
	"github.com/smsgw/sms-terminal/internal/ui/action"
	"github.com/smsgw/sms-terminal/internal/ui/state"
)

const windowTitlePrefix = "sms-terminal"

type msgHandler func(tea.Msg) tea.Cmd

// Model is the Bubble Tea model owning all view, modal and notification
// state. Background goroutines never touch it; they push Actions instead.
type Model struct {
	client   gateway.Client
	store    *cache.Store
	listener *backend.Listener
	queue    *action.Queue[Action]

	view    ViewState
	current component
	modal   Modal

	notifications *state.Notifications
	debouncer     *state.KeyDebouncer
	styles        theme.Styles

	width      int
	height     int
	backendErr string
	verbose    bool
	quitting   bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI on the given start view. The initial
// transition happens in Init so its load command reaches the runtime.
func NewModel(client gateway.Client, store *cache.Store, listener *backend.Listener, start ViewState, themeName string, verbose bool) *Model {
	m := &Model{
		client:        client,
		store:         store,
		listener:      listener,
		queue:         action.New[Action](),
		view:          start,
		notifications: state.NewNotifications(),
		debouncer:     state.NewKeyDebouncer(0),
		styles:        theme.ByName(themeName),
		verbose:       verbose,
	}
	m.registerHandlers()
	return m
}

// Queue exposes the action queue to external producers.
func (m *Model) Queue() *action.Queue[Action] {
	return m.queue
}

// enqueue pushes actions for the next drain, tracing each one. Safe to call
// from background goroutines.
func (m *Model) enqueue(acts ...Action) {
	for _, act := range acts {
		events.Action.Queued(act.actionKind())
	}
	m.queue.Push(acts...)
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{awaitActions(m.queue)}
	if m.listener != nil {
		cmds = append(cmds, waitForBackendEvent(m.listener))
	}
	if cmd := m.transitionTo(m.view); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	} else if cmd := m.updateModalModels(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(actionsPendingMsg{}): m.handleActionsPendingMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(pageFetchedMsg{}):    m.handlePageFetchedMsg,
		reflect.TypeOf(contactsLoadedMsg{}): m.handleContactsLoadedMsg,
		reflect.TypeOf(deviceInfoMsg{}):     m.handleDeviceInfoMsg,
		reflect.TypeOf(reportsLoadedMsg{}):  m.handleReportsLoadedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate drains the action queue before handing control back to the
// runtime: actions queued while draining are processed in the same pass, so
// one tick always settles into a stable state before rendering.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	for {
		batch := m.queue.Drain()
		if len(batch) == 0 {
			break
		}
		for _, act := range batch {
			if cmd := m.applyAction(act); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// updateModalModels forwards unclaimed messages (spinner ticks, cursor
// blinks) to the active modal's embedded bubbles.
func (m *Model) updateModalModels(msg tea.Msg) tea.Cmd {
	switch modal := m.modal.(type) {
	case *LoadingModal:
		var cmd tea.Cmd
		modal.Spinner, cmd = modal.Spinner.Update(msg)
		return cmd
	case *TextInputModal:
		var cmd tea.Cmd
		modal.Input, cmd = modal.Input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	return nil
}

// handleKeyMsg routes one key press: global chords, then the modal, then the
// notification layer, then the active view.
func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if key.String() == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}

	if !m.debouncer.ShouldProcess(key.String()) {
		events.UI.KeyDebounced(key.String())
		return nil
	}

	if m.modal != nil {
		if m.modal.blocksInput() {
			return nil
		}
		modal := m.modal
		resp, cmd := modal.handleKey(m, key)
		if resp != nil {
			events.Modal.Response(modal.modalID(), resp.responseName())
			// A response always ends the modal; the responder may have
			// installed a successor already.
			if m.modal == modal {
				m.modal = nil
			}
			if respCmd := m.handleModalResponse(modal, resp); respCmd != nil {
				return tea.Batch(cmd, respCmd)
			}
		}
		return cmd
	}

	switch key.String() {
	case "ctrl+t":
		m.styles = theme.Next(m.styles.Palette)
		return nil
	case "ctrl+x":
		m.notifications.DismissOldest()
		return nil
	case "ctrl+d":
		phone, navigable := m.notifications.NavigationTarget()
		m.notifications.DismissAll()
		if navigable {
			m.enqueue(SetViewState{State: MessagesState{Phone: phone}})
		}
		return nil
	}

	if m.current != nil {
		return m.current.handleKey(m, key)
	}
	return nil
}

// applyAction executes one queued action. The switch is exhaustive over the
// Action union.
func (m *Model) applyAction(act Action) tea.Cmd {
	if m.verbose {
		events.Action.Applied(act.actionKind())
	}
	switch a := act.(type) {
	case SetViewState:
		if a.DismissModal {
			m.modal = nil
		}
		return m.transitionTo(a.State)
	case SetModal:
		m.modal = a.Modal
		if a.Modal != nil {
			events.Modal.Open(a.Modal.modalID(), a.Modal.modalKind())
			return a.Modal.load(m)
		}
		return nil
	case HandleIncomingMessage:
		return m.mergeIncomingMessage(a.Message)
	case ShowNotification:
		m.notifications.Push(a.Kind)
		return nil
	case ShowError:
		if !m.shouldShowError(a.Dismissible) {
			return nil
		}
		return m.transitionTo(ErrorState{Message: a.Message, Dismissible: a.Dismissible})
	case Exit:
		m.quitting = true
		return tea.Quit
	default:
		return nil
	}
}

// mergeIncomingMessage folds a pushed message into the table when its
// conversation is on screen. Messages for other conversations only surface
// as notifications.
func (m *Model) mergeIncomingMessage(msg gateway.Message) tea.Cmd {
	view, ok := m.current.(*messagesView)
	if !ok || view.phone != msg.PhoneNumber {
		return nil
	}
	view.addLiveMessage(msg)
	return nil
}

// transitionTo builds and loads the component for the target view. A load
// failure diverts to the fatal Error view; the window title always reflects
// the view actually shown.
func (m *Model) transitionTo(target ViewState) tea.Cmd {
	comp := m.buildComponent(target)
	loadCmd, err := comp.load(m)
	if err != nil {
		events.UI.ViewLoadError(target.viewName(), err)
		target = ErrorState{Message: err.Error(), Dismissible: false}
		comp = m.buildComponent(target)
		loadCmd, _ = comp.load(m)
	}
	m.view = target
	m.current = comp
	m.debouncer.Reset()
	events.UI.ViewEnter(target.viewName(), statePhone(target))

	titleCmd := tea.SetWindowTitle(windowTitlePrefix + " · " + target.title())
	if loadCmd != nil {
		return tea.Batch(titleCmd, loadCmd)
	}
	return titleCmd
}

func (m *Model) buildComponent(target ViewState) component {
	switch s := target.(type) {
	case MainMenuState:
		return newMainMenuView()
	case PhonebookState:
		return newPhonebookView(m)
	case DeviceInfoState:
		return newDeviceInfoView()
	case MessagesState:
		return newMessagesView(s.Phone, s.Reversed)
	case ComposeState:
		return newComposeView(m, s.Phone, s.Draft, s.Reversed)
	case ErrorState:
		return newErrorView(s)
	default:
		return newErrorView(ErrorState{Message: "unknown view", Dismissible: false})
	}
}

// shouldShowError decides whether a new error may take over the screen: yes
// when no error is showing, when the current one is dismissible, or when the
// new one is fatal.
func (m *Model) shouldShowError(newDismissible bool) bool {
	current, showing := m.view.(ErrorState)
	if !showing {
		return true
	}
	return current.Dismissible || !newDismissible
}

// handleModalResponse routes a terminal modal response by modal ID.
func (m *Model) handleModalResponse(modal Modal, resp modalResponse) tea.Cmd {
	switch modal.modalID() {
	case modalSendConfirm:
		confirm, ok := resp.(respConfirmed)
		if !ok || !confirm.Yes {
			return nil
		}
		meta := modal.(*ConfirmationModal).Meta
		phone, content := meta["phone"], meta["content"]
		reversed := false
		if compose, ok := m.view.(ComposeState); ok {
			reversed = compose.Reversed
		}
		m.enqueue(SetModal{Modal: newLoadingModal(modalSending, "sending to "+phone, m)})
		m.sendMessage(phone, content, reversed)
		return nil
	case modalEditName:
		text, ok := resp.(respText)
		if !ok {
			return nil
		}
		phone := modal.(*TextInputModal).Meta["phone"]
		var name *string
		if text.Value != "" {
			value := text.Value
			name = &value
		}
		m.saveFriendlyName(phone, name)
		return nil
	}
	return nil
}

// View renders the active view with notifications and the modal overlaid.
// A modal that hides the view leaves a blank canvas behind it.
func (m *Model) View() string {
	if m.quitting || m.current == nil {
		return ""
	}
	base := ""
	if m.modal == nil || !m.modal.hidesView() {
		base = m.current.render(m)
	}
	if m.backendErr != "" {
		base += "\n" + m.styles.Warning.Render("live updates unavailable: "+m.backendErr)
	}
	return m.composite(base)
}
