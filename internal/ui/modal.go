package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

// Well-known modal IDs; responses are routed on them.
const (
	modalSendConfirm = "send-confirm"
	modalSending     = "sending"
	modalEditName    = "edit-name"
	modalReports     = "delivery-reports"
)

// modalResponse is the closed set of terminal modal outcomes. A response
// always ends the modal's life.
type modalResponse interface {
	responseName() string
}

type respDismissed struct{}

type respConfirmed struct {
	Yes bool
}

type respText struct {
	Value string
}

func (respDismissed) responseName() string { return "dismissed" }
func (r respConfirmed) responseName() string { return fmt.Sprintf("confirmed:%t", r.Yes) }
func (respText) responseName() string { return "text" }

// Modal occupies the single modal slot. handleKey returns a non-nil response
// to terminate; load fires exactly once when the modal is activated. Whether
// the underlying view keeps rendering is derived from the concrete type, same
// as blocksInput.
type Modal interface {
	modalID() string
	modalKind() string
	load(m *Model) tea.Cmd
	handleKey(m *Model, msg tea.KeyMsg) (modalResponse, tea.Cmd)
	render(m *Model) string
	blocksInput() bool
	hidesView() bool
}

// ConfirmationModal asks a yes/no question. Meta carries the payload the
// responder needs (for sends: phone and content).
type ConfirmationModal struct {
	ID          string
	Title       string
	Message     string
	SelectedYes bool
	Meta        map[string]string
}

func (c *ConfirmationModal) modalID() string { return c.ID }
func (*ConfirmationModal) modalKind() string { return "confirmation" }
func (*ConfirmationModal) load(*Model) tea.Cmd { return nil }
func (*ConfirmationModal) blocksInput() bool { return false }
func (*ConfirmationModal) hidesView() bool { return false }

func (c *ConfirmationModal) handleKey(m *Model, msg tea.KeyMsg) (modalResponse, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return respDismissed{}, nil
	case "left", "right", "tab", "h", "l":
		c.SelectedYes = !c.SelectedYes
		return nil, nil
	case "y":
		return respConfirmed{Yes: true}, nil
	case "n":
		return respConfirmed{Yes: false}, nil
	case "enter":
		return respConfirmed{Yes: c.SelectedYes}, nil
	}
	return nil, nil
}

func (c *ConfirmationModal) render(m *Model) string {
	yes, no := "  Yes  ", "  No  "
	if c.SelectedYes {
		yes = m.styles.SelectedItem.Render(yes)
		no = m.styles.Item.Render(no)
	} else {
		yes = m.styles.Item.Render(yes)
		no = m.styles.SelectedItem.Render(no)
	}
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render(c.Title))
	b.WriteString("\n\n")
	b.WriteString(c.Message)
	b.WriteString("\n\n")
	b.WriteString(yes + "   " + no)
	return m.styles.ModalBorder.Render(b.String())
}

// TextInputModal collects one line of text. Meta carries routing payload
// (for friendly-name edits: the phone number).
type TextInputModal struct {
	ID    string
	Title string
	Input textinput.Model
	Meta  map[string]string
}

func newTextInputModal(id, title, initial string, maxLen int, meta map[string]string) *TextInputModal {
	input := textinput.New()
	input.CharLimit = maxLen
	input.SetValue(initial)
	input.Focus()
	input.CursorEnd()
	return &TextInputModal{ID: id, Title: title, Input: input, Meta: meta}
}

func (t *TextInputModal) modalID() string { return t.ID }
func (*TextInputModal) modalKind() string { return "textInput" }
func (*TextInputModal) load(*Model) tea.Cmd { return textinput.Blink }
func (*TextInputModal) blocksInput() bool { return false }
func (*TextInputModal) hidesView() bool { return false }

func (t *TextInputModal) handleKey(m *Model, msg tea.KeyMsg) (modalResponse, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return respDismissed{}, nil
	case "enter":
		return respText{Value: strings.TrimSpace(t.Input.Value())}, nil
	}
	var cmd tea.Cmd
	t.Input, cmd = t.Input.Update(msg)
	return nil, cmd
}

func (t *TextInputModal) render(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render(t.Title))
	b.WriteString("\n\n")
	b.WriteString(t.Input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("enter save · esc cancel"))
	return m.styles.ModalBorder.Render(b.String())
}

// LoadingModal blocks interaction while a background operation runs. It never
// produces a response; only a queued SetModal/SetViewState replaces it.
type LoadingModal struct {
	ID      string
	Message string
	Spinner spinner.Model
}

func newLoadingModal(id, message string, m *Model) *LoadingModal {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = *m.styles.Loading
	return &LoadingModal{ID: id, Message: message, Spinner: s}
}

func (l *LoadingModal) modalID() string { return l.ID }
func (*LoadingModal) modalKind() string { return "loading" }
func (*LoadingModal) blocksInput() bool { return true }
func (*LoadingModal) hidesView() bool { return true }

func (l *LoadingModal) load(*Model) tea.Cmd {
	return l.Spinner.Tick
}

func (l *LoadingModal) handleKey(m *Model, msg tea.KeyMsg) (modalResponse, tea.Cmd) {
	return nil, nil
}

func (l *LoadingModal) render(m *Model) string {
	return m.styles.ModalBorder.Render(l.Spinner.View() + " " + l.Message)
}

// DeliveryReportsModal shows the delivery history of one outgoing message.
// Reports arrive through the load hook.
type DeliveryReportsModal struct {
	ID      string
	Message gateway.Message
	Reports []gateway.DeliveryReport
	Err     error
	Loaded  bool
}

func (d *DeliveryReportsModal) modalID() string { return d.ID }
func (*DeliveryReportsModal) modalKind() string { return "deliveryReports" }
func (*DeliveryReportsModal) blocksInput() bool { return false }
func (*DeliveryReportsModal) hidesView() bool { return false }

func (d *DeliveryReportsModal) load(m *Model) tea.Cmd {
	return m.fetchDeliveryReports(d.Message.MessageID)
}

func (d *DeliveryReportsModal) handleKey(m *Model, msg tea.KeyMsg) (modalResponse, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", "m":
		return respDismissed{}, nil
	}
	return nil, nil
}

func (d *DeliveryReportsModal) render(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Delivery Reports"))
	b.WriteString("\n\n")
	switch {
	case d.Err != nil:
		b.WriteString(m.styles.Error.Render(d.Err.Error()))
	case !d.Loaded:
		b.WriteString(m.styles.Loading.Render("loading…"))
	case len(d.Reports) == 0:
		b.WriteString(m.styles.Info.Render("no reports recorded"))
	default:
		for i, report := range d.Reports {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderReportLine(m, report))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("esc close"))
	return m.styles.ModalBorder.Render(b.String())
}

// handleReportsLoadedMsg fills the delivery-reports modal, if it is still
// the one on screen.
func (m *Model) handleReportsLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(reportsLoadedMsg)
	if !ok {
		return nil
	}
	modal, showing := m.modal.(*DeliveryReportsModal)
	if !showing || modal.Message.MessageID != loaded.messageID {
		return nil
	}
	modal.Reports = loaded.reports
	modal.Err = loaded.err
	modal.Loaded = true
	return nil
}

func renderReportLine(m *Model, report gateway.DeliveryReport) string {
	style := m.styles.Info
	switch report.Status {
	case gateway.StatusReceived:
		style = m.styles.Success
	case gateway.StatusFailed:
		style = m.styles.Error
	case gateway.StatusRetrying:
		style = m.styles.Warning
	}
	return style.Render(report.Status)
}
