package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

// composeView is the multiline editor for one destination. Sending always
// goes through the confirmation modal.
type composeView struct {
	phone    string
	reversed bool
	area     textarea.Model
}

func newComposeView(m *Model, phone, draft string, reversed bool) *composeView {
	area := textarea.New()
	area.Placeholder = "message text"
	area.CharLimit = 0
	area.SetValue(draft)
	area.Focus()
	return &composeView{phone: phone, reversed: reversed, area: area}
}

func (v *composeView) load(*Model) (tea.Cmd, error) {
	return textarea.Blink, nil
}

func (v *composeView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.enqueue(SetViewState{State: MessagesState{Phone: v.phone, Reversed: v.reversed}})
		return nil
	case "ctrl+s", "ctrl+@":
		content := strings.TrimRight(v.area.Value(), "\n")
		if strings.TrimSpace(content) == "" {
			return nil
		}
		chars := len([]rune(content))
		parts := gateway.PartCount(chars)
		m.enqueue(SetModal{Modal: &ConfirmationModal{
			ID:          modalSendConfirm,
			Title:       "Send message?",
			Message:     fmt.Sprintf("To %s · %d chars · %d part(s)", v.phone, chars, parts),
			SelectedYes: true,
			Meta:        map[string]string{"phone": v.phone, "content": content},
		}})
		return nil
	}

	var cmd tea.Cmd
	v.area, cmd = v.area.Update(msg)
	return cmd
}

func (v *composeView) render(m *Model) string {
	content := v.area.Value()
	chars := len([]rune(content))
	parts := gateway.PartCount(chars)

	counter := fmt.Sprintf("%d chars · single SMS", chars)
	if parts > 1 {
		counter = fmt.Sprintf("%d chars · %d parts (%d/part)", chars, parts, gateway.MultipartLength)
	} else if chars == 0 {
		counter = "empty"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Compose · " + v.phone))
	b.WriteString("\n\n")
	b.WriteString(v.area.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Info.Render(counter))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("ctrl+s send · esc discard"))
	return b.String()
}
