package ui

import (
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/smsgw/sms-terminal/internal/ui/state"
)

const notificationBodyWidth = 36

// renderNotification draws one notification box. The switch is exhaustive
// over the NotificationKind union.
func (m *Model) renderNotification(kind state.NotificationKind) string {
	var title, body string
	style := m.styles.Info

	switch k := kind.(type) {
	case state.IncomingMessage:
		title = "Message · " + k.Phone
		body = k.Content
		style = m.styles.Success
	case state.StatusChange:
		title = "Modem " + k.Current
		body = k.Previous + " → " + k.Current
		style = m.styles.Warning
	case state.SendFailure:
		title = "Send failed · " + k.Phone
		body = k.Err
		style = m.styles.Error
	case state.ConnectionChange:
		switch {
		case k.Connected:
			title = "Gateway connected"
			style = m.styles.Success
		case k.Reconnecting:
			title = "Gateway reconnecting…"
			style = m.styles.Warning
		default:
			title = "Gateway disconnected"
			style = m.styles.Error
		}
	case state.Generic:
		title = k.Title
		body = k.Message
		switch k.Level {
		case state.LevelSuccess:
			style = m.styles.Success
		case state.LevelWarning:
			style = m.styles.Warning
		case state.LevelError:
			style = m.styles.Error
		}
	}

	var b strings.Builder
	b.WriteString(style.Render(truncate.String(title, notificationBodyWidth)))
	if body != "" {
		b.WriteString("\n")
		b.WriteString(truncate.StringWithTail(body, notificationBodyWidth, "…"))
	}
	return m.styles.Notification.Render(b.String())
}
