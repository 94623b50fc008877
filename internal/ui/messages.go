package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/format/grid"
	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/logging/events"
	"github.com/smsgw/sms-terminal/internal/sms"
	"github.com/smsgw/sms-terminal/internal/ui/state"
)

// Display caps per table column, in cells.
var messageColumns = []grid.Column{
	{MaxWidth: 20}, // id
	{MaxWidth: 8},  // direction
	{MaxWidth: 16}, // timestamp
	{MaxWidth: 80}, // content
}

// messagesView is the paginated, live-updating table for one conversation.
type messagesView struct {
	phone string
	table *state.Table
}

func newMessagesView(phone string, reversed bool) *messagesView {
	return &messagesView{phone: phone, table: state.NewTable(reversed)}
}

func (v *messagesView) load(m *Model) (tea.Cmd, error) {
	generation, ok := v.table.BeginLoad()
	if !ok {
		return nil, nil
	}
	return m.fetchPage(v.phone, v.table.Offset, generation, v.table.Reversed, true), nil
}

func (v *messagesView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.enqueue(SetViewState{State: PhonebookState{}})
		return nil
	case "c":
		m.enqueue(SetViewState{State: ComposeState{Phone: v.phone, Reversed: v.table.Reversed}})
		return nil
	case "r":
		return v.reload(m, v.table.Reversed)
	case "ctrl+r":
		return v.reload(m, !v.table.Reversed)
	case "up", "k":
		if v.table.MoveSelection(-1) {
			events.UI.TableCursor(v.phone, v.table.SelectedRow, v.table.SelectedColumn)
		}
		return v.checkLoadMore(m)
	case "down", "j":
		if v.table.MoveSelection(1) {
			events.UI.TableCursor(v.phone, v.table.SelectedRow, v.table.SelectedColumn)
		}
		return v.checkLoadMore(m)
	case "left", "h":
		v.table.MoveColumn(-1)
		return nil
	case "right", "l":
		v.table.MoveColumn(1)
		return nil
	case "pgup":
		v.table.MoveSelection(-state.PageSize / 2)
		return v.checkLoadMore(m)
	case "pgdown":
		v.table.MoveSelection(state.PageSize / 2)
		return v.checkLoadMore(m)
	case "m":
		if rec, ok := v.table.SelectedRecord(); ok && rec.IsOutgoing && rec.Original != nil {
			m.enqueue(SetModal{Modal: &DeliveryReportsModal{
				ID:      modalReports,
				Message: *rec.Original,
			}})
		}
		return nil
	}
	return nil
}

// reload starts a fresh load cycle, optionally flipping the sort order.
// In-flight responses from the previous cycle become stale.
func (v *messagesView) reload(m *Model, reversed bool) tea.Cmd {
	v.table.Reset(reversed)
	generation, ok := v.table.BeginLoad()
	if !ok {
		return nil
	}
	return m.fetchPage(v.phone, v.table.Offset, generation, reversed, true)
}

// checkLoadMore fetches the next page when the selection nears the end.
func (v *messagesView) checkLoadMore(m *Model) tea.Cmd {
	if !v.table.ShouldLoadMore() {
		return nil
	}
	generation, ok := v.table.BeginLoad()
	if !ok {
		return nil
	}
	return m.fetchPage(v.phone, v.table.Offset, generation, v.table.Reversed, false)
}

func (v *messagesView) addLiveMessage(msg gateway.Message) {
	v.table.AddLiveMessage(sms.FromMessage(msg))
}

func (v *messagesView) render(m *Model) string {
	var b strings.Builder
	order := "newest first"
	if v.table.Reversed {
		order = "oldest first"
	}
	b.WriteString(m.styles.Title.Render("Messages · " + v.phone))
	b.WriteString("  " + m.styles.Footer.Render(order))
	b.WriteString("\n\n")

	if len(v.table.Records) == 0 {
		if v.table.Loading {
			b.WriteString(m.styles.Loading.Render("loading messages…"))
		} else {
			b.WriteString(m.styles.Info.Render("no messages in this conversation"))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(v.renderTable(m))
	}

	if v.table.Loading && len(v.table.Records) > 0 {
		b.WriteString(m.styles.Loading.Render("loading more…"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("↑/↓ rows · ←/→ cells · c compose · m reports · r reload · ctrl+r order · esc back"))
	return b.String()
}

// renderTable pads the visible window of rows into aligned columns and
// applies the row/cell highlight.
func (v *messagesView) renderTable(m *Model) string {
	top, bottom := v.visibleRange(m)
	rows := make([][]string, 0, bottom-top)
	for _, rec := range v.table.Records[top:bottom] {
		rows = append(rows, []string{rec.ID, rec.Direction, rec.Timestamp, rec.Content})
	}
	lines := grid.Format(rows, messageColumns)

	var b strings.Builder
	for i, line := range lines {
		row := top + i
		rec := v.table.Records[row]
		switch {
		case row == v.table.SelectedRow:
			b.WriteString(v.renderSelectedRow(m, rec))
		case rec.IsOutgoing:
			b.WriteString(m.styles.Outgoing.Render(line))
		default:
			b.WriteString(m.styles.Incoming.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderSelectedRow re-pads the selected row alone so the highlighted cell
// can get its own style.
func (v *messagesView) renderSelectedRow(m *Model, rec sms.Record) string {
	cells := []string{rec.ID, rec.Direction, rec.Timestamp, rec.Content}
	var b strings.Builder
	for col, cell := range cells {
		padded := grid.Format([][]string{{cell}}, messageColumns[col:col+1])[0]
		if col > 0 {
			b.WriteString("  ")
		}
		if col == v.table.SelectedColumn {
			b.WriteString(m.styles.SelectedCell.Render(padded))
		} else {
			b.WriteString(m.styles.SelectedItem.Render(padded))
		}
	}
	return b.String()
}

// visibleRange windows the records to the terminal height, keeping the
// selection in view.
func (v *messagesView) visibleRange(m *Model) (int, int) {
	total := len(v.table.Records)
	visible := m.height - 7
	if visible <= 0 || visible > total {
		return 0, total
	}
	top := v.table.SelectedRow - visible/2
	if top < 0 {
		top = 0
	}
	if top+visible > total {
		top = total - visible
	}
	return top, top + visible
}

// handlePageFetchedMsg applies one page fetch result. Responses are dropped
// when the Messages view changed conversation or reloaded since the fetch
// started.
func (m *Model) handlePageFetchedMsg(msg tea.Msg) tea.Cmd {
	fetched, ok := msg.(pageFetchedMsg)
	if !ok {
		return nil
	}
	view, showing := m.current.(*messagesView)
	if !showing || view.phone != fetched.phone {
		return nil
	}
	if fetched.err != nil {
		if !view.table.FailLoad(fetched.generation) {
			return nil
		}
		if fetched.initial && len(view.table.Records) == 0 {
			m.enqueue(ShowError{Message: "load messages: " + fetched.err.Error(), Dismissible: false})
			return nil
		}
		m.enqueue(ShowNotification{Kind: state.Generic{
			Level:   state.LevelWarning,
			Title:   "Load failed",
			Message: fetched.err.Error(),
		}})
		return nil
	}
	if view.table.ApplyPage(fetched.generation, fetched.records) {
		events.UI.PageLoaded(fetched.phone, view.table.Offset, len(fetched.records), view.table.HasMore)
	}
	return nil
}
