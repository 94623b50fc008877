package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// errorView is the full-screen error display. Non-dismissible errors trap
// the operator: only ctrl+c (handled globally) leaves.
type errorView struct {
	state ErrorState
}

func newErrorView(state ErrorState) *errorView {
	return &errorView{state: state}
}

func (v *errorView) load(*Model) (tea.Cmd, error) {
	return nil, nil
}

func (v *errorView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	if v.state.Dismissible && msg.String() == "esc" {
		m.enqueue(SetViewState{State: MainMenuState{}})
	}
	return nil
}

func (v *errorView) render(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Error.Render("Error"))
	b.WriteString("\n\n")
	b.WriteString(v.state.Message)
	b.WriteString("\n\n")
	if v.state.Dismissible {
		b.WriteString(m.styles.Footer.Render("esc menu · ctrl+c quit"))
	} else {
		b.WriteString(m.styles.Footer.Render("ctrl+c quit"))
	}
	return b.String()
}
