package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type menuEntry struct {
	label    string
	shortcut string
	action   Action
}

// mainMenuView is the landing screen.
type mainMenuView struct {
	entries []menuEntry
	cursor  int
}

func newMainMenuView() *mainMenuView {
	return &mainMenuView{
		entries: []menuEntry{
			{label: "Phonebook", shortcut: "p", action: SetViewState{State: PhonebookState{}}},
			{label: "Device Info", shortcut: "d", action: SetViewState{State: DeviceInfoState{}}},
			{label: "Exit", shortcut: "q", action: Exit{}},
		},
	}
}

func (v *mainMenuView) load(*Model) (tea.Cmd, error) {
	return nil, nil
}

func (v *mainMenuView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.entries)-1 {
			v.cursor++
		}
	case "enter":
		m.enqueue(v.entries[v.cursor].action)
	default:
		for _, entry := range v.entries {
			if msg.String() == entry.shortcut {
				m.enqueue(entry.action)
				break
			}
		}
	}
	return nil
}

func (v *mainMenuView) render(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("SMS Terminal"))
	b.WriteString("\n\n")
	for i, entry := range v.entries {
		line := "  " + entry.label + " (" + entry.shortcut + ")"
		if i == v.cursor {
			line = m.styles.SelectedItem.Render("▸ " + entry.label + " (" + entry.shortcut + ")")
		} else {
			line = m.styles.Item.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("↑/↓ move · enter select · ctrl+c quit"))
	return b.String()
}
