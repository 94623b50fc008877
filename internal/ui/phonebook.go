package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/logging/events"
	"github.com/smsgw/sms-terminal/internal/ui/state"
)

// contactLimit caps how many recent contacts the phonebook requests.
const contactLimit = 14

// phonebookView lists recent contacts and accepts a free phone number. The
// input row doubles as a fuzzy filter over the contact list; cursor -1 means
// the input row itself is selected.
type phonebookView struct {
	input     textinput.Model
	contacts  []gateway.Contact
	filtered  []gateway.Contact
	cursor    int
	loading   bool
	fromCache bool
}

func newPhonebookView(m *Model) *phonebookView {
	input := textinput.New()
	input.Placeholder = "phone number or filter"
	input.Prompt = "> "
	if m.styles.Prompt != nil {
		input.PromptStyle = *m.styles.Prompt
	}
	if m.styles.Placeholder != nil {
		input.PlaceholderStyle = *m.styles.Placeholder
	}
	input.Focus()
	return &phonebookView{input: input, cursor: -1, loading: true}
}

func (v *phonebookView) load(m *Model) (tea.Cmd, error) {
	return tea.Batch(m.loadContacts(contactLimit), textinput.Blink), nil
}

func (v *phonebookView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.enqueue(SetViewState{State: MainMenuState{}})
		return nil
	case "up":
		if v.cursor > -1 {
			v.cursor--
		}
		return nil
	case "down":
		if v.cursor < len(v.filtered)-1 {
			v.cursor++
		}
		return nil
	case "enter":
		if phone := v.selectedPhone(); phone != "" {
			m.enqueue(SetViewState{State: MessagesState{Phone: phone}})
		}
		return nil
	case "ctrl+e":
		if v.cursor >= 0 && v.cursor < len(v.filtered) {
			contact := v.filtered[v.cursor]
			initial := ""
			if contact.FriendlyName != nil {
				initial = *contact.FriendlyName
			}
			m.enqueue(SetModal{Modal: newTextInputModal(
				modalEditName,
				"Friendly name for "+contact.PhoneNumber,
				initial,
				64,
				map[string]string{"phone": contact.PhoneNumber},
			)})
		}
		return nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.applyFilter()
	return cmd
}

// selectedPhone resolves the Enter target: the highlighted contact, or the
// typed number when the input row is selected.
func (v *phonebookView) selectedPhone() string {
	if v.cursor >= 0 && v.cursor < len(v.filtered) {
		return v.filtered[v.cursor].PhoneNumber
	}
	return strings.TrimSpace(v.input.Value())
}

// applyFilter narrows the contact list with a fuzzy match over the friendly
// name and the number.
func (v *phonebookView) applyFilter() {
	query := strings.TrimSpace(v.input.Value())
	if query == "" {
		v.filtered = v.contacts
	} else {
		filtered := v.filtered[:0:0]
		for _, contact := range v.contacts {
			haystack := contact.PhoneNumber
			if contact.FriendlyName != nil {
				haystack += " " + *contact.FriendlyName
			}
			if fuzzy.MatchNormalizedFold(query, haystack) {
				filtered = append(filtered, contact)
			}
		}
		v.filtered = filtered
	}
	if v.cursor >= len(v.filtered) {
		v.cursor = len(v.filtered) - 1
	}
}

func (v *phonebookView) setContacts(contacts []gateway.Contact, fromCache bool) {
	v.contacts = contacts
	v.fromCache = fromCache
	v.loading = false
	v.applyFilter()
}

func (v *phonebookView) render(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Phonebook"))
	if v.fromCache {
		b.WriteString("  " + m.styles.Warning.Render("[cached]"))
	}
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(m.styles.Loading.Render("loading contacts…"))
		b.WriteString("\n")
	case len(v.filtered) == 0:
		b.WriteString(m.styles.Info.Render("no matching contacts"))
		b.WriteString("\n")
	default:
		for i, contact := range v.filtered {
			label := contact.PhoneNumber
			if contact.FriendlyName != nil && *contact.FriendlyName != "" {
				label = *contact.FriendlyName + "  " + contact.PhoneNumber
			}
			if i == v.cursor {
				b.WriteString(m.styles.SelectedItem.Render("▸ " + label))
			} else {
				b.WriteString(m.styles.Item.Render("  " + label))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter open · ctrl+e rename · esc menu"))
	return b.String()
}

// handleContactsLoadedMsg delivers the contact fetch result to the phonebook
// if it is still on screen.
func (m *Model) handleContactsLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(contactsLoadedMsg)
	if !ok {
		return nil
	}
	view, showing := m.current.(*phonebookView)
	if !showing {
		return nil
	}
	if loaded.err != nil && len(loaded.contacts) == 0 {
		m.enqueue(ShowError{Message: "load contacts: " + loaded.err.Error(), Dismissible: false})
		return nil
	}
	if loaded.fromCache {
		events.Backend.Error(loaded.err)
		m.enqueue(ShowNotification{Kind: state.Generic{
			Level:   state.LevelWarning,
			Title:   "Offline phonebook",
			Message: "gateway unreachable, showing cached contacts",
		}})
	}
	view.setContacts(loaded.contacts, loaded.fromCache)
	return nil
}
