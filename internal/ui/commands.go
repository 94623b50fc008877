package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/logging/events"
	"github.com/smsgw/sms-terminal/internal/sms"
	"github.com/smsgw/sms-terminal/internal/ui/state"
)

const gatewayCallTimeout = 30 * time.Second

// pageFetchedMsg carries one page fetch result. phone and generation let the
// handler discard responses that outlived their view or load cycle.
type pageFetchedMsg struct {
	phone      string
	generation int
	initial    bool
	records    []sms.Record
	err        error
}

type contactsLoadedMsg struct {
	contacts  []gateway.Contact
	fromCache bool
	err       error
}

type deviceInfoMsg struct {
	info gateway.DeviceInfo
	err  error
}

type reportsLoadedMsg struct {
	messageID string
	reports   []gateway.DeliveryReport
	err       error
}

// actionsPendingMsg wakes the loop when a background producer pushed actions.
type actionsPendingMsg struct{}

func callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), gatewayCallTimeout)
}

// fetchPage loads one page for the conversation. The table's Loading flag
// was set by the caller via BeginLoad.
func (m *Model) fetchPage(phone string, offset, generation int, reversed, initial bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		messages, err := client.FetchMessagePage(ctx, phone, offset, state.PageSize, reversed)
		if err != nil {
			return pageFetchedMsg{phone: phone, generation: generation, initial: initial, err: err}
		}
		records := make([]sms.Record, 0, len(messages))
		for _, msg := range messages {
			records = append(records, sms.FromMessage(msg))
		}
		return pageFetchedMsg{phone: phone, generation: generation, initial: initial, records: records}
	}
}

// loadContacts fetches the contact list, writing through to the cache on
// success and falling back to it on failure.
func (m *Model) loadContacts(limit int) tea.Cmd {
	client := m.client
	store := m.store
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		contacts, err := client.FetchContacts(ctx, limit)
		if err == nil {
			if store != nil {
				if cacheErr := store.ReplaceContacts(ctx, contacts); cacheErr != nil {
					events.Backend.Error(cacheErr)
				}
			}
			return contactsLoadedMsg{contacts: contacts}
		}
		if store != nil {
			cached, cacheErr := store.Contacts(ctx)
			if cacheErr == nil && len(cached) > 0 {
				return contactsLoadedMsg{contacts: cached, fromCache: true, err: err}
			}
		}
		return contactsLoadedMsg{err: err}
	}
}

func (m *Model) fetchDeviceInfo() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		info, err := client.FetchDeviceInfo(ctx)
		return deviceInfoMsg{info: info, err: err}
	}
}

func (m *Model) fetchDeliveryReports(messageID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		reports, err := client.FetchDeliveryReports(ctx, messageID)
		return reportsLoadedMsg{messageID: messageID, reports: reports, err: err}
	}
}

// sendMessage runs the send on its own goroutine and reports back through
// the action queue, so the result is sequenced with everything else. The
// merge is queued after the transition so the sent message lands in the
// Messages table that is actually on screen.
func (m *Model) sendMessage(phone, content string, reversed bool) {
	client := m.client
	go func() {
		ctx, cancel := callCtx()
		defer cancel()
		receipt, err := client.SendMessage(ctx, phone, content)
		events.Backend.SendResult(phone, err)
		if err != nil {
			m.enqueue(
				ShowNotification{Kind: state.SendFailure{Phone: phone, Content: content, Err: err.Error()}},
				SetViewState{State: ComposeState{Phone: phone, Draft: content, Reversed: reversed}, DismissModal: true},
			)
			return
		}
		sent := gateway.Message{
			MessageID:   receipt.MessageID,
			PhoneNumber: phone,
			Content:     content,
			IsOutgoing:  true,
			CreatedAt:   time.Now().Unix(),
		}
		m.enqueue(
			ShowNotification{Kind: state.Generic{Level: state.LevelSuccess, Title: "Sent", Message: "message to " + phone}},
			SetViewState{State: MessagesState{Phone: phone, Reversed: reversed}, DismissModal: true},
			HandleIncomingMessage{Message: sent},
		)
	}()
}

// saveFriendlyName persists a friendly-name edit to the gateway and the
// cache, reporting through the action queue.
func (m *Model) saveFriendlyName(phone string, name *string) {
	client := m.client
	store := m.store
	go func() {
		ctx, cancel := callCtx()
		defer cancel()
		if err := client.SetFriendlyName(ctx, phone, name); err != nil {
			m.enqueue(ShowNotification{Kind: state.Generic{
				Level:   state.LevelError,
				Title:   "Rename failed",
				Message: err.Error(),
			}})
			return
		}
		if store != nil {
			if err := store.SetFriendlyName(ctx, phone, name); err != nil {
				events.Backend.Error(err)
			}
		}
		m.enqueue(
			ShowNotification{Kind: state.Generic{Level: state.LevelSuccess, Title: "Renamed", Message: phone}},
			SetViewState{State: PhonebookState{}},
		)
	}()
}
