package ui

import (
	"strings"
	"testing"

	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/testutil"
)

func TestConfirmationToggleAndEnter(t *testing.T) {
	fake := testutil.NewFakeClient()
	m := newTestModel(t, fake, MainMenuState{})

	modal := &ConfirmationModal{ID: "test", Title: "t", Message: "m", SelectedYes: true}
	if resp, _ := modal.handleKey(m, keyMsg("left")); resp != nil {
		t.Fatalf("toggle must not terminate the modal")
	}
	if modal.SelectedYes {
		t.Fatalf("toggle did not move the selection")
	}
	resp, _ := modal.handleKey(m, keyMsg("enter"))
	confirmed, ok := resp.(respConfirmed)
	if !ok || confirmed.Yes {
		t.Fatalf("enter must confirm the current selection, got %#v", resp)
	}
}

func TestConfirmationEscDismisses(t *testing.T) {
	fake := testutil.NewFakeClient()
	m := newTestModel(t, fake, MainMenuState{})

	modal := &ConfirmationModal{ID: "test"}
	resp, _ := modal.handleKey(m, keyMsg("esc"))
	if _, ok := resp.(respDismissed); !ok {
		t.Fatalf("esc must dismiss, got %#v", resp)
	}
}

func TestTextInputModalRoundTrip(t *testing.T) {
	fake := testutil.NewFakeClient()
	m := newTestModel(t, fake, MainMenuState{})

	modal := newTextInputModal(modalEditName, "name", "Bob", 64, map[string]string{"phone": "+15550001"})
	if resp, _ := modal.handleKey(m, keyMsg("!")); resp != nil {
		t.Fatalf("typing must not terminate the modal")
	}
	resp, _ := modal.handleKey(m, keyMsg("enter"))
	text, ok := resp.(respText)
	if !ok {
		t.Fatalf("enter must return the text response, got %#v", resp)
	}
	if text.Value != "Bob!" {
		t.Fatalf("text value = %q, want %q", text.Value, "Bob!")
	}
}

func TestLoadingModalBlocksInput(t *testing.T) {
	fake := testutil.NewFakeClient()
	m := newTestModel(t, fake, MainMenuState{})

	m.queue.Push(SetModal{Modal: newLoadingModal(modalSending, "sending", m)})
	m.finishUpdate(nil)

	press(m, "esc")
	if m.modal == nil {
		t.Fatalf("loading modal must ignore keys; only an action may replace it")
	}
	if _, ok := m.view.(MainMenuState); !ok {
		t.Fatalf("keys under a loading modal must not reach the view")
	}
}

func TestDeliveryReportsModalOnlyForOutgoing(t *testing.T) {
	fake := testutil.NewFakeClient()
	fake.Seed("+15550001",
		gateway.Message{MessageID: "in-1", PhoneNumber: "+15550001", Content: "incoming"},
	)
	m := newTestModel(t, fake, MessagesState{Phone: "+15550001"})
	view := m.current.(*messagesView)

	cmd := m.fetchPage(view.phone, 0, view.table.Generation(), false, true)
	m.Update(cmd())

	press(m, "m")
	if m.modal != nil {
		t.Fatalf("reports modal must not open for an incoming message")
	}
}

func TestDeliveryReportsModalLoadsReports(t *testing.T) {
	fake := testutil.NewFakeClient()
	fake.Seed("+15550001",
		gateway.Message{MessageID: "out-1", PhoneNumber: "+15550001", Content: "sent", IsOutgoing: true},
	)
	fake.Reports["out-1"] = []gateway.DeliveryReport{{MessageID: "out-1", Status: gateway.StatusReceived}}
	m := newTestModel(t, fake, MessagesState{Phone: "+15550001"})
	view := m.current.(*messagesView)

	cmd := m.fetchPage(view.phone, 0, view.table.Generation(), false, true)
	m.Update(cmd())

	press(m, "m")
	modal, ok := m.modal.(*DeliveryReportsModal)
	if !ok {
		t.Fatalf("m on an outgoing message must open the reports modal, got %T", m.modal)
	}

	loadCmd := modal.load(m)
	m.Update(loadCmd())

	if !modal.Loaded || len(modal.Reports) != 1 {
		t.Fatalf("reports were not delivered to the modal: %#v", modal)
	}

	press(m, "esc")
	if m.modal != nil {
		t.Fatalf("esc must close the reports modal")
	}
}

func TestLoadingModalHidesBaseView(t *testing.T) {
	fake := testutil.NewFakeClient()
	m := newTestModel(t, fake, MainMenuState{})

	m.queue.Push(SetModal{Modal: newLoadingModal(modalSending, "sending", m)})
	m.finishUpdate(nil)

	out := m.View()
	if !strings.Contains(out, "sending") {
		t.Fatalf("loading modal content missing from the frame")
	}
	if strings.Contains(out, "SMS Terminal") {
		t.Fatalf("base view must be hidden under a loading modal")
	}
}

func TestModalOverlayRendersOnTop(t *testing.T) {
	fake := testutil.NewFakeClient()
	m := newTestModel(t, fake, MainMenuState{})

	m.queue.Push(SetModal{Modal: &ConfirmationModal{
		ID:      "test",
		Title:   "Send message?",
		Message: "To nobody",
	}})
	m.finishUpdate(nil)

	out := m.View()
	if !strings.Contains(out, "Send message?") {
		t.Fatalf("modal content missing from the composed frame")
	}
	if !strings.Contains(out, "SMS Terminal") {
		t.Fatalf("base view must keep rendering under the modal")
	}
}
