// Package testutil provides a scripted gateway client for UI and integration
// tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

// FakeClient implements gateway.Client from scripted data. All methods are
// safe for concurrent use; error fields, when set, fail the matching call.
type FakeClient struct {
	mu sync.Mutex

	Messages map[string][]gateway.Message
	Contacts []gateway.Contact
	Device   gateway.DeviceInfo
	Reports  map[string][]gateway.DeliveryReport

	FetchErr   error
	SendErr    error
	ContactErr error
	DeviceErr  error
	RenameErr  error
	ReportsErr error

	SentMessages []gateway.Message
	FetchCalls   int

	nextID int
}

// NewFakeClient creates an empty scripted client.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Messages: map[string][]gateway.Message{},
		Reports:  map[string][]gateway.DeliveryReport{},
	}
}

// Seed appends messages to a conversation, newest first like the gateway.
func (f *FakeClient) Seed(phone string, messages ...gateway.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages[phone] = append(f.Messages[phone], messages...)
}

func (f *FakeClient) FetchMessagePage(ctx context.Context, phone string, offset, limit int, reversed bool) ([]gateway.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCalls++
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	conversation := f.Messages[phone]
	if reversed {
		reversedCopy := make([]gateway.Message, len(conversation))
		for i, msg := range conversation {
			reversedCopy[len(conversation)-1-i] = msg
		}
		conversation = reversedCopy
	}
	if offset >= len(conversation) {
		return nil, nil
	}
	end := offset + limit
	if end > len(conversation) {
		end = len(conversation)
	}
	page := make([]gateway.Message, end-offset)
	copy(page, conversation[offset:end])
	return page, nil
}

func (f *FakeClient) SendMessage(ctx context.Context, phone, content string) (gateway.SendReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return gateway.SendReceipt{}, f.SendErr
	}
	f.nextID++
	msg := gateway.Message{
		MessageID:   fmt.Sprintf("sent-%d", f.nextID),
		PhoneNumber: phone,
		Content:     content,
		IsOutgoing:  true,
	}
	f.SentMessages = append(f.SentMessages, msg)
	f.Messages[phone] = append([]gateway.Message{msg}, f.Messages[phone]...)
	return gateway.SendReceipt{MessageID: msg.MessageID, ReferenceID: fmt.Sprintf("ref-%d", f.nextID)}, nil
}

func (f *FakeClient) FetchContacts(ctx context.Context, limit int) ([]gateway.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ContactErr != nil {
		return nil, f.ContactErr
	}
	if limit > 0 && limit < len(f.Contacts) {
		return append([]gateway.Contact(nil), f.Contacts[:limit]...), nil
	}
	return append([]gateway.Contact(nil), f.Contacts...), nil
}

func (f *FakeClient) SetFriendlyName(ctx context.Context, phone string, name *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RenameErr != nil {
		return f.RenameErr
	}
	for i := range f.Contacts {
		if f.Contacts[i].PhoneNumber == phone {
			f.Contacts[i].FriendlyName = name
			return nil
		}
	}
	f.Contacts = append(f.Contacts, gateway.Contact{PhoneNumber: phone, FriendlyName: name})
	return nil
}

func (f *FakeClient) FetchDeviceInfo(ctx context.Context) (gateway.DeviceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeviceErr != nil {
		return gateway.DeviceInfo{}, f.DeviceErr
	}
	return f.Device, nil
}

func (f *FakeClient) FetchDeliveryReports(ctx context.Context, messageID string) ([]gateway.DeliveryReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReportsErr != nil {
		return nil, f.ReportsErr
	}
	return append([]gateway.DeliveryReport(nil), f.Reports[messageID]...), nil
}

var _ gateway.Client = (*FakeClient)(nil)
