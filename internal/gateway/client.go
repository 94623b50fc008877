package gateway

import "context"

// Client is the narrow contract the UI has with the SMS gateway. The terminal
// never asks how many messages exist: hasMore is inferred from page fullness.
type Client interface {
	// FetchMessagePage returns up to limit messages for one conversation,
	// starting at offset, oldest-first when reversed is set.
	FetchMessagePage(ctx context.Context, phone string, offset, limit int, reversed bool) ([]Message, error)

	// SendMessage submits one outgoing SMS and returns the gateway receipt.
	SendMessage(ctx context.Context, phone, content string) (SendReceipt, error)

	// FetchContacts returns up to limit recently active contacts.
	FetchContacts(ctx context.Context, limit int) ([]Contact, error)

	// SetFriendlyName assigns (or clears, when name is nil) the friendly name
	// stored for a phone number.
	SetFriendlyName(ctx context.Context, phone string, name *string) error

	// FetchDeviceInfo reports modem battery and signal state.
	FetchDeviceInfo(ctx context.Context) (DeviceInfo, error)

	// FetchDeliveryReports returns the delivery reports recorded for an
	// outgoing message.
	FetchDeliveryReports(ctx context.Context, messageID string) ([]DeliveryReport, error)
}

// Subscriber provides the live push channel. Implementations deliver events
// until ctx is cancelled; the returned channel is closed afterwards.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}
