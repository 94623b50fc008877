package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Number of characters carried by a single SMS, and by each part of a
// multipart message (7 octets go to the concatenation header).
const (
	SingleSMSLength = 160
	MultipartLength = 153
)

// PartCount returns how many SMS parts a message of the given rune count
// occupies on the wire.
func PartCount(chars int) int {
	switch {
	case chars == 0:
		return 0
	case chars <= SingleSMSLength:
		return 1
	default:
		return (chars + MultipartLength - 1) / MultipartLength
	}
}

// HTTPClient talks JSON over HTTP to the SMS gateway.
type HTTPClient struct {
	baseURL string
	auth    string
	client  *http.Client
}

// NewHTTPClient creates a gateway client for the given base URI, e.g.
// "http://localhost:3000". An empty auth token disables the header.
func NewHTTPClient(baseURL, auth string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		auth:    auth,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HTTPClient) FetchMessagePage(ctx context.Context, phone string, offset, limit int, reversed bool) ([]Message, error) {
	q := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	if reversed {
		q.Set("reverse", "true")
	}
	var messages []Message
	path := "/messages/" + url.PathEscape(phone)
	if err := c.get(ctx, path, q, &messages); err != nil {
		return nil, fmt.Errorf("fetch messages for %s: %w", phone, err)
	}
	return messages, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, phone, content string) (SendReceipt, error) {
	parts := PartCount(len([]rune(content)))
	payload := struct {
		PhoneNumber string `json:"phone_number"`
		Content     string `json:"message_content"`
		ReferenceID string `json:"reference_id"`
		TimeoutSecs int    `json:"timeout_secs"`
	}{
		PhoneNumber: phone,
		Content:     content,
		ReferenceID: uuid.NewString(),
		// The gateway gives multipart messages proportionally longer to
		// complete before reporting a timeout.
		TimeoutSecs: 30 * parts,
	}
	var receipt SendReceipt
	if err := c.post(ctx, "/messages", payload, &receipt); err != nil {
		return SendReceipt{}, fmt.Errorf("send message to %s: %w", phone, err)
	}
	if receipt.ReferenceID == "" {
		receipt.ReferenceID = payload.ReferenceID
	}
	return receipt, nil
}

func (c *HTTPClient) FetchContacts(ctx context.Context, limit int) ([]Contact, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var contacts []Contact
	if err := c.get(ctx, "/contacts", q, &contacts); err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	return contacts, nil
}

func (c *HTTPClient) SetFriendlyName(ctx context.Context, phone string, name *string) error {
	payload := struct {
		FriendlyName *string `json:"friendly_name"`
	}{FriendlyName: name}
	path := "/contacts/" + url.PathEscape(phone) + "/name"
	if err := c.post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("set friendly name for %s: %w", phone, err)
	}
	return nil
}

func (c *HTTPClient) FetchDeviceInfo(ctx context.Context) (DeviceInfo, error) {
	var info DeviceInfo
	if err := c.get(ctx, "/device", nil, &info); err != nil {
		return DeviceInfo{}, fmt.Errorf("fetch device info: %w", err)
	}
	return info, nil
}

func (c *HTTPClient) FetchDeliveryReports(ctx context.Context, messageID string) ([]DeliveryReport, error) {
	var reports []DeliveryReport
	path := "/messages/" + url.PathEscape(messageID) + "/reports"
	if err := c.get(ctx, path, nil, &reports); err != nil {
		return nil, fmt.Errorf("fetch delivery reports for %s: %w", messageID, err)
	}
	return reports, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	if c.auth != "" {
		req.Header.Set("Authorization", "Bearer "+c.auth)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError reports a non-2xx gateway response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gateway returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("gateway returned HTTP %d: %s", e.Code, e.Body)
}
