package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"drive-share/domain/notification"

	"google.golang.org/api/gmail/v1"
)

// mockGmailService is a mock implementation for testing
type mockGmailService struct {
	sentMessages []*gmail.Message
	userIDs      []string
	shouldFail   bool
	failError    error
}

func (m *mockGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.userIDs = append(m.userIDs, userID)
	m.sentMessages = append(m.sentMessages, message)
	return &gmail.Message{Id: "test-message-id"}, nil
}

func shareRequest() *notification.EmailRequest {
	return &notification.EmailRequest{
		To:       notification.Recipient{Name: "Jane Doe", Address: "jane@example.com"},
		Subject:  "report.xls - Invitation to edit",
		HTMLBody: `<p><a href="https://docs.google.com/spreadsheets/d/abc/edit">report.xls</a></p>`,
		Product:  "P1",
	}
}

func TestClient_Send(t *testing.T) {
	mock := &mockGmailService{}
	from := notification.Recipient{Name: "Reports", Address: "reports@example.com"}

	client := NewClient(from, WithGmailService(mock))

	if err := client.Send(context.Background(), shareRequest()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(mock.sentMessages) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(mock.sentMessages))
	}
	if mock.userIDs[0] != "me" {
		t.Errorf("expected user id 'me', got %q", mock.userIDs[0])
	}

	rawBytes, err := decodeBase64URL(mock.sentMessages[0].Raw)
	if err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	raw := string(rawBytes)

	checks := []string{
		"From: Reports <reports@example.com>",
		"To: Jane Doe <jane@example.com>",
		"Subject: report.xls - Invitation to edit",
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		`<a href="https://docs.google.com/spreadsheets/d/abc/edit">report.xls</a>`,
	}

	for _, check := range checks {
		if !strings.Contains(raw, check) {
			t.Errorf("message missing %q in:\n%s", check, raw)
		}
	}
	if strings.Contains(raw, "multipart") {
		t.Errorf("message should be a single HTML part:\n%s", raw)
	}
}

func TestClient_Send_BareAddress(t *testing.T) {
	mock := &mockGmailService{}
	client := NewClient(notification.Recipient{Address: "reports@example.com"}, WithGmailService(mock))

	req := shareRequest()
	req.To = notification.Recipient{Address: "jane@example.com"}

	if err := client.Send(context.Background(), req); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	rawBytes, _ := decodeBase64URL(mock.sentMessages[0].Raw)
	raw := string(rawBytes)

	if !strings.Contains(raw, "From: reports@example.com\r\n") {
		t.Errorf("expected bare From address:\n%s", raw)
	}
	if !strings.Contains(raw, "To: jane@example.com\r\n") {
		t.Errorf("expected bare To address:\n%s", raw)
	}
}

func TestClient_Send_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*notification.EmailRequest)
		wantErr error
	}{
		{
			name:    "missing recipient",
			modify:  func(r *notification.EmailRequest) { r.To = notification.Recipient{} },
			wantErr: notification.ErrNoRecipient,
		},
		{
			name:    "malformed recipient",
			modify:  func(r *notification.EmailRequest) { r.To.Address = "not-an-address" },
			wantErr: notification.ErrInvalidRecipient,
		},
		{
			name:    "missing body",
			modify:  func(r *notification.EmailRequest) { r.HTMLBody = "" },
			wantErr: notification.ErrNoBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockGmailService{}
			client := NewClient(notification.Recipient{Address: "reports@example.com"}, WithGmailService(mock))

			req := shareRequest()
			tt.modify(req)

			err := client.Send(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
			}
			if len(mock.sentMessages) != 0 {
				t.Error("invalid request should not be sent")
			}
		})
	}
}

func TestClient_Send_APIError(t *testing.T) {
	apiErr := errors.New("googleapi: Error 429: rate limit exceeded")
	mock := &mockGmailService{shouldFail: true, failError: apiErr}
	client := NewClient(notification.Recipient{Address: "reports@example.com"}, WithGmailService(mock))

	err := client.Send(context.Background(), shareRequest())
	if !errors.Is(err, notification.ErrSendFailed) {
		t.Errorf("Send() error = %v, want ErrSendFailed", err)
	}
	if !errors.Is(err, apiErr) {
		t.Errorf("Send() error = %v, should wrap the API error", err)
	}
}

// decodeBase64URL decodes a base64 URL encoded string
func decodeBase64URL(s string) ([]byte, error) {
	return base64.URLEncoding.DecodeString(s)
}
