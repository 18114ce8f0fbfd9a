package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"drive-share/domain/distribution"
	"drive-share/domain/notification"
	"drive-share/domain/product"
)

// mockSender records emails and fails the first failures calls
type mockSender struct {
	sent     []*notification.EmailRequest
	calls    int
	failures int
	failErr  error
}

func (m *mockSender) Send(ctx context.Context, req *notification.EmailRequest) error {
	m.calls++
	if m.calls <= m.failures {
		return m.failErr
	}
	m.sent = append(m.sent, req)
	return nil
}

type mockTemplates struct {
	template string
	err      error
	calls    int
}

func (m *mockTemplates) EmailTemplate(ctx context.Context, product string) (string, error) {
	m.calls++
	return m.template, m.err
}

type countingObserver struct {
	outcomes []error
}

func (o *countingObserver) ObserveNotification(product string, err error) {
	o.outcomes = append(o.outcomes, err)
}

const shareTemplate = `<a href="{{.fileLink}}">{{.fileName}}</a>{{if .deleteAfter}} kept {{.deleteAfter}} days{{end}}`

func testLink() notification.ShareLink {
	days := 7
	return notification.ShareLink{
		Recipient:       "jane@example.com",
		Product:         "P1",
		FileName:        "report.xls",
		FileLink:        "https://docs.google.com/spreadsheets/d/abc/edit",
		FileIconLink:    "https://drive-thirdparty.googleusercontent.com/16/type/sheet",
		DeleteAfterDays: &days,
	}
}

func TestService_SendShareLink(t *testing.T) {
	sender := &mockSender{}
	observer := &countingObserver{}
	svc := NewService(sender, &mockTemplates{template: shareTemplate}, WithObserver(observer))

	if err := svc.SendShareLink(context.Background(), testLink()); err != nil {
		t.Fatalf("SendShareLink() error = %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	req := sender.sent[0]
	if req.To.Address != "jane@example.com" {
		t.Errorf("To = %q, want jane@example.com", req.To.Address)
	}
	if req.Subject != "report.xls - Invitation to edit" {
		t.Errorf("Subject = %q", req.Subject)
	}
	if !strings.Contains(req.HTMLBody, `<a href="https://docs.google.com/spreadsheets/d/abc/edit">report.xls</a>`) {
		t.Errorf("body missing link: %s", req.HTMLBody)
	}
	if !strings.Contains(req.HTMLBody, "kept 7 days") {
		t.Errorf("body missing retention: %s", req.HTMLBody)
	}
	if len(observer.outcomes) != 1 || observer.outcomes[0] != nil {
		t.Errorf("observer outcomes = %v, want one success", observer.outcomes)
	}
}

func TestService_SendShareLink_OmitsNonPositiveRetention(t *testing.T) {
	sender := &mockSender{}
	svc := NewService(sender, &mockTemplates{template: shareTemplate})

	link := testLink()
	zero := 0
	link.DeleteAfterDays = &zero
	if err := svc.SendShareLink(context.Background(), link); err != nil {
		t.Fatalf("SendShareLink() error = %v", err)
	}
	if strings.Contains(sender.sent[0].HTMLBody, "kept") {
		t.Errorf("body should not mention retention: %s", sender.sent[0].HTMLBody)
	}
}

func TestService_SendShareLink_RetriesTransientFailure(t *testing.T) {
	sender := &mockSender{failures: 2, failErr: errors.New("smtp timeout")}
	svc := NewService(sender, &mockTemplates{template: shareTemplate})

	if err := svc.SendShareLink(context.Background(), testLink()); err != nil {
		t.Fatalf("SendShareLink() error = %v", err)
	}
	if sender.calls != 3 {
		t.Errorf("expected 3 send calls, got %d", sender.calls)
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected exactly 1 delivered email, got %d", len(sender.sent))
	}
}

func TestService_SendShareLink_PersistentFailure(t *testing.T) {
	sender := &mockSender{failures: 10, failErr: errors.New("quota exceeded")}
	observer := &countingObserver{}
	svc := NewService(sender, &mockTemplates{template: shareTemplate}, WithObserver(observer))

	err := svc.SendShareLink(context.Background(), testLink())
	if !errors.Is(err, distribution.ErrNotification) {
		t.Fatalf("SendShareLink() error = %v, want ErrNotification", err)
	}
	if sender.calls != 3 {
		t.Errorf("expected 3 send attempts, got %d", sender.calls)
	}
	if len(observer.outcomes) != 1 || observer.outcomes[0] == nil {
		t.Errorf("observer outcomes = %v, want one failure", observer.outcomes)
	}
}

func TestService_SendShareLink_MissingTemplate(t *testing.T) {
	sender := &mockSender{}
	templates := &mockTemplates{err: product.ErrMissingProperty}
	svc := NewService(sender, templates)

	err := svc.SendShareLink(context.Background(), testLink())
	if !errors.Is(err, distribution.ErrConfiguration) {
		t.Fatalf("SendShareLink() error = %v, want ErrConfiguration", err)
	}
	if !errors.Is(err, product.ErrMissingProperty) {
		t.Errorf("SendShareLink() error = %v, should wrap ErrMissingProperty", err)
	}
	if templates.calls != 3 {
		t.Errorf("template should be looked up on every attempt, got %d lookups", templates.calls)
	}
	if sender.calls != 0 {
		t.Errorf("expected no send calls, got %d", sender.calls)
	}
}
