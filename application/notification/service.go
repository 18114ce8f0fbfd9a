package notification

import (
	"context"
	"fmt"
	"log/slog"

	"drive-share/domain/distribution"
	"drive-share/domain/notification"
	"drive-share/infrastructure/resilience"
)

// TemplateSource provides the share email template of a product
type TemplateSource interface {
	EmailTemplate(ctx context.Context, product string) (string, error)
}

// Observer receives notification outcomes, e.g. for metrics
type Observer interface {
	ObserveNotification(product string, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveNotification(string, error) {}

// Service handles share link email notifications
type Service struct {
	sender    notification.EmailSender
	templates TemplateSource
	executor  *resilience.Executor
	observer  Observer
	logger    *slog.Logger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithExecutor sets the retry executor used for each email
func WithExecutor(e *resilience.Executor) Option {
	return func(s *Service) {
		s.executor = e
	}
}

// WithObserver sets the outcome observer
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new notification service
func NewService(sender notification.EmailSender, templates TemplateSource, opts ...Option) *Service {
	s := &Service{
		sender:    sender,
		templates: templates,
		observer:  noopObserver{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.executor == nil {
		s.executor = resilience.NewExecutor(resilience.DefaultConfig(), s.logger)
	}
	return s
}

// SendShareLink emails the recipient a link to the shared file.
// The template lookup, rendering and dispatch are retried together.
func (s *Service) SendShareLink(ctx context.Context, link notification.ShareLink) error {
	err := s.executor.Execute(ctx, "notify", func(ctx context.Context) error {
		return s.send(ctx, link)
	})
	s.observer.ObserveNotification(link.Product, err)
	if err != nil {
		s.logger.Error("share_email_failed", "product", link.Product, "recipient", link.Recipient, "error", err)
		return err
	}

	s.logger.Info("share_email_sent", "product", link.Product, "recipient", link.Recipient, "file", link.FileName)
	return nil
}

func (s *Service) send(ctx context.Context, link notification.ShareLink) error {
	tmpl, err := s.templates.EmailTemplate(ctx, link.Product)
	if err != nil {
		return fmt.Errorf("%w: could not send file share email: %w", distribution.ErrConfiguration, err)
	}

	data := notification.ShareTemplateData{
		FileName:     link.FileName,
		FileLink:     link.FileLink,
		FileIconLink: link.FileIconLink,
	}
	if link.DeleteAfterDays != nil {
		data.DeleteAfter = *link.DeleteAfterDays
	}

	body, err := notification.RenderShareBody(tmpl, data)
	if err != nil {
		return fmt.Errorf("%w: template for product %s: %w", distribution.ErrConfiguration, link.Product, err)
	}

	req := &notification.EmailRequest{
		To:       notification.Recipient{Address: link.Recipient},
		Subject:  notification.ShareSubject(link.FileName),
		HTMLBody: body,
		Product:  link.Product,
	}
	if err := s.sender.Send(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", distribution.ErrNotification, err)
	}
	return nil
}

// Ensure Service implements notification.ShareNotifier
var _ notification.ShareNotifier = (*Service)(nil)
