package notification

import (
	"context"
	"net/mail"
)

// Recipient represents an email recipient with name and address
type Recipient struct {
	Name    string
	Address string
}

// EmailRequest contains a rendered HTML email ready for dispatch
type EmailRequest struct {
	To       Recipient
	Subject  string
	HTMLBody string
	Product  string // Product the email is sent on behalf of
}

// Validate checks that the email request has all required fields
func (r *EmailRequest) Validate() error {
	if r.To.Address == "" {
		return ErrNoRecipient
	}
	if _, err := mail.ParseAddress(r.To.Address); err != nil {
		return ErrInvalidRecipient
	}
	if r.Subject == "" {
		return ErrNoSubject
	}
	if r.HTMLBody == "" {
		return ErrNoBody
	}
	return nil
}

// EmailSender defines the interface for sending emails
type EmailSender interface {
	Send(ctx context.Context, req *EmailRequest) error
}
