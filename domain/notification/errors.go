package notification

import "errors"

var (
	// ErrNoRecipient is returned when the email has no To address
	ErrNoRecipient = errors.New("recipient is required")

	// ErrInvalidRecipient is returned when the recipient address is malformed
	ErrInvalidRecipient = errors.New("recipient must be a valid email address")

	// ErrNoSubject is returned when the subject line is empty
	ErrNoSubject = errors.New("subject is required")

	// ErrNoBody is returned when the rendered HTML body is empty
	ErrNoBody = errors.New("email body is required")

	// ErrNoFileLink is returned when a share email is built without a link to the file
	ErrNoFileLink = errors.New("file link is required")

	// ErrRecipientNotFound is returned when a recipient lookup fails
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrAmbiguousRecipient is returned when multiple recipients match a query
	ErrAmbiguousRecipient = errors.New("multiple recipients match query")

	// ErrSendFailed is returned when the email fails to send
	ErrSendFailed = errors.New("failed to send email")
)
