package distribution

import "errors"

var (
	// ErrInvalidInput is returned when the local file cannot be uploaded as given.
	// It is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned when a required product property is missing or unreadable
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication is returned when the drive credentials cannot be turned into a session
	ErrAuthentication = errors.New("authentication error")

	// ErrRemoteService is returned when a Google Drive API call fails
	ErrRemoteService = errors.New("remote service error")

	// ErrNotification is returned when the share email could not be dispatched
	ErrNotification = errors.New("notification error")
)
