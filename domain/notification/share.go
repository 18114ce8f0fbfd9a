package notification

import "context"

// ShareLink describes an uploaded file to announce to its recipient
type ShareLink struct {
	Recipient       string
	Product         string
	FileName        string
	FileLink        string
	FileIconLink    string
	DeleteAfterDays *int // Retention of the product, nil when files are kept
}

// ShareNotifier tells a recipient that a file was shared with them
type ShareNotifier interface {
	SendShareLink(ctx context.Context, link ShareLink) error
}
