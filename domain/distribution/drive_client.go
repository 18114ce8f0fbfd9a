package distribution

import (
	"context"
	"time"
)

// DriveClient defines the interface for Google Drive operations
// This is a port that can be implemented by different infrastructure adapters
type DriveClient interface {
	// ListPage fetches one page of files matching query.
	// An empty pageToken requests the first page.
	ListPage(ctx context.Context, query, pageToken string) (*FilePage, error)

	// CreateFolder creates a folder with the given name at the drive root
	CreateFolder(ctx context.Context, name string) (*FileInfo, error)

	// UploadFile uploads a local file with the metadata in req
	UploadFile(ctx context.Context, req UploadRequest) (*FileInfo, error)

	// DeleteFile deletes a file permanently
	DeleteFile(ctx context.Context, fileID string) error

	// GrantWriter gives email writer access to a file or folder
	GrantWriter(ctx context.Context, fileID, email string, notify bool) error
}

// ClientFactory builds an authenticated DriveClient for a product
type ClientFactory interface {
	ForProduct(ctx context.Context, product string) (DriveClient, error)
}

// FileChecker verifies local files before they are uploaded
type FileChecker interface {
	Exists(path string) bool
}

// FileInfo represents metadata about a file in Google Drive
type FileInfo struct {
	ID          string
	Name        string
	MimeType    string
	CreatedTime time.Time
	OwnedByMe   bool
	WebViewLink string
	IconLink    string
	Parents     []string
}

// IsFolder reports whether the entry is a folder rather than a regular file
func (f FileInfo) IsFolder() bool {
	return f.MimeType == MimeTypeFolder.String()
}

// FilePage is one page of a file listing
type FilePage struct {
	Files         []FileInfo
	NextPageToken string
}
