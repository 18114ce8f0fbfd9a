package distribution

import "time"

// UploadRequest contains the parameters needed to upload a file to Google Drive
type UploadRequest struct {
	LocalPath   string    // Full path to the local file
	FileName    string    // Target filename in Google Drive
	FolderID    string    // Parent folder ID in Google Drive
	MimeType    MimeType  // Drive MIME type of the file
	CreatedTime time.Time // Creation timestamp recorded on the remote file
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	FileID      string      // Google Drive file ID
	FileName    string      // Name of the uploaded file
	FolderID    string      // Folder the file was placed in
	WebViewLink string      // Link sent to the recipient
	IconLink    string      // Icon shown next to the link
	Attempts    int         // Pipeline attempts it took to upload
	Sweep       SweepResult // Cleanup done before the upload
}
