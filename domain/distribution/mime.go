package distribution

import "strings"

// MimeType is the Google Drive MIME classifier of a remote file
type MimeType string

// MIME types understood by the upload workflow
const (
	MimeTypeFolder   MimeType = "application/vnd.google-apps.folder"
	MimeTypeDocument MimeType = "application/vnd.google-apps.document"
	MimeTypeSheets   MimeType = "application/vnd.google-apps.spreadsheet"
	MimeTypeUnknown  MimeType = "application/vnd.google-apps.unknown"
)

// String returns the raw MIME type value
func (m MimeType) String() string {
	return string(m)
}

// ClassifyMimeType picks the drive MIME type for a local file name.
// Spreadsheet wins over document when both markers are present; anything
// else is MimeTypeUnknown rather than an error.
func ClassifyMimeType(fileName string) MimeType {
	switch {
	case strings.Contains(fileName, ".xls"):
		return MimeTypeSheets
	case strings.Contains(fileName, ".doc"):
		return MimeTypeDocument
	default:
		return MimeTypeUnknown
	}
}

// HasExtension reports whether name carries a "." and so can be classified at all
func HasExtension(fileName string) bool {
	return strings.Contains(fileName, ".")
}
