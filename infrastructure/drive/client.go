package drive

import (
	"context"
	"fmt"
	"os"
	"time"

	"drive-share/domain/distribution"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const (
	listFields = "nextPageToken, files(id, name, mimeType, createdTime, ownedByMe)"
	fileFields = "id, name, mimeType, createdTime, ownedByMe, webViewLink, iconLink, parents"
)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	ListFiles(ctx context.Context, query, fields, pageToken string) (*drive.FileList, error)
	CreateFile(ctx context.Context, file *drive.File, localPath, fields string) (*drive.File, error)
	DeleteFile(ctx context.Context, fileID string) error
	CreatePermission(ctx context.Context, fileID string, permission *drive.Permission, sendNotification bool) error
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// ListFiles lists one page of files matching the query
func (s *GoogleDriveService) ListFiles(ctx context.Context, query, fields, pageToken string) (*drive.FileList, error) {
	call := s.service.Files.List().
		Fields(googleapi.Field(fields)).
		Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

// CreateFile creates a file, streaming the content of localPath when it is set
func (s *GoogleDriveService) CreateFile(ctx context.Context, file *drive.File, localPath, fields string) (*drive.File, error) {
	call := s.service.Files.Create(file).
		Fields(googleapi.Field(fields)).
		Context(ctx)

	if localPath != "" {
		f, err := os.Open(localPath)
		if err != nil {
			return nil, fmt.Errorf("unable to open %s: %w", localPath, err)
		}
		defer f.Close()
		call = call.Media(f)
	}

	return call.Do()
}

// DeleteFile permanently deletes a file
func (s *GoogleDriveService) DeleteFile(ctx context.Context, fileID string) error {
	return s.service.Files.Delete(fileID).Context(ctx).Do()
}

// CreatePermission adds a permission to a file or folder
func (s *GoogleDriveService) CreatePermission(ctx context.Context, fileID string, permission *drive.Permission, sendNotification bool) error {
	_, err := s.service.Permissions.Create(fileID, permission).
		SendNotificationEmail(sendNotification).
		Context(ctx).
		Do()
	return err
}

// Client implements distribution.DriveClient using Google Drive API
type Client struct {
	driveService DriveService
}

// NewClient creates a drive client on top of an authenticated drive service
func NewClient(svc DriveService) *Client {
	return &Client{driveService: svc}
}

// ListPage implements distribution.DriveClient
func (c *Client) ListPage(ctx context.Context, query, pageToken string) (*distribution.FilePage, error) {
	list, err := c.driveService.ListFiles(ctx, query, listFields, pageToken)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list files: %w", distribution.ErrRemoteService, err)
	}

	page := &distribution.FilePage{NextPageToken: list.NextPageToken}
	for _, f := range list.Files {
		page.Files = append(page.Files, toFileInfo(f))
	}
	return page, nil
}

// CreateFolder implements distribution.DriveClient
func (c *Client) CreateFolder(ctx context.Context, name string) (*distribution.FileInfo, error) {
	folder := &drive.File{
		Name:     name,
		MimeType: distribution.MimeTypeFolder.String(),
	}

	created, err := c.driveService.CreateFile(ctx, folder, "", fileFields)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create folder %q: %w", distribution.ErrRemoteService, name, err)
	}

	info := toFileInfo(created)
	return &info, nil
}

// UploadFile implements distribution.DriveClient
func (c *Client) UploadFile(ctx context.Context, req distribution.UploadRequest) (*distribution.FileInfo, error) {
	file := &drive.File{
		Name:     req.FileName,
		MimeType: req.MimeType.String(),
	}
	if req.FolderID != "" {
		file.Parents = []string{req.FolderID}
	}
	if !req.CreatedTime.IsZero() {
		file.CreatedTime = req.CreatedTime.UTC().Format(time.RFC3339)
	}

	created, err := c.driveService.CreateFile(ctx, file, req.LocalPath, fileFields)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to upload %s: %w", distribution.ErrRemoteService, req.FileName, err)
	}

	info := toFileInfo(created)
	return &info, nil
}

// DeleteFile implements distribution.DriveClient
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.driveService.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("%w: failed to delete file %s: %w", distribution.ErrRemoteService, fileID, err)
	}
	return nil
}

// GrantWriter implements distribution.DriveClient
func (c *Client) GrantWriter(ctx context.Context, fileID, email string, notify bool) error {
	permission := &drive.Permission{
		Type:         "user",
		Role:         "writer",
		EmailAddress: email,
	}

	if err := c.driveService.CreatePermission(ctx, fileID, permission, notify); err != nil {
		return fmt.Errorf("%w: failed to share %s with %s: %w", distribution.ErrRemoteService, fileID, email, err)
	}
	return nil
}

func toFileInfo(f *drive.File) distribution.FileInfo {
	return distribution.FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		CreatedTime: parseTime(f.CreatedTime),
		OwnedByMe:   f.OwnedByMe,
		WebViewLink: f.WebViewLink,
		IconLink:    f.IconLink,
		Parents:     f.Parents,
	}
}

// parseTime parses a Google Drive timestamp string
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure Client implements distribution.DriveClient
var _ distribution.DriveClient = (*Client)(nil)
