//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	googledrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
)

const fakePageSize = 2

type grantRecord struct {
	fileID string
	email  string
	notify bool
}

// fakeDriveService is an in-memory drive implementing drive.DriveService
type fakeDriveService struct {
	files        []*googledrive.File
	grants       []grantRecord
	deleted      []string
	calls        int
	failUploads  int
	failListings bool
	nextID       int
}

func (f *fakeDriveService) ListFiles(ctx context.Context, query, fields, pageToken string) (*googledrive.FileList, error) {
	f.calls++
	if f.failListings {
		return nil, errors.New("googleapi: Error 500: backend error")
	}

	name, byName := nameFromQuery(query)
	var matches []*googledrive.File
	for _, file := range f.files {
		if !byName || file.Name == name {
			matches = append(matches, file)
		}
	}

	start, _ := strconv.Atoi(pageToken)
	if start > len(matches) {
		start = len(matches)
	}
	end := start + fakePageSize
	next := strconv.Itoa(end)
	if end >= len(matches) {
		end = len(matches)
		next = ""
	}
	return &googledrive.FileList{Files: matches[start:end], NextPageToken: next}, nil
}

func (f *fakeDriveService) CreateFile(ctx context.Context, file *googledrive.File, localPath, fields string) (*googledrive.File, error) {
	f.calls++
	if localPath != "" && f.failUploads > 0 {
		f.failUploads--
		return nil, errors.New("googleapi: Error 503: service unavailable")
	}

	f.nextID++
	id := fmt.Sprintf("id-%d", f.nextID)
	created := file.CreatedTime
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}
	stored := &googledrive.File{
		Id:          id,
		Name:        file.Name,
		MimeType:    file.MimeType,
		Parents:     file.Parents,
		CreatedTime: created,
		OwnedByMe:   true,
		WebViewLink: "https://drive.google.com/file/d/" + id + "/view",
		IconLink:    "https://drive-thirdparty.googleusercontent.com/16/type/" + file.MimeType,
	}
	f.files = append(f.files, stored)
	return stored, nil
}

func (f *fakeDriveService) DeleteFile(ctx context.Context, fileID string) error {
	f.calls++
	for i, file := range f.files {
		if file.Id == fileID {
			f.files = append(f.files[:i], f.files[i+1:]...)
			f.deleted = append(f.deleted, fileID)
			return nil
		}
	}
	return fmt.Errorf("googleapi: Error 404: file %s not found", fileID)
}

func (f *fakeDriveService) CreatePermission(ctx context.Context, fileID string, permission *googledrive.Permission, sendNotification bool) error {
	f.calls++
	f.grants = append(f.grants, grantRecord{fileID: fileID, email: permission.EmailAddress, notify: sendNotification})
	return nil
}

func (f *fakeDriveService) byName(name string) *googledrive.File {
	for _, file := range f.files {
		if file.Name == name {
			return file
		}
	}
	return nil
}

// nameFromQuery extracts the name of a "name = '...'" drive query
func nameFromQuery(query string) (string, bool) {
	const prefix = "name = '"
	if !strings.HasPrefix(query, prefix) {
		return "", false
	}
	rest := query[len(prefix):]
	end := strings.LastIndex(rest, "' and trashed")
	if end < 0 {
		return "", false
	}
	return strings.NewReplacer(`\'`, `'`, `\\`, `\`).Replace(rest[:end]), true
}

// fakeGmailService records messages implementing gmail.GmailService
type fakeGmailService struct {
	sent  []*gmail.Message
	calls int
	down  bool
}

func (g *fakeGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	g.calls++
	if g.down {
		return nil, errors.New("googleapi: Error 503: backend unavailable")
	}
	g.sent = append(g.sent, message)
	return &gmail.Message{Id: fmt.Sprintf("msg-%d", len(g.sent))}, nil
}
