package distribution

import (
	"context"
	"fmt"
	"strconv"

	"drive-share/domain/distribution"
)

type grant struct {
	fileID string
	email  string
	notify bool
}

// mockDriveClient is an in-memory drive used by the service tests
type mockDriveClient struct {
	files    []distribution.FileInfo
	trashed  map[string]bool // IDs of files in the trash
	pageSize int

	failOnPage int // 1-based page that fails; zero never fails
	listErr    error

	deleteErrs      map[string]error
	createFolderErr error
	uploadErrs      []error // consumed one per UploadFile call
	grantErr        error

	listCalls   int
	queries     []string
	deleted     []string
	foldersMade []string
	uploads     []distribution.UploadRequest
	grants      []grant
	nextID      int
}

func (m *mockDriveClient) ListPage(ctx context.Context, query, pageToken string) (*distribution.FilePage, error) {
	m.listCalls++
	m.queries = append(m.queries, query)

	page := 1
	if pageToken != "" {
		page, _ = strconv.Atoi(pageToken)
	}
	if m.failOnPage == page {
		return nil, m.listErr
	}

	var matches []distribution.FileInfo
	for _, f := range m.files {
		if m.matches(f, query) {
			matches = append(matches, f)
		}
	}

	size := m.pageSize
	if size <= 0 {
		size = len(matches) + 1
	}
	start := (page - 1) * size
	if start > len(matches) {
		start = len(matches)
	}
	end := start + size
	next := strconv.Itoa(page + 1)
	if end >= len(matches) {
		end = len(matches)
		next = ""
	}

	return &distribution.FilePage{Files: matches[start:end], NextPageToken: next}, nil
}

// matches mimics drive search: an empty query lists everything, trash
// included, while the filtered queries leave trashed files out
func (m *mockDriveClient) matches(f distribution.FileInfo, query string) bool {
	switch {
	case query == "":
		return true
	case m.trashed[f.ID]:
		return false
	case query == "trashed = false":
		return true
	default:
		return NameQuery(f.Name) == query
	}
}

func (m *mockDriveClient) CreateFolder(ctx context.Context, name string) (*distribution.FileInfo, error) {
	if m.createFolderErr != nil {
		return nil, m.createFolderErr
	}
	m.nextID++
	folder := distribution.FileInfo{
		ID:        fmt.Sprintf("folder-%d", m.nextID),
		Name:      name,
		MimeType:  distribution.MimeTypeFolder.String(),
		OwnedByMe: true,
	}
	m.files = append(m.files, folder)
	m.foldersMade = append(m.foldersMade, name)
	return &folder, nil
}

func (m *mockDriveClient) UploadFile(ctx context.Context, req distribution.UploadRequest) (*distribution.FileInfo, error) {
	if len(m.uploadErrs) > 0 {
		err := m.uploadErrs[0]
		m.uploadErrs = m.uploadErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	m.nextID++
	id := fmt.Sprintf("file-%d", m.nextID)
	file := distribution.FileInfo{
		ID:          id,
		Name:        req.FileName,
		MimeType:    req.MimeType.String(),
		CreatedTime: req.CreatedTime,
		OwnedByMe:   true,
		WebViewLink: "https://drive.google.com/file/d/" + id + "/view",
		IconLink:    "https://drive-thirdparty.googleusercontent.com/16/type/" + id,
		Parents:     []string{req.FolderID},
	}
	m.files = append(m.files, file)
	m.uploads = append(m.uploads, req)
	return &file, nil
}

func (m *mockDriveClient) DeleteFile(ctx context.Context, fileID string) error {
	if err := m.deleteErrs[fileID]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, fileID)
	return nil
}

func (m *mockDriveClient) GrantWriter(ctx context.Context, fileID, email string, notify bool) error {
	if m.grantErr != nil {
		return m.grantErr
	}
	m.grants = append(m.grants, grant{fileID: fileID, email: email, notify: notify})
	return nil
}

// mockFactory hands out the same client, failing the first calls listed in errs
type mockFactory struct {
	client *mockDriveClient
	errs   []error
	calls  int
}

func (f *mockFactory) ForProduct(ctx context.Context, product string) (distribution.DriveClient, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.client, nil
}
