package distribution

import (
	"context"
	"fmt"
	"strings"

	"drive-share/domain/distribution"
)

// CollectPages pages through every file matching query.
// A failing page stops the listing: the files gathered so far are returned
// together with a non-nil warning describing why the listing is incomplete.
func CollectPages(ctx context.Context, client distribution.DriveClient, query string) ([]distribution.FileInfo, error) {
	var files []distribution.FileInfo
	pageToken := ""

	for {
		page, err := client.ListPage(ctx, query, pageToken)
		if err != nil {
			return files, fmt.Errorf("listing stopped after %d files: %w", len(files), err)
		}
		files = append(files, page.Files...)

		if page.NextPageToken == "" || page.NextPageToken == pageToken {
			return files, nil
		}
		pageToken = page.NextPageToken
	}
}

// NameQuery returns a drive search query matching entries named exactly name
func NameQuery(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name = '%s' and trashed = false", escaped)
}
