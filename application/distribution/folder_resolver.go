package distribution

import (
	"context"
	"fmt"
	"log/slog"

	"drive-share/domain/distribution"
)

// FolderResolver finds the upload folder of a product by name, creating it on first use
type FolderResolver struct {
	collaborator string
	logger       *slog.Logger
}

// NewFolderResolver creates a resolver. collaborator, when set, is granted
// writer access on every folder the resolver creates.
func NewFolderResolver(collaborator string, logger *slog.Logger) *FolderResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FolderResolver{
		collaborator: collaborator,
		logger:       logger,
	}
}

// Resolve returns the id of the folder called name as a single-element parent list.
// When several folders share the name the first one listed is used.
func (r *FolderResolver) Resolve(ctx context.Context, client distribution.DriveClient, name string) ([]string, error) {
	if client == nil {
		return nil, ErrNoClient
	}

	files, warn := CollectPages(ctx, client, NameQuery(name))
	if warn != nil {
		r.logger.Warn("folder_listing_incomplete", "folder", name, "error", warn)
	}

	for _, f := range files {
		if f.Name == name && f.IsFolder() {
			r.logger.Debug("folder_found", "folder", name, "folder_id", f.ID)
			return []string{f.ID}, nil
		}
	}

	folder, err := client.CreateFolder(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	r.logger.Info("folder_created", "folder", name, "folder_id", folder.ID)

	if r.collaborator == "" {
		r.logger.Debug("folder_collaborator_skipped", "folder_id", folder.ID)
		return []string{folder.ID}, nil
	}
	if err := client.GrantWriter(ctx, folder.ID, r.collaborator, true); err != nil {
		return nil, fmt.Errorf("failed to share folder %q with %s: %w", name, r.collaborator, err)
	}

	return []string{folder.ID}, nil
}
