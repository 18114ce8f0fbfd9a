package distribution

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"drive-share/domain/distribution"
)

// ErrNoClient is returned when an operation is handed a nil drive client
var ErrNoClient = errors.New("drive client cannot be nil")

// Sweeper deletes files that outlived a product's retention window
type Sweeper struct {
	logger *slog.Logger
	now    func() time.Time
}

// SweeperOption is a functional option for configuring Sweeper
type SweeperOption func(*Sweeper)

// WithSweepClock sets the clock used to compute the cutoff (for testing)
func WithSweepClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.now = now
	}
}

// NewSweeper creates a new retention sweeper
func NewSweeper(logger *slog.Logger, opts ...SweeperOption) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sweeper{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep deletes every file owned by the caller that is not a folder and was
// created more than retentionDays days ago. A nil or non-positive retention
// skips the sweep. Listing and per-file delete failures are logged and do not
// fail the sweep.
func (s *Sweeper) Sweep(ctx context.Context, client distribution.DriveClient, retentionDays *int) (*distribution.SweepResult, error) {
	result := &distribution.SweepResult{}

	if retentionDays == nil || *retentionDays < 1 {
		s.logger.Debug("sweep_skipped", "reason", "retention below one day")
		result.Skipped = true
		return result, nil
	}
	if client == nil {
		return result, ErrNoClient
	}

	cutoff := s.now().AddDate(0, 0, -*retentionDays)

	// Unfiltered, so stale files already in the trash are purged too
	files, warn := CollectPages(ctx, client, "")
	if warn != nil {
		s.logger.Warn("sweep_listing_incomplete", "error", warn, "files", len(files))
		result.ListingIncomplete = true
	}
	result.Listed = len(files)

	for _, f := range files {
		if !isStale(f, cutoff) {
			continue
		}

		s.logger.Info("sweep_deleting", "file_id", f.ID, "name", f.Name, "created", f.CreatedTime)
		if err := client.DeleteFile(ctx, f.ID); err != nil {
			s.logger.Error("sweep_delete_failed", "file_id", f.ID, "name", f.Name, "error", err)
			result.FailedFiles = append(result.FailedFiles, distribution.DeletedFile{ID: f.ID, Name: f.Name})
			continue
		}
		result.DeletedFiles = append(result.DeletedFiles, distribution.DeletedFile{ID: f.ID, Name: f.Name})
	}

	return result, nil
}

// isStale reports whether f qualifies for deletion. Entries without a known
// creation time are kept.
func isStale(f distribution.FileInfo, cutoff time.Time) bool {
	if f.IsFolder() || !f.OwnedByMe || f.CreatedTime.IsZero() {
		return false
	}
	return f.CreatedTime.Before(cutoff)
}
