package distribution

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"drive-share/domain/distribution"
	"drive-share/domain/notification"
	"drive-share/infrastructure/filesystem"
	"drive-share/infrastructure/resilience"
)

// ProductSettings provides the per-product values the upload workflow reads
type ProductSettings interface {
	FolderName(ctx context.Context, product string) (string, error)
	RetentionDays(ctx context.Context, product string) (*int, error)
}

// Observer receives workflow outcomes, e.g. for metrics
type Observer interface {
	ObserveUpload(product string, attempts int, err error)
	ObserveSweep(product string, deleted, failed int)
}

type noopObserver struct{}

func (noopObserver) ObserveUpload(string, int, error) {}
func (noopObserver) ObserveSweep(string, int, int) {}

// UploadService uploads a file into a product's drive folder, shares it with
// a recipient and sends them the link
type UploadService struct {
	factory  distribution.ClientFactory
	settings ProductSettings
	notifier notification.ShareNotifier
	sweeper  *Sweeper
	resolver *FolderResolver
	checker  distribution.FileChecker
	executor *resilience.Executor
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// UploadOption is a functional option for configuring UploadService
type UploadOption func(*UploadService)

// WithSweeper sets the retention sweeper
func WithSweeper(s *Sweeper) UploadOption {
	return func(u *UploadService) {
		u.sweeper = s
	}
}

// WithFolderResolver sets the folder resolver
func WithFolderResolver(r *FolderResolver) UploadOption {
	return func(u *UploadService) {
		u.resolver = r
	}
}

// WithFileChecker sets a custom local file checker (for testing)
func WithFileChecker(c distribution.FileChecker) UploadOption {
	return func(u *UploadService) {
		u.checker = c
	}
}

// WithExecutor sets the retry executor wrapped around each pipeline attempt
func WithExecutor(e *resilience.Executor) UploadOption {
	return func(u *UploadService) {
		u.executor = e
	}
}

// WithObserver sets the outcome observer
func WithObserver(o Observer) UploadOption {
	return func(u *UploadService) {
		u.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) UploadOption {
	return func(u *UploadService) {
		u.logger = l
	}
}

// WithClock sets the clock stamped on uploaded files (for testing)
func WithClock(now func() time.Time) UploadOption {
	return func(u *UploadService) {
		u.now = now
	}
}

// NewUploadService creates a new upload service
func NewUploadService(
	factory distribution.ClientFactory,
	settings ProductSettings,
	notifier notification.ShareNotifier,
	opts ...UploadOption,
) *UploadService {
	u := &UploadService{
		factory:  factory,
		settings: settings,
		notifier: notifier,
		checker:  filesystem.NewChecker(),
		observer: noopObserver{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.sweeper == nil {
		u.sweeper = NewSweeper(u.logger)
	}
	if u.resolver == nil {
		u.resolver = NewFolderResolver("", u.logger)
	}
	if u.executor == nil {
		u.executor = resilience.NewExecutor(resilience.DefaultConfig(), u.logger)
	}

	return u
}

// Upload sends localPath to the product's drive folder, grants recipient
// write access and emails them the link.
//
// Building the client, sweeping, resolving the folder, uploading and sharing
// are retried together as one unit. The email is sent afterwards with its own
// retries; if it keeps failing the error is returned and the uploaded file
// stays in place.
func (s *UploadService) Upload(ctx context.Context, localPath, recipient, product string) (*distribution.UploadResult, error) {
	fileName := filepath.Base(localPath)
	if err := s.validate(localPath, fileName, recipient); err != nil {
		return nil, err
	}
	mimeType := distribution.ClassifyMimeType(fileName)

	var retention *int
	result, attempts, err := resilience.Run(ctx, s.executor, "upload", func(ctx context.Context) (*distribution.UploadResult, error) {
		r, days, err := s.uploadOnce(ctx, localPath, fileName, mimeType, recipient, product)
		retention = days
		return r, err
	})
	s.observer.ObserveUpload(product, attempts, err)
	if err != nil {
		s.logger.Error("upload_failed", "product", product, "file", fileName, "attempts", attempts, "error", err)
		return nil, err
	}
	result.Attempts = attempts

	s.logger.Info("upload_complete",
		"product", product,
		"file_id", result.FileID,
		"folder_id", result.FolderID,
		"attempts", attempts,
	)

	err = s.notifier.SendShareLink(ctx, notification.ShareLink{
		Recipient:       recipient,
		Product:         product,
		FileName:        result.FileName,
		FileLink:        result.WebViewLink,
		FileIconLink:    result.IconLink,
		DeleteAfterDays: retention,
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *UploadService) validate(localPath, fileName, recipient string) error {
	if localPath == "" || !s.checker.Exists(localPath) {
		return fmt.Errorf("%w: file does not exist: %s", distribution.ErrInvalidInput, localPath)
	}
	if !distribution.HasExtension(fileName) {
		return fmt.Errorf("%w: the file %q does not appear to have a file extension", distribution.ErrInvalidInput, fileName)
	}
	if recipient == "" {
		return fmt.Errorf("%w: recipient email is required", distribution.ErrInvalidInput)
	}
	return nil
}

// uploadOnce is a single attempt of the pipeline. It also returns the
// retention it read so the email can mention it.
func (s *UploadService) uploadOnce(
	ctx context.Context,
	localPath, fileName string,
	mimeType distribution.MimeType,
	recipient, product string,
) (*distribution.UploadResult, *int, error) {
	client, err := s.factory.ForProduct(ctx, product)
	if err != nil {
		return nil, nil, err
	}

	days, sweep, err := s.sweep(ctx, client, product)
	if err != nil {
		return nil, days, err
	}

	folderID, err := s.folder(ctx, client, product)
	if err != nil {
		return nil, days, err
	}

	file, err := client.UploadFile(ctx, distribution.UploadRequest{
		LocalPath:   localPath,
		FileName:    fileName,
		FolderID:    folderID,
		MimeType:    mimeType,
		CreatedTime: s.now(),
	})
	if err != nil {
		return nil, days, fmt.Errorf("failed to upload %s: %w", fileName, err)
	}
	s.logger.Info("file_uploaded", "product", product, "file_id", file.ID)

	if err := client.GrantWriter(ctx, file.ID, recipient, false); err != nil {
		return nil, days, fmt.Errorf("failed to share %s with %s: %w", fileName, recipient, err)
	}

	return &distribution.UploadResult{
		FileID:      file.ID,
		FileName:    file.Name,
		FolderID:    folderID,
		WebViewLink: file.WebViewLink,
		IconLink:    file.IconLink,
		Sweep:       *sweep,
	}, days, nil
}

// Cleanup runs the retention sweep for a product on its own
func (s *UploadService) Cleanup(ctx context.Context, product string) (*distribution.SweepResult, error) {
	client, err := s.factory.ForProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	_, result, err := s.sweep(ctx, client, product)
	return result, err
}

// EnsureFolder resolves, creating if needed, the upload folder of a product
func (s *UploadService) EnsureFolder(ctx context.Context, product string) (string, error) {
	client, err := s.factory.ForProduct(ctx, product)
	if err != nil {
		return "", err
	}
	return s.folder(ctx, client, product)
}

func (s *UploadService) sweep(ctx context.Context, client distribution.DriveClient, product string) (*int, *distribution.SweepResult, error) {
	days, err := s.settings.RetentionDays(ctx, product)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", distribution.ErrConfiguration, err)
	}

	result, err := s.sweeper.Sweep(ctx, client, days)
	if err != nil {
		return days, nil, fmt.Errorf("cleanup failed: %w", err)
	}
	s.observer.ObserveSweep(product, len(result.DeletedFiles), len(result.FailedFiles))

	return days, result, nil
}

func (s *UploadService) folder(ctx context.Context, client distribution.DriveClient, product string) (string, error) {
	name, err := s.settings.FolderName(ctx, product)
	if err != nil {
		return "", fmt.Errorf("%w: could not upload files: %w", distribution.ErrConfiguration, err)
	}

	parents, err := s.resolver.Resolve(ctx, client, name)
	if err != nil {
		return "", err
	}
	return parents[0], nil
}
