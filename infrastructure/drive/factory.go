package drive

import (
	"context"
	"fmt"
	"strings"

	"drive-share/domain/distribution"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// CredentialSource provides the service account key of a product
type CredentialSource interface {
	Credentials(ctx context.Context, product string) ([]byte, error)
}

// ServiceBuilder turns a service account key into an authenticated drive service
type ServiceBuilder func(ctx context.Context, credentials []byte, userAgent string) (DriveService, error)

// Factory builds a drive client per product from its service account key.
// Every call authenticates again and gets its own HTTP transport.
type Factory struct {
	credentials CredentialSource
	build       ServiceBuilder
	userAgent   string
}

// FactoryOption is a functional option for configuring Factory
type FactoryOption func(*Factory)

// WithServiceBuilder sets a custom service builder (for testing)
func WithServiceBuilder(b ServiceBuilder) FactoryOption {
	return func(f *Factory) {
		f.build = b
	}
}

// WithApplicationName sets the application name reported to Google
func WithApplicationName(name string) FactoryOption {
	return func(f *Factory) {
		f.userAgent = name
	}
}

// NewFactory creates a new drive client factory
func NewFactory(credentials CredentialSource, opts ...FactoryOption) *Factory {
	f := &Factory{
		credentials: credentials,
		build:       newGoogleDriveService,
		userAgent:   "drive-share",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ForProduct implements distribution.ClientFactory
func (f *Factory) ForProduct(ctx context.Context, product string) (distribution.DriveClient, error) {
	blob, err := f.credentials.Credentials(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", distribution.ErrConfiguration, err)
	}
	if strings.TrimSpace(string(blob)) == "" {
		return nil, fmt.Errorf("%w: empty drive credentials for product %s", distribution.ErrConfiguration, product)
	}

	svc, err := f.build(ctx, blob, f.userAgent)
	if err != nil {
		return nil, err
	}
	return NewClient(svc), nil
}

// newGoogleDriveService creates a production Google Drive service from a service account key
func newGoogleDriveService(ctx context.Context, credentials []byte, userAgent string) (DriveService, error) {
	config, err := google.JWTConfigFromJSON(credentials, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse credentials: %w", distribution.ErrAuthentication, err)
	}

	client := config.Client(ctx)
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client), option.WithUserAgent(userAgent))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create drive service: %w", distribution.ErrAuthentication, err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// Ensure Factory implements distribution.ClientFactory
var _ distribution.ClientFactory = (*Factory)(nil)
