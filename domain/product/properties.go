package product

import (
	"context"
	"errors"
)

// Property keys read from the per-product property store
const (
	KeyDriveCredentials = "service.google.drive.secret.JSON"
	KeyRetentionDays    = "service.google.drive.keep.days"
	KeyFolderName       = "service.google.drive.folder.name"
	KeyEmailTemplate    = "service.google.drive.email.template"
)

// ErrPropertyNotFound is returned by a PropertyStore when the product has no value for a key
var ErrPropertyNotFound = errors.New("property not found")

// PropertyStore looks up configuration strings scoped to a product.
// This is a port that can be implemented by different infrastructure adapters
type PropertyStore interface {
	// Property returns the value stored for key under product.
	// A missing value is reported as ErrPropertyNotFound.
	Property(ctx context.Context, product, key string) (string, error)
}
