package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingProperty is returned when a required property is absent or blank
var ErrMissingProperty = errors.New("required product property is missing")

// ErrInvalidProperty is returned when a property value cannot be interpreted
var ErrInvalidProperty = errors.New("product property has an invalid value")

// Settings reads the typed drive settings of a product from a PropertyStore
type Settings struct {
	store PropertyStore
}

// NewSettings creates settings backed by store
func NewSettings(store PropertyStore) *Settings {
	return &Settings{store: store}
}

// Credentials returns the service account JSON blob for the product
func (s *Settings) Credentials(ctx context.Context, product string) ([]byte, error) {
	v, err := s.required(ctx, product, KeyDriveCredentials)
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

// FolderName returns the name of the drive folder uploads go into
func (s *Settings) FolderName(ctx context.Context, product string) (string, error) {
	return s.required(ctx, product, KeyFolderName)
}

// EmailTemplate returns the HTML template of the share email
func (s *Settings) EmailTemplate(ctx context.Context, product string) (string, error) {
	return s.required(ctx, product, KeyEmailTemplate)
}

// RetentionDays returns how many days uploaded files are kept.
// Nil means the property is not set and no cleanup should happen.
func (s *Settings) RetentionDays(ctx context.Context, product string) (*int, error) {
	v, err := s.optional(ctx, product, KeyRetentionDays)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, nil
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q for %s on product %s", ErrInvalidProperty, v, KeyRetentionDays, product)
	}
	return &days, nil
}

func (s *Settings) required(ctx context.Context, product, key string) (string, error) {
	v, err := s.optional(ctx, product, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%w: could not find property '%s' for product %s", ErrMissingProperty, key, product)
	}
	return v, nil
}

func (s *Settings) optional(ctx context.Context, product, key string) (string, error) {
	v, err := s.store.Property(ctx, product, key)
	if errors.Is(err, ErrPropertyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read property '%s' for product %s: %w", key, product, err)
	}
	return strings.TrimSpace(v), nil
}
