package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"drive-share/domain/product"

	"gopkg.in/yaml.v3"
)

// propertyDocument is the on-disk layout of the property file
type propertyDocument struct {
	Products map[string]map[string]string `yaml:"products"`
}

// PropertyFile is a YAML backed product.PropertyStore.
// Every change is written back to disk immediately.
type PropertyFile struct {
	mu   sync.RWMutex
	path string
	doc  propertyDocument
}

// LoadProperties opens the property file at path. A missing file yields an
// empty store that is created on the first Set.
func LoadProperties(path string) (*PropertyFile, error) {
	p := &PropertyFile{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		p.doc.Products = make(map[string]map[string]string)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read property file: %w", err)
	}

	if err := yaml.Unmarshal(data, &p.doc); err != nil {
		return nil, fmt.Errorf("failed to parse property file %s: %w", path, err)
	}
	if p.doc.Products == nil {
		p.doc.Products = make(map[string]map[string]string)
	}

	return p, nil
}

// Property implements product.PropertyStore
func (p *PropertyFile) Property(ctx context.Context, productID, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.doc.Products[productID][key]
	if !ok {
		return "", fmt.Errorf("%w: %s for product %s", product.ErrPropertyNotFound, key, productID)
	}
	return v, nil
}

// Set stores value under key for a product and saves the file
func (p *PropertyFile) Set(productID, key, value string) error {
	productID = strings.TrimSpace(productID)
	key = strings.TrimSpace(key)
	if productID == "" || key == "" {
		return fmt.Errorf("product and key are required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	props, ok := p.doc.Products[productID]
	if !ok {
		props = make(map[string]string)
		p.doc.Products[productID] = props
	}
	props[key] = value

	return p.save()
}

// Unset removes key from a product and saves the file
func (p *PropertyFile) Unset(productID, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	props := p.doc.Products[productID]
	if _, ok := props[key]; !ok {
		return fmt.Errorf("%w: %s for product %s", product.ErrPropertyNotFound, key, productID)
	}

	delete(props, key)
	if len(props) == 0 {
		delete(p.doc.Products, productID)
	}

	return p.save()
}

// List returns a copy of every property of a product
func (p *PropertyFile) List(productID string) map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]string, len(p.doc.Products[productID]))
	for k, v := range p.doc.Products[productID] {
		result[k] = v
	}
	return result
}

// Products returns the configured product ids in sorted order
func (p *PropertyFile) Products() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.doc.Products))
	for id := range p.doc.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// save writes the document to disk. Caller must hold the write lock.
func (p *PropertyFile) save() error {
	data, err := yaml.Marshal(&p.doc)
	if err != nil {
		return fmt.Errorf("failed to serialize properties: %w", err)
	}

	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create property directory: %w", err)
		}
	}

	// Service account keys live in this file
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write property file: %w", err)
	}
	return nil
}

// Ensure PropertyFile implements product.PropertyStore
var _ product.PropertyStore = (*PropertyFile)(nil)
