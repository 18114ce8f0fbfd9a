package filesystem

import (
	"os"

	"drive-share/domain/distribution"
)

// Checker implements distribution.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if path is an existing regular file
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure Checker implements distribution.FileChecker
var _ distribution.FileChecker = (*Checker)(nil)
