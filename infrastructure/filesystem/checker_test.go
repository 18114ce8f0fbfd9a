package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChecker_Exists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.xls")
	if err := os.WriteFile(file, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	c := NewChecker()

	if !c.Exists(file) {
		t.Errorf("Exists(%q) = false, want true", file)
	}
	if c.Exists(filepath.Join(dir, "missing.xls")) {
		t.Error("Exists() = true for a missing file")
	}
	if c.Exists(dir) {
		t.Error("Exists() = true for a directory")
	}
}
