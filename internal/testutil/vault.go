// Package testutil provides reusable test utilities for autofolder tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
	dirs  []string
	home  string // config and state directory for RunCLI
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the vault.
// The path is relative to the vault root and uses forward slashes.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithDir adds an empty folder to the vault.
func (v *TestVault) WithDir(path string) *TestVault {
	v.dirs = append(v.dirs, path)
	return v
}

// WithSettings writes .autofolder/settings.yaml.
func (v *TestVault) WithSettings(yaml string) *TestVault {
	v.files[".autofolder/settings.yaml"] = yaml
	return v
}

// Build creates the vault directory and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()

	for _, dir := range v.dirs {
		full := v.abs(dir)
		if err := os.MkdirAll(full, 0o755); err != nil {
			v.t.Fatalf("failed to create directory %s: %v", full, err)
		}
	}
	for path, content := range v.files {
		v.WriteFile(path, content)
	}

	return v
}

// WriteFile writes a file to the vault, creating directories as needed.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	fullPath := v.abs(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the vault.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	fullPath := v.abs(relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file or folder exists in the vault.
func (v *TestVault) FileExists(relPath string) bool {
	v.t.Helper()
	_, err := os.Stat(v.abs(relPath))
	return err == nil
}

func (v *TestVault) abs(relPath string) string {
	return filepath.Join(v.Path, filepath.FromSlash(relPath))
}
