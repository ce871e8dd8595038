// Package testutil provides test helpers and fixtures for tidyplan tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture holds a scratch folder tree for planner tests.
type Fixture struct {
	T       *testing.T
	RootDir string // root temp directory (auto-cleaned)

	// Standard test directories
	Downloads string
	Desktop   string
}

// NewFixture creates a new test fixture with standard directory structure
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	root := t.TempDir()

	f := &Fixture{
		T:         t,
		RootDir:   root,
		Downloads: filepath.Join(root, "Downloads"),
		Desktop:   filepath.Join(root, "Desktop"),
	}

	for _, dir := range []string{f.Downloads, f.Desktop} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return f
}

// CreateFile creates a file with specified content and returns its path
func (f *Fixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileWithAge creates a file and sets its modification time to the past
func (f *Fixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)

	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateDownload creates a file in the Downloads directory
func (f *Fixture) CreateDownload(name string, size int) string {
	f.T.Helper()
	return f.CreateFile(filepath.Join("Downloads", name), make([]byte, size))
}

// CreateDir creates a directory and returns its path
func (f *Fixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateSymlink creates a symlink at relPath pointing at target.
func (f *Fixture) CreateSymlink(relPath, target string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Fatalf("failed to create symlink %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteRules writes a rules file (JSON or YAML text) and returns its path.
func (f *Fixture) WriteRules(name, content string) string {
	f.T.Helper()
	return f.CreateFile(filepath.Join("rules", name), []byte(content))
}
