package scan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fenilsonani/tidyplan/internal/testutil"
)

func names(descs []FileDescriptor) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Name
	}
	return out
}

func TestScanLexicographicOrder(t *testing.T) {
	f := testutil.NewFixture(t)
	// Created out of order on purpose.
	f.CreateDownload("zebra.txt", 10)
	f.CreateDownload("alpha.txt", 10)
	f.CreateDownload("mango.txt", 10)

	s := New(Options{})
	descs, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := []string{"alpha.txt", "mango.txt", "zebra.txt"}
	got := names(descs)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanDeterministic(t *testing.T) {
	f := testutil.NewFixture(t)
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		f.CreateDownload(name, 5)
	}

	s := New(Options{})
	first, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("scan lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("descriptor %d differs between scans", i)
		}
	}
}

func TestScanTopLevelOnlyByDefault(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDownload("top.txt", 5)
	f.CreateFile(filepath.Join("Downloads", "sub", "nested.txt"), []byte("x"))

	s := New(Options{})
	descs, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(descs) != 1 || descs[0].Name != "top.txt" {
		t.Errorf("default scan descended into subdirectories: %v", names(descs))
	}
}

func TestScanBoundedDepth(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDownload("top.txt", 5)
	f.CreateFile(filepath.Join("Downloads", "sub", "nested.txt"), []byte("x"))
	f.CreateFile(filepath.Join("Downloads", "sub", "deeper", "far.txt"), []byte("x"))

	s := New(Options{MaxDepth: 2})
	descs, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	got := names(descs)
	want := []string{"top.txt", "nested.txt"}
	if len(got) != len(want) {
		t.Fatalf("depth 2 scan = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanSkipsHiddenFiles(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDownload(".hidden.txt", 5)
	f.CreateDownload("visible.txt", 5)

	s := New(Options{})
	descs, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(descs) != 1 || descs[0].Name != "visible.txt" {
		t.Errorf("hidden file not skipped: %v", names(descs))
	}

	s = New(Options{IncludeHidden: true})
	descs, _, err = s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(descs) != 2 {
		t.Errorf("IncludeHidden scan = %v, want both files", names(descs))
	}
}

func TestScanSkipsSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	real := f.CreateDownload("real.txt", 5)
	f.CreateSymlink(filepath.Join("Downloads", "link.txt"), real)
	f.CreateSymlink(filepath.Join("Downloads", "broken.txt"), "/nonexistent/target")

	s := New(Options{})
	descs, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(descs) != 1 || descs[0].Name != "real.txt" {
		t.Errorf("symlinks not skipped: %v", names(descs))
	}
}

func TestScanDescriptorFields(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFileWithAge(filepath.Join("Downloads", "Photo.JPG"), make([]byte, 321), 24*time.Hour)

	s := New(Options{})
	descs, _, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(descs) != 1 {
		t.Fatalf("got %d descriptors, want 1", len(descs))
	}

	d := descs[0]
	if d.Path != path {
		t.Errorf("Path = %q, want %q", d.Path, path)
	}
	if d.Name != "Photo.JPG" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Ext != ".jpg" {
		t.Errorf("Ext = %q, want .jpg (lower-cased)", d.Ext)
	}
	if d.Size != 321 {
		t.Errorf("Size = %d, want 321", d.Size)
	}
	if time.Since(d.ModTime) < 23*time.Hour {
		t.Errorf("ModTime not preserved: %v", d.ModTime)
	}
}

func TestScanMissingRoot(t *testing.T) {
	s := New(Options{})
	_, _, err := s.Scan("/nonexistent/folder/12345")

	var scanErr *Error
	if !errors.As(err, &scanErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if scanErr.Root != "/nonexistent/folder/12345" {
		t.Errorf("Error.Root = %q", scanErr.Root)
	}
}

func TestScanRootIsFile(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateDownload("file.txt", 5)

	s := New(Options{})
	_, _, err := s.Scan(path)

	var scanErr *Error
	if !errors.As(err, &scanErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
}

func TestScanWarnsOnUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root; directory permissions are not enforced")
	}

	f := testutil.NewFixture(t)
	f.CreateDownload("top.txt", 5)
	f.CreateFile(filepath.Join("Downloads", "locked", "hidden.txt"), []byte("x"))

	locked := filepath.Join(f.Downloads, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	s := New(Options{MaxDepth: 2})
	descs, warnings, err := s.Scan(f.Downloads)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(descs) != 1 || descs[0].Name != "top.txt" {
		t.Errorf("descriptors = %v, want only top.txt", names(descs))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "locked") {
		t.Errorf("warnings = %v, want one mentioning the skipped subdirectory", warnings)
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	f := testutil.NewFixture(t)

	s := New(Options{})
	descs, _, err := s.Scan(f.Desktop)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(descs) != 0 {
		t.Errorf("expected no descriptors, got %v", names(descs))
	}
}
