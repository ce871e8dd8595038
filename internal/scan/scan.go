// Package scan enumerates candidate files in root folders and produces the
// immutable descriptors the planner classifies. Scanning is read-only:
// directory listings and stat calls, nothing else.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileDescriptor describes one regular file found during a scan. Descriptors
// are value objects: created here, never mutated downstream.
type FileDescriptor struct {
	Path    string // absolute path
	Name    string // base name
	Ext     string // lower-cased extension including the dot, "" if none
	Size    int64
	ModTime time.Time
}

// Error reports an inaccessible root folder. Whether it aborts the whole
// plan or is downgraded to a warning is the planner's call.
type Error struct {
	Root string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options control scan depth and hidden-file handling. The zero value scans
// the top level only, skips hidden files and never follows symlinks.
type Options struct {
	// MaxDepth bounds recursion below each root. 0 or 1 means the root's
	// immediate entries only.
	MaxDepth int
	// IncludeHidden also emits dotfiles.
	IncludeHidden bool
}

// Scanner lists files under root folders. It holds no state between calls:
// the filesystem may change between scans, so nothing is cached.
type Scanner struct {
	opts Options
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = 1
	}
	return &Scanner{opts: opts}
}

// Scan lists the files of a single root folder in lexicographic name order.
// Within each directory files come before subdirectory contents, and
// subdirectories are visited in name order, so repeated scans of an
// unchanged tree yield identical sequences. Unreadable subdirectories below
// the root do not abort the scan; they are reported as warnings so no skip
// goes unrecorded.
func (s *Scanner) Scan(root string) ([]FileDescriptor, []string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, &Error{Root: root, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, nil, &Error{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, nil, &Error{Root: root, Err: fmt.Errorf("not a directory")}
	}

	var (
		out      []FileDescriptor
		warnings []string
	)
	if err := s.walk(abs, 1, &out, &warnings); err != nil {
		return nil, nil, &Error{Root: root, Err: err}
	}
	return out, warnings, nil
}

func (s *Scanner) walk(dir string, depth int, out *[]FileDescriptor, warnings *[]string) error {
	entries, err := os.ReadDir(dir) // sorted by filename
	if err != nil {
		if depth == 1 {
			return err
		}
		// Unreadable subdirectory: skip the subtree, not the root, but leave
		// a trace for the summary.
		*warnings = append(*warnings, fmt.Sprintf("skipped subdirectory %s: %v", dir, err))
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			// Symlinks are never followed; avoids cycles and doubles.
			continue
		}
		if entry.IsDir() {
			if depth < s.opts.MaxDepth {
				subdirs = append(subdirs, name)
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Raced deletion between list and stat; the file is gone.
			continue
		}

		full := filepath.Join(dir, name)
		*out = append(*out, FileDescriptor{
			Path:    full,
			Name:    name,
			Ext:     strings.ToLower(filepath.Ext(name)),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	for _, sub := range subdirs {
		if err := s.walk(filepath.Join(dir, sub), depth+1, out, warnings); err != nil {
			return err
		}
	}
	return nil
}
