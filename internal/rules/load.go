package rules

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFallbackCategory is used when a rules file does not name one.
const DefaultFallbackCategory = "Other"

// Built-in ignore patterns: partial downloads, editor droppings and OS
// litter. A rules file can opt out with no_defaults: true.
var builtinIgnores = []Rule{
	{Kind: KindIgnore, Pattern: "*.crdownload", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: "*.part", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: "*.download", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: "*.tmp", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: "*.swp", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: ".ds_store", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: "thumbs.db", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: "desktop.ini", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: "~$*", Scope: ScopeFilename},
	{Kind: KindIgnore, Pattern: ".~lock.*#", Scope: ScopeFilename},
}

// LoadError reports a malformed or unreadable rules definition. It is fatal:
// planning never proceeds with a partial rule set.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rules file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// File is the on-disk rules document. YAML and JSON are both accepted: the
// yaml.v3 decoder parses either.
type File struct {
	DefaultCategory string              `yaml:"default_category"`
	NoDefaults      bool                `yaml:"no_defaults"`
	Categories      map[string][]string `yaml:"categories"`
	Patterns        []PatternEntry      `yaml:"patterns"`
	Ignore          []IgnoreEntry       `yaml:"ignore"`
}

// PatternEntry is one user-defined pattern rule.
type PatternEntry struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
	Priority int    `yaml:"priority"`
}

// IgnoreEntry is one user-defined ignore rule.
type IgnoreEntry struct {
	Pattern string `yaml:"pattern"`
	Scope   string `yaml:"scope"` // "filename" (default) or "path"
}

// Load reads and compiles a rules file. Any failure surfaces as a *LoadError
// before scanning begins.
func Load(rulesPath string) (*Set, error) {
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, &LoadError{Path: rulesPath, Err: err}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Path: rulesPath, Err: fmt.Errorf("parse: %w", err)}
	}

	set, err := Compile(&f)
	if err != nil {
		return nil, &LoadError{Path: rulesPath, Err: err}
	}
	return set, nil
}

// Compile validates a rules document and builds an immutable Set from it.
func Compile(f *File) (*Set, error) {
	fallback := f.DefaultCategory
	if fallback == "" {
		fallback = DefaultFallbackCategory
	}

	var rs []Rule

	// Ignore rules first in declaration order, user rules ahead of the
	// built-in defaults so users can shadow them.
	for i, ig := range f.Ignore {
		pattern := strings.ToLower(strings.TrimSpace(ig.Pattern))
		if pattern == "" {
			return nil, fmt.Errorf("ignore rule %d: empty pattern", i)
		}
		if err := checkGlob(pattern); err != nil {
			return nil, fmt.Errorf("ignore rule %d: %w", i, err)
		}
		scope, err := parseScope(ig.Scope)
		if err != nil {
			return nil, fmt.Errorf("ignore rule %d: %w", i, err)
		}
		rs = append(rs, Rule{Kind: KindIgnore, Pattern: pattern, Scope: scope})
	}
	if !f.NoDefaults {
		rs = append(rs, builtinIgnores...)
	}

	for i, p := range f.Patterns {
		pattern := strings.ToLower(strings.TrimSpace(p.Pattern))
		if pattern == "" {
			return nil, fmt.Errorf("pattern rule %d: empty pattern", i)
		}
		if err := checkGlob(pattern); err != nil {
			return nil, fmt.Errorf("pattern rule %d: %w", i, err)
		}
		if p.Category == "" {
			return nil, fmt.Errorf("pattern rule %d (%s): missing category", i, p.Pattern)
		}
		rs = append(rs, Rule{
			Kind:     KindPattern,
			Pattern:  pattern,
			Category: p.Category,
			Priority: p.Priority,
		})
	}

	// Extension declarations are iterated in sorted category order so
	// duplicate-extension errors are deterministic.
	seen := map[string]string{}
	cats := make([]string, 0, len(f.Categories))
	for cat := range f.Categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		if cat == "" {
			return nil, fmt.Errorf("empty category name in extension map")
		}
		exts := make([]string, 0, len(f.Categories[cat]))
		for _, raw := range f.Categories[cat] {
			ext := normalizeExt(raw)
			if ext == "." {
				return nil, fmt.Errorf("category %s: empty extension", cat)
			}
			if prev, dup := seen[ext]; dup && prev != cat {
				return nil, fmt.Errorf("extension %s mapped to both %s and %s", ext, prev, cat)
			}
			seen[ext] = cat
			exts = append(exts, ext)
		}
		rs = append(rs, Rule{Kind: KindExtension, Extensions: exts, Category: cat})
	}

	return compile(rs, fallback), nil
}

// normalizeExt lower-cases an extension and guarantees a leading dot, so
// "JPG", ".jpg" and "tar.gz" all compare consistently.
func normalizeExt(raw string) string {
	ext := strings.ToLower(strings.TrimSpace(raw))
	ext = strings.TrimPrefix(ext, ".")
	return "." + ext
}

func parseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "filename", "name":
		return ScopeFilename, nil
	case "path":
		return ScopePath, nil
	default:
		return ScopeFilename, fmt.Errorf("unknown scope %q (want filename or path)", raw)
	}
}

func checkGlob(pattern string) error {
	if _, err := path.Match(pattern, "probe"); err != nil {
		return fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	return nil
}

// Default returns the rule set used when no rules file is given: built-in
// ignore patterns plus a stock extension map for common download types.
func Default() *Set {
	set, err := Compile(&File{
		Categories: map[string][]string{
			"Images":      {"jpg", "jpeg", "png", "gif", "webp", "svg", "heic"},
			"Videos":      {"mp4", "mkv", "mov", "avi", "webm"},
			"Audios":      {"mp3", "wav", "flac", "m4a", "ogg"},
			"Documents":   {"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "md", "csv"},
			"Archives":    {"zip", "rar", "7z", "tar", "gz", "tar.gz", "tgz", "bz2"},
			"Executables": {"exe", "msi", "dmg", "pkg", "deb", "rpm", "appimage"},
			"Fonts":       {"ttf", "otf", "woff", "woff2"},
			"Code":        {"py", "go", "js", "ts", "sh", "rb", "json", "yaml", "yml"},
		},
	})
	if err != nil {
		// The stock document is static; failing to compile it is a bug.
		panic(err)
	}
	return set
}
