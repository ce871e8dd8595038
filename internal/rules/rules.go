// Package rules holds the compiled, read-only rule set used to classify
// files during planning: extension-to-category mappings, pattern rules with
// explicit priorities, and ignore rules evaluated before everything else.
package rules

import (
	"path"
	"sort"
	"strings"
)

// Kind identifies a rule variant. The set is closed: extension, pattern and
// ignore rules are the only kinds the planner knows about.
type Kind int

const (
	KindExtension Kind = iota
	KindPattern
	KindIgnore
)

// Scope controls what an ignore pattern is matched against.
type Scope int

const (
	ScopeFilename Scope = iota // base name only
	ScopePath                  // full slash-separated path
)

// String returns the scope name as it appears in rules files.
func (s Scope) String() string {
	if s == ScopePath {
		return "path"
	}
	return "filename"
}

// Rule is the tagged variant shared by all three rule kinds. Only the fields
// relevant to the Kind are set.
type Rule struct {
	Kind       Kind
	Extensions []string // extension rules: lower-cased, leading dot
	Pattern    string   // pattern and ignore rules: lower-cased glob
	Category   string
	Priority   int
	Scope      Scope
	seq        int // declaration order, ties broken first-declared-wins
}

// Decision is the outcome of resolving a single file against the rule set.
type Decision struct {
	Category string
	Ignored  bool
}

// Set is an immutable, compiled rule collection. Build one with Compile or
// Load; zero values are not usable.
type Set struct {
	ignores  []Rule
	patterns []Rule            // sorted by priority desc, then declaration order
	extMap   map[string]string // ".tar.gz" -> category
	extKeys  []string          // extension suffixes, longest first
	fallback string
}

// DefaultCategory returns the fallback category for unmatched files.
func (s *Set) DefaultCategory() string {
	return s.fallback
}

// Categories returns the distinct target categories in deterministic order,
// with the fallback category last.
func (s *Set) Categories() []string {
	seen := map[string]bool{}
	var out []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, cat := range s.extMap {
		add(cat)
	}
	for _, r := range s.patterns {
		add(r.Category)
	}
	sort.Strings(out)
	add(s.fallback)
	return out
}

// Len reports how many rules the set carries across all kinds.
func (s *Set) Len() int {
	return len(s.ignores) + len(s.patterns) + len(s.extMap)
}

// compile builds the internal indexes from a flat declaration-ordered rule
// list. Rules keep their declaration index so priority ties stay stable.
func compile(rs []Rule, fallback string) *Set {
	s := &Set{
		extMap:   make(map[string]string),
		fallback: fallback,
	}

	for i, r := range rs {
		r.seq = i
		switch r.Kind {
		case KindIgnore:
			s.ignores = append(s.ignores, r)
		case KindPattern:
			s.patterns = append(s.patterns, r)
		case KindExtension:
			for _, ext := range r.Extensions {
				s.extMap[ext] = r.Category
			}
		}
	}

	sort.SliceStable(s.patterns, func(i, j int) bool {
		if s.patterns[i].Priority != s.patterns[j].Priority {
			return s.patterns[i].Priority > s.patterns[j].Priority
		}
		return s.patterns[i].seq < s.patterns[j].seq
	})

	for ext := range s.extMap {
		s.extKeys = append(s.extKeys, ext)
	}
	// Longest suffix first so ".tar.gz" wins over ".gz".
	sort.Slice(s.extKeys, func(i, j int) bool {
		if len(s.extKeys[i]) != len(s.extKeys[j]) {
			return len(s.extKeys[i]) > len(s.extKeys[j])
		}
		return s.extKeys[i] < s.extKeys[j]
	})

	return s
}

// Resolve classifies a single file. Ignore rules are checked first; then
// pattern rules in priority order; then extension rules with longest-suffix
// matching; finally the default category. Matching is case-insensitive.
func (s *Set) Resolve(fullPath, name string) Decision {
	nameLower := strings.ToLower(name)
	pathLower := strings.ToLower(toSlash(fullPath))

	for _, r := range s.ignores {
		subject := nameLower
		if r.Scope == ScopePath {
			subject = pathLower
		}
		if globMatch(r.Pattern, subject) {
			return Decision{Ignored: true}
		}
	}

	for _, r := range s.patterns {
		if globMatch(r.Pattern, nameLower) {
			return Decision{Category: r.Category}
		}
	}

	for _, ext := range s.extKeys {
		if strings.HasSuffix(nameLower, ext) && len(nameLower) > len(ext) {
			return Decision{Category: s.extMap[ext]}
		}
	}

	return Decision{Category: s.fallback}
}

// globMatch matches a lower-cased glob against a lower-cased subject.
// Patterns follow path.Match syntax; '*' does not cross '/' so path-scoped
// patterns must spell out each path element they cover. A pattern that fails
// to compile was rejected at load time, so errors here cannot occur.
func globMatch(pattern, subject string) bool {
	ok, err := path.Match(pattern, subject)
	return err == nil && ok
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
