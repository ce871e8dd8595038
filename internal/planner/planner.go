// Package planner orchestrates scanning and classification into an ordered,
// conflict-free Plan. This is the one place with nontrivial policy: rule
// precedence lives in rules, but destination assignment, duplicate-name
// disambiguation and failure-mode handling live here. The planner reads the
// filesystem and never writes it.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fenilsonani/tidyplan/internal/classify"
	"github.com/fenilsonani/tidyplan/internal/plan"
	"github.com/fenilsonani/tidyplan/internal/rules"
	"github.com/fenilsonani/tidyplan/internal/scan"
)

// DefaultMaxSuffix bounds "name (N).ext" disambiguation before an operation
// is downgraded to conflict-skip.
const DefaultMaxSuffix = 100

// Options configure a single Build call. They are passed explicitly, never
// read from ambient state, so Build stays a pure function of its inputs.
type Options struct {
	// CategoryRoot is the base directory proposed destinations live under:
	// <CategoryRoot>/<category>/<filename>. Empty means the first root.
	CategoryRoot string
	// MaxDepth bounds scanning below each root (default: top level only).
	MaxDepth int
	// IncludeHidden scans dotfiles too.
	IncludeHidden bool
	// BestEffort skips unreadable roots with a summary warning instead of
	// aborting the whole plan.
	BestEffort bool
	// NoDisambiguation turns duplicate destinations straight into
	// conflict-skips instead of trying numeric suffixes.
	NoDisambiguation bool
	// MaxSuffix overrides DefaultMaxSuffix when positive.
	MaxSuffix int
}

// Build scans the root folders in the order given, classifies every file
// against the rule set and returns the finished Plan. Roots are scanned
// folder by folder with files in lexicographic name order, so identical
// inputs always produce byte-identical plans.
func Build(roots []string, set *rules.Set, opts Options) (*plan.Plan, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no root folders given")
	}
	if set == nil {
		return nil, fmt.Errorf("nil rule set")
	}

	categoryRoot := opts.CategoryRoot
	if categoryRoot == "" {
		categoryRoot = roots[0]
	}
	absCategoryRoot, err := filepath.Abs(categoryRoot)
	if err != nil {
		return nil, fmt.Errorf("category root %s: %w", categoryRoot, err)
	}

	maxSuffix := opts.MaxSuffix
	if maxSuffix <= 0 {
		maxSuffix = DefaultMaxSuffix
	}

	scanner := scan.New(scan.Options{
		MaxDepth:      opts.MaxDepth,
		IncludeHidden: opts.IncludeHidden,
	})

	var (
		descriptors  []scan.FileDescriptor
		warnings     []string
		scannedRoots []string
	)
	for _, root := range roots {
		descs, scanWarnings, err := scanner.Scan(root)
		if err != nil {
			if opts.BestEffort {
				warnings = append(warnings, fmt.Sprintf("skipped root: %v", err))
				continue
			}
			return nil, err
		}
		scannedRoots = append(scannedRoots, mustAbs(root))
		warnings = append(warnings, scanWarnings...)
		descriptors = append(descriptors, descs...)
	}

	// Local accumulator: the only mutable state of a planning run.
	assigned := make(map[string]bool)
	summary := plan.Summary{
		PerCategory: make(map[string]int),
		Warnings:    warnings,
	}
	ops := make([]plan.Operation, 0, len(descriptors))
	organized := categoryDirs(absCategoryRoot, set)

	for _, d := range descriptors {
		if underCategoryDir(d.Path, organized) {
			// Already organized from an earlier run; re-planning must not
			// shuffle files between category folders.
			continue
		}

		summary.Scanned++
		summary.TotalBytes += d.Size

		res := classify.Classify(d, set)
		if res.Verdict == plan.VerdictIgnore {
			summary.Ignored++
			ops = append(ops, plan.Operation{Source: d.Path, Verdict: plan.VerdictIgnore})
			continue
		}

		want := filepath.Join(absCategoryRoot, res.Category, d.Name)
		dest, ok := resolveConflict(want, assigned, opts.NoDisambiguation, maxSuffix)
		if !ok {
			summary.ConflictSkips++
			ops = append(ops, plan.Operation{
				Source:   d.Path,
				Category: res.Category,
				Verdict:  plan.VerdictConflictSkip,
			})
			continue
		}

		assigned[dest] = true
		summary.Moves++
		summary.PerCategory[res.Category]++
		ops = append(ops, plan.Operation{
			Source:      d.Path,
			Destination: dest,
			Category:    res.Category,
			Verdict:     plan.VerdictMove,
		})
	}

	return &plan.Plan{
		GeneratedAt: time.Now(),
		Scanned:     summary.Scanned,
		Roots:       scannedRoots,
		Operations:  ops,
		Summary:     summary,
	}, nil
}

// resolveConflict finds the smallest-suffixed destination that collides with
// neither an already-planned destination nor a pre-existing filesystem
// entry. Strictly sequential: it depends on the single global view of
// assigned destinations built up in scan order.
func resolveConflict(want string, assigned map[string]bool, noDisambiguation bool, maxSuffix int) (string, bool) {
	if free(want, assigned) {
		return want, true
	}
	if noDisambiguation {
		return "", false
	}

	dir := filepath.Dir(want)
	base := filepath.Base(want)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; i <= maxSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if free(candidate, assigned) {
			return candidate, true
		}
	}
	return "", false
}

// free reports whether a destination collides with neither planned
// operations nor anything already on disk.
func free(dest string, assigned map[string]bool) bool {
	if assigned[dest] {
		return false
	}
	_, err := os.Lstat(dest)
	return os.IsNotExist(err)
}

// categoryDirs lists every directory a finished plan would move files into.
func categoryDirs(categoryRoot string, set *rules.Set) []string {
	cats := set.Categories()
	dirs := make([]string, 0, len(cats))
	for _, cat := range cats {
		dirs = append(dirs, filepath.Join(categoryRoot, cat)+string(filepath.Separator))
	}
	return dirs
}

func underCategoryDir(path string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.HasPrefix(path, dir) {
			return true
		}
	}
	return false
}

func mustAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
