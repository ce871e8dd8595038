// Package plan defines the immutable output of a planning run: an ordered
// list of proposed operations plus aggregate summary counts. Plans are built
// once, serialized or displayed, and discarded; nothing in this package
// touches the filesystem except SaveToFile.
package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Verdict is the classification outcome for a single scanned file.
type Verdict string

const (
	VerdictMove         Verdict = "move"
	VerdictIgnore       Verdict = "ignore"
	VerdictConflictSkip Verdict = "conflict-skip"
)

// Operation is one proposed action for one scanned file. Destination is
// empty for ignored files.
type Operation struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination,omitempty"`
	Category    string  `json:"category,omitempty"`
	Verdict     Verdict `json:"verdict"`
}

// Summary aggregates a plan. The identity
// sum(PerCategory) + Ignored + ConflictSkips == Scanned always holds for
// plans built by the planner.
type Summary struct {
	Scanned       int            `json:"scanned"`
	Moves         int            `json:"moves"`
	Ignored       int            `json:"ignored"`
	ConflictSkips int            `json:"conflict_skips"`
	TotalBytes    int64          `json:"total_bytes"`
	PerCategory   map[string]int `json:"per_category"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// Plan is the finished, ordered result of one planning run. Operations keep
// scan order; the struct is never mutated after Build returns it. Scanned is
// duplicated at the top level so consumers reading only the plan header can
// tell how many files the run covered.
type Plan struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Scanned     int         `json:"scanned"`
	Roots       []string    `json:"roots"`
	Operations  []Operation `json:"operations"`
	Summary     Summary     `json:"summary"`
}

// SessionStamp formats the plan timestamp the way session artifacts are
// named, e.g. "2026-08-26_14-02-33".
func (p *Plan) SessionStamp() string {
	return p.GeneratedAt.Format("2006-01-02_15-04-05")
}

// CategoriesSorted returns the summary's category names in stable order.
func (p *Plan) CategoriesSorted() []string {
	cats := make([]string, 0, len(p.Summary.PerCategory))
	for cat := range p.Summary.PerCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// MarshalIndent renders the plan as the stable JSON contract consumed by the
// CLI, the GUI and any future executor.
func (p *Plan) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// SaveToFile writes the JSON form of the plan to path.
func (p *Plan) SaveToFile(path string) error {
	data, err := p.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// DefaultOutputPath is where a plan lands when the caller gives no output
// file: a session-stamped JSON file in the system temp directory.
func (p *Plan) DefaultOutputPath() string {
	return fmt.Sprintf("%s/tidyplan-%s.json", os.TempDir(), p.SessionStamp())
}
