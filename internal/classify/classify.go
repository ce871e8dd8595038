// Package classify maps a scanned file to a verdict and target category.
// It is a thin seam between the planner and the rule set so future
// classifiers (content sniffing, say) can slot in without touching the
// planner's contract.
package classify

import (
	"github.com/fenilsonani/tidyplan/internal/plan"
	"github.com/fenilsonani/tidyplan/internal/rules"
	"github.com/fenilsonani/tidyplan/internal/scan"
)

// Result pairs the verdict with the category it resolved to. Category is
// empty when the file is ignored.
type Result struct {
	Category string
	Verdict  plan.Verdict
}

// Classify applies the rule set to one descriptor. Pure: no I/O, no failure
// modes beyond what Set.Resolve defines (which has none).
func Classify(d scan.FileDescriptor, set *rules.Set) Result {
	decision := set.Resolve(d.Path, d.Name)
	if decision.Ignored {
		return Result{Verdict: plan.VerdictIgnore}
	}
	return Result{Category: decision.Category, Verdict: plan.VerdictMove}
}
