// Package reporter renders a finished Plan for humans and machines.
package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/fenilsonani/tidyplan/internal/plan"
	"github.com/fenilsonani/tidyplan/internal/ui/styles"
	"github.com/fenilsonani/tidyplan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// ParseFormat maps a CLI flag value onto an OutputFormat, defaulting to the
// summary view.
func ParseFormat(s string) OutputFormat {
	switch s {
	case "table":
		return FormatTable
	case "json":
		return FormatJSON
	case "yaml":
		return FormatYAML
	default:
		return FormatSummary
	}
}

// Reporter handles plan rendering
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the plan in the reporter's format.
func (r *Reporter) Report(p *plan.Plan) error {
	switch r.format {
	case FormatSummary:
		return r.reportSummary(p)
	case FormatTable:
		return r.reportTable(p)
	case FormatJSON:
		return r.reportJSON(p)
	case FormatYAML:
		return r.reportYAML(p)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary renders the aggregate counts with the shared theme.
func (r *Reporter) reportSummary(p *plan.Plan) error {
	fmt.Fprintln(r.writer, styles.TitleStyle.Render("Plan Summary"))
	fmt.Fprintf(r.writer, "Session: %s\n", p.SessionStamp())
	fmt.Fprintf(r.writer, "Scanned: %d files (%s)\n", p.Summary.Scanned, utils.FormatBytes(p.Summary.TotalBytes))
	fmt.Fprintf(r.writer, "Moves proposed: %s\n", styles.BoldStyle.Render(fmt.Sprintf("%d", p.Summary.Moves)))
	fmt.Fprintf(r.writer, "Ignored: %d\n", p.Summary.Ignored)
	if p.Summary.ConflictSkips > 0 {
		fmt.Fprintln(r.writer, styles.ErrorStyle.Render(
			fmt.Sprintf("Conflict-skipped: %d", p.Summary.ConflictSkips)))
	}

	if len(p.Summary.PerCategory) > 0 {
		fmt.Fprintln(r.writer, "\nBreakdown by category:")
		for _, cat := range p.CategoriesSorted() {
			fmt.Fprintf(r.writer, "  %s: %d\n",
				styles.CategoryStyle.Render(cat), p.Summary.PerCategory[cat])
		}
	}

	for _, w := range p.Summary.Warnings {
		fmt.Fprintln(r.writer, styles.WarningStyle.Render("warning: "+w))
	}

	return nil
}

// reportTable lists every operation, one row per scanned file.
func (r *Reporter) reportTable(p *plan.Plan) error {
	fmt.Fprintf(r.writer, "%-10s | %-50s | %-15s | %s\n", "Verdict", "Source", "Category", "Destination")

	for _, op := range p.Operations {
		fmt.Fprintf(r.writer, "%-10s | %-50s | %-15s | %s\n",
			op.Verdict,
			truncateLeft(op.Source, 50),
			op.Category,
			op.Destination)
	}

	fmt.Fprintf(r.writer, "\nTotal: %d scanned, %d moves, %d ignored, %d conflict-skipped\n",
		p.Summary.Scanned, p.Summary.Moves, p.Summary.Ignored, p.Summary.ConflictSkips)

	return nil
}

// reportJSON emits the plan's stable JSON contract.
func (r *Reporter) reportJSON(p *plan.Plan) error {
	data, err := p.MarshalIndent()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.writer, "%s\n", data)
	return err
}

// reportYAML mirrors the JSON contract in YAML.
func (r *Reporter) reportYAML(p *plan.Plan) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(p)
}

// SaveToFile saves the rendered plan to a file
func SaveToFile(p *plan.Plan, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.Report(p)
}

func truncateLeft(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
