// Package ui implements the interactive plan preview: a read-only pager over
// a finished Plan. It displays proposed operations and never applies them.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/tidyplan/internal/plan"
	"github.com/fenilsonani/tidyplan/internal/ui/styles"
	"github.com/fenilsonani/tidyplan/pkg/utils"
)

// PreviewModel pages through a plan's operations.
type PreviewModel struct {
	plan     *plan.Plan
	viewport viewport.Model
	ready    bool
}

// NewPreviewModel creates a preview for a finished plan.
func NewPreviewModel(p *plan.Plan) *PreviewModel {
	return &PreviewModel{plan: p}
}

// Init implements tea.Model.
func (m *PreviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "enter":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := 4
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.renderOperations())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the preview
func (m *PreviewModel) View() string {
	if !m.ready {
		return "loading plan..."
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Plan Preview"))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf(
		"session %s · %d scanned (%s) · %d moves · %d ignored · %d conflicts",
		m.plan.SessionStamp(),
		m.plan.Summary.Scanned,
		utils.FormatBytes(m.plan.Summary.TotalBytes),
		m.plan.Summary.Moves,
		m.plan.Summary.Ignored,
		m.plan.Summary.ConflictSkips)))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ scroll · q quit · nothing is moved until an executor runs this plan"))
	return b.String()
}

// renderOperations lays out one line per operation in scan order.
func (m *PreviewModel) renderOperations() string {
	var b strings.Builder
	for _, op := range m.plan.Operations {
		switch op.Verdict {
		case plan.VerdictMove:
			b.WriteString(styles.SuccessStyle.Render("move "))
			b.WriteString(styles.FilePathStyle.Render(op.Source))
			b.WriteString(styles.MutedStyle.Render(" → "))
			b.WriteString(op.Destination)
			b.WriteString("  ")
			b.WriteString(styles.CategoryStyle.Render("[" + op.Category + "]"))
		case plan.VerdictIgnore:
			b.WriteString(styles.MutedStyle.Render("skip " + op.Source + "  [ignored]"))
		case plan.VerdictConflictSkip:
			b.WriteString(styles.WarningStyle.Render("hold " + op.Source + "  [conflict]"))
		}
		b.WriteString("\n")
	}
	if len(m.plan.Operations) == 0 {
		b.WriteString(styles.PanelStyle.Render(
			styles.MutedStyle.Render("nothing to do: the folder is already organized")))
	}
	return b.String()
}

// RunPreview opens the preview in the terminal and blocks until it exits.
func RunPreview(p *plan.Plan) error {
	program := tea.NewProgram(NewPreviewModel(p), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
