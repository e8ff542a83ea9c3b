package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mastermerge/internal/merge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))
	nothingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(10)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// RenderSummary formats the outcome of a merge run for the console.
func RenderSummary(s *merge.Summary) string {
	var b strings.Builder

	title := "Merge complete"
	if s.DryRun {
		title = "Dry run"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(labelStyle.Render("Master") + filepath.Base(s.Master) + " [" + s.Sheet + "]\n")
	b.WriteString(labelStyle.Render("Files") + fmt.Sprintf("%d", len(s.Files)) + "\n")
	b.WriteString(labelStyle.Render("Rows") + fmt.Sprintf("%d", s.Appended()) + "\n")

	if len(s.Files) > 0 {
		b.WriteString("\n")
	}
	for _, f := range s.Files {
		b.WriteString(fileLine(f) + "\n")
	}

	if failed := s.Failed(); failed > 0 {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("%d file(s) failed, see log for details", failed)))
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func fileLine(f merge.FileResult) string {
	name := filepath.Base(f.Path)
	switch {
	case f.Err != nil:
		return errorStyle.Render("✗ "+name) + "  " + f.Err.Error()
	case f.Appended > 0:
		return addedStyle.Render("✓ "+name) + fmt.Sprintf("  +%d rows → %s", f.Appended, filepath.Base(f.Renamed))
	default:
		return nothingStyle.Render("· "+name) + "  nothing to add → " + filepath.Base(f.Renamed)
	}
}

// RenderPlan formats what a run would pick up.
func RenderPlan(p *merge.Plan) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pending merge") + "\n")
	b.WriteString(labelStyle.Render("Master") + p.Master + "\n")
	b.WriteString(labelStyle.Render("Sheet") + p.Sheet + "\n")
	b.WriteString(labelStyle.Render("Inputs") + fmt.Sprintf("%d", len(p.Inputs)) + "\n")

	for _, r := range p.Reports {
		line := fmt.Sprintf("  %s  [%s] %d rows", filepath.Base(r.Path), r.Sheet, r.Rows)
		if len(r.Missing) > 0 {
			line += "  " + errorStyle.Render("missing headers: "+strings.Join(r.Missing, ", "))
		}
		b.WriteString(line + "\n")
	}
	for _, path := range p.Inputs {
		if err, ok := p.Errors[path]; ok {
			b.WriteString("  " + errorStyle.Render("✗ "+filepath.Base(path)) + "  " + err.Error() + "\n")
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
