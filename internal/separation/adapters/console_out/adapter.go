// Package consoleout prints check progress and the final report as line-oriented text.
package consoleout

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

const (
	glyphError   = "❌"
	glyphWarning = "⚠️ "
	glyphSuccess = "✅"
)

// Adapter implements ports.ProgressPort and ports.ReportingPort on a writer,
// normally stdout.
type Adapter struct {
	w       io.Writer
	errorSt lipgloss.Style
	warnSt  lipgloss.Style
	okSt    lipgloss.Style
	headSt  lipgloss.Style
	plain   bool
}

// New creates a console adapter. With color false no escape sequences are written.
func New(w io.Writer, color bool) *Adapter {
	r := lipgloss.NewRenderer(w)
	return &Adapter{
		w:       w,
		errorSt: r.NewStyle().Foreground(lipgloss.Color("196")),
		warnSt:  r.NewStyle().Foreground(lipgloss.Color("214")),
		okSt:    r.NewStyle().Foreground(lipgloss.Color("34")),
		headSt:  r.NewStyle().Bold(true),
		plain:   !color,
	}
}

// FileChecking implements ports.ProgressPort.
func (a *Adapter) FileChecking(path string) {
	fmt.Fprintf(a.w, "Checking %s...\n", path)
}

// FileFailed implements ports.ProgressPort.
func (a *Adapter) FileFailed(path string, err error) {
	fmt.Fprintf(a.w, "Warning: Could not process %s: %s\n", path, err)
}

// PostReport implements ports.ReportingPort.
func (a *Adapter) PostReport(_ context.Context, report domain.Report) error {
	_, err := io.WriteString(a.w, a.Format(report))
	return err
}

// Format renders the summary block printed after all files were checked.
func (a *Adapter) Format(report domain.Report) string {
	var b strings.Builder

	b.WriteString("\nDatabases found: ")
	b.WriteString(formatFound(report.Found))
	b.WriteString("\n")

	if !report.HasIssues() {
		b.WriteString(a.style(a.okSt, glyphSuccess+" Database separation validated - no issues found"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(a.style(a.headSt, "=== Database Separation Issues Found ==="))
	b.WriteString("\n")
	for _, issue := range report.Issues {
		b.WriteString(a.FormatIssue(issue))
		b.WriteString("\n")
	}

	b.WriteString("\nEach service requires a separate database:\n")
	for _, r := range report.Policy.Required {
		fmt.Fprintf(&b, "  - %s: For %s\n", r.Name, r.Purpose)
	}
	return b.String()
}

// FormatIssue renders one issue with its severity glyph and optional hint line.
func (a *Adapter) FormatIssue(issue domain.Issue) string {
	var line string
	switch issue.Severity {
	case domain.SeverityError:
		line = a.style(a.errorSt, glyphError+" "+issue.Message)
	default:
		line = a.style(a.warnSt, glyphWarning+" "+issue.Message)
	}
	if issue.Hint != "" {
		line += "\n   " + issue.Hint
	}
	return line
}

func (a *Adapter) style(s lipgloss.Style, text string) string {
	if a.plain {
		return text
	}
	return s.Render(text)
}

func formatFound(found domain.DatabaseSet) string {
	if len(found) == 0 {
		return "(none)"
	}
	return strings.Join(found.Sorted(), ", ")
}
