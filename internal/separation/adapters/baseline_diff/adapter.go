// Package baselinediff compares the current findings with a recorded baseline.
package baselinediff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

// Adapter implements ports.ReportingPort by printing a unified diff between
// a baseline file and the current issue lines. It never changes the outcome
// of the check.
type Adapter struct {
	path string
	w    io.Writer
}

// New creates a baseline diff adapter reading the baseline at path.
func New(path string, w io.Writer) *Adapter {
	return &Adapter{path: path, w: w}
}

// PostReport implements ports.ReportingPort.
func (a *Adapter) PostReport(_ context.Context, report domain.Report) error {
	baseline, err := os.ReadFile(a.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading baseline: %w", err)
	}

	diff, err := ComputeDiff(a.path, "current", string(baseline), report.IssueLines())
	if err != nil {
		return err
	}
	if diff == "" {
		_, err = fmt.Fprintf(a.w, "\nNo drift from baseline %s\n", a.path)
		return err
	}
	_, err = fmt.Fprintf(a.w, "\nDrift from baseline %s:\n%s\n", a.path, diff)
	return err
}

// ComputeDiff returns a unified diff of baseline against current, or an
// empty string when they hold the same lines.
func ComputeDiff(baseName, currentName, baseline string, current []string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(baseline),
		B:        difflib.SplitLines(joinLines(current)),
		FromFile: baseName,
		ToFile:   currentName,
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("computing baseline diff: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Writer implements ports.ReportingPort by recording the current issue
// lines as the new baseline.
type Writer struct {
	path string
}

// NewWriter creates a baseline writer for path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// PostReport implements ports.ReportingPort.
func (w *Writer) PostReport(_ context.Context, report domain.Report) error {
	if err := os.WriteFile(w.path, []byte(joinLines(report.IssueLines())), 0o644); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	return nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
