package baselinediff

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

func reportWith(issues ...domain.Issue) domain.Report {
	return domain.Report{Policy: domain.DefaultPolicy(), Issues: issues}
}

func TestComputeDiff_Identical(t *testing.T) {
	lines := []string{"warning: Missing separate database for: kratos"}
	diff, err := ComputeDiff("baseline", "current", lines[0]+"\n", lines)
	if err != nil {
		t.Fatalf("ComputeDiff() error = %v", err)
	}
	if diff != "" {
		t.Errorf("ComputeDiff() = %q, want empty for identical input", diff)
	}
}

func TestComputeDiff_NewIssue(t *testing.T) {
	current := []string{
		"warning: Missing separate database for: kratos",
		"error: Default 'postgres' database used in charts/api/values.yaml",
	}
	diff, err := ComputeDiff("baseline", "current", current[0]+"\n", current)
	if err != nil {
		t.Fatalf("ComputeDiff() error = %v", err)
	}
	if !strings.Contains(diff, "--- baseline") || !strings.Contains(diff, "+++ current") {
		t.Errorf("diff missing headers:\n%s", diff)
	}
	if !strings.Contains(diff, "+error: Default 'postgres' database used in charts/api/values.yaml") {
		t.Errorf("diff missing added line:\n%s", diff)
	}
}

func TestWriterThenAdapter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbsep.baseline")
	report := reportWith(domain.NewMissingDatabaseIssue("kratos"))

	if err := NewWriter(path).PostReport(context.Background(), report); err != nil {
		t.Fatalf("Writer.PostReport() error = %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "warning: Missing separate database for: kratos\n" {
		t.Errorf("baseline content = %q", content)
	}

	var buf bytes.Buffer
	if err := New(path, &buf).PostReport(context.Background(), report); err != nil {
		t.Fatalf("Adapter.PostReport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No drift from baseline") {
		t.Errorf("output = %q, want no drift", buf.String())
	}
}

func TestAdapter_MissingBaselineShowsEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.baseline")
	var buf bytes.Buffer

	err := New(path, &buf).PostReport(context.Background(), reportWith(domain.NewMissingDatabaseIssue("archivista")))
	if err != nil {
		t.Fatalf("PostReport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "+warning: Missing separate database for: archivista") {
		t.Errorf("output = %q, want added line", buf.String())
	}
}
