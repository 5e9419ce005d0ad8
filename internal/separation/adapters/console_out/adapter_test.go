package consoleout

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

func TestAdapter_Progress(t *testing.T) {
	var buf bytes.Buffer
	a := New(&buf, false)

	a.FileChecking("charts/api/values.yaml")
	a.FileFailed("charts/bad/values.yaml", errors.New("permission denied"))

	want := "Checking charts/api/values.yaml...\n" +
		"Warning: Could not process charts/bad/values.yaml: permission denied\n"
	if buf.String() != want {
		t.Errorf("progress output = %q, want %q", buf.String(), want)
	}
}

func TestAdapter_PostReport_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	report := domain.Report{
		Policy: domain.DefaultPolicy(),
		Found:  domain.NewDatabaseSet("kratos", "archivista", "judge_api"),
	}

	if err := New(&buf, false).PostReport(context.Background(), report); err != nil {
		t.Fatalf("PostReport() error = %v", err)
	}

	want := "\nDatabases found: archivista, judge_api, kratos\n" +
		"✅ Database separation validated - no issues found\n"
	if buf.String() != want {
		t.Errorf("PostReport() output = %q, want %q", buf.String(), want)
	}
}

func TestAdapter_PostReport_WithIssues(t *testing.T) {
	var buf bytes.Buffer
	ref := domain.DatabaseRef{Name: "postgres", File: "charts/api/values.yaml"}
	report := domain.Report{
		Policy: domain.DefaultPolicy(),
		Found:  domain.NewDatabaseSet("postgres"),
		Issues: []domain.Issue{
			domain.NewSharedDSNIssue("postgres", ref),
			domain.NewMissingDatabaseIssue("kratos"),
		},
	}

	if err := New(&buf, false).PostReport(context.Background(), report); err != nil {
		t.Fatalf("PostReport() error = %v", err)
	}

	want := "\nDatabases found: postgres\n" +
		"\n=== Database Separation Issues Found ===\n" +
		"❌ Default 'postgres' database used in charts/api/values.yaml\n" +
		"   Each service must have its own database\n" +
		"⚠️  Missing separate database for: kratos\n" +
		"\nEach service requires a separate database:\n" +
		"  - judge_api: For Judge API\n" +
		"  - archivista: For Archivista\n" +
		"  - kratos: For Kratos identity service\n"
	if buf.String() != want {
		t.Errorf("PostReport() output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestAdapter_Format_EmptyCorpus(t *testing.T) {
	got := New(&bytes.Buffer{}, false).Format(domain.Report{Policy: domain.DefaultPolicy()})
	if !strings.Contains(got, "Databases found: (none)") {
		t.Errorf("Format() = %q, want none marker", got)
	}
	if !strings.Contains(got, "no issues found") {
		t.Errorf("Format() = %q, want success line", got)
	}
}
