package domain

import "testing"

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"}, // Invalid severity
		{Severity(-1), "unknown"}, // Negative severity
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.severity.String()
			if got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeverity_UnmarshalText(t *testing.T) {
	var s Severity
	if err := s.UnmarshalText([]byte("ERROR")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if s != SeverityError {
		t.Errorf("UnmarshalText() = %v, want %v", s, SeverityError)
	}
	if err := s.UnmarshalText([]byte("fatal")); err == nil {
		t.Error("UnmarshalText(\"fatal\") expected error, got nil")
	}
}

func TestIssueConstructors(t *testing.T) {
	ref := DatabaseRef{Name: "postgres", File: "charts/api/values.yaml", Line: 4}

	dsn := NewSharedDSNIssue("postgres", ref)
	if dsn.Severity != SeverityError {
		t.Errorf("DSN issue severity = %v, want error", dsn.Severity)
	}
	if want := "Default 'postgres' database used in charts/api/values.yaml"; dsn.Message != want {
		t.Errorf("DSN issue message = %q, want %q", dsn.Message, want)
	}
	if dsn.Hint == "" || dsn.Line != 4 {
		t.Errorf("DSN issue = %+v, want hint and line 4", dsn)
	}

	key := NewSharedKeyIssue("postgres", ref)
	if key.Severity != SeverityWarning {
		t.Errorf("key issue severity = %v, want warning", key.Severity)
	}
	if want := "Database name 'postgres' found in charts/api/values.yaml"; key.Message != want {
		t.Errorf("key issue message = %q, want %q", key.Message, want)
	}

	missing := NewMissingDatabaseIssue("kratos")
	if got, want := missing.String(), "warning: Missing separate database for: kratos"; got != want {
		t.Errorf("missing issue String() = %q, want %q", got, want)
	}
	if missing.File != "" {
		t.Errorf("missing issue file = %q, want empty", missing.File)
	}
}

func TestCountBySeverity(t *testing.T) {
	tests := []struct {
		name         string
		issues       []Issue
		wantErrors   int
		wantWarnings int
	}{
		{name: "empty issues"},
		{
			name: "mixed severities",
			issues: []Issue{
				{Severity: SeverityError},
				{Severity: SeverityWarning},
				{Severity: SeverityWarning},
			},
			wantErrors:   1,
			wantWarnings: 2,
		},
		{
			name:       "unknown severity is not counted",
			issues:     []Issue{{Severity: Severity(7)}, {Severity: SeverityError}},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErrors, gotWarnings := CountBySeverity(tt.issues)
			if gotErrors != tt.wantErrors {
				t.Errorf("CountBySeverity() errors = %v, want %v", gotErrors, tt.wantErrors)
			}
			if gotWarnings != tt.wantWarnings {
				t.Errorf("CountBySeverity() warnings = %v, want %v", gotWarnings, tt.wantWarnings)
			}
		})
	}
}

func TestReport_ExitCode(t *testing.T) {
	if got := (Report{}).ExitCode(); got != 0 {
		t.Errorf("empty report ExitCode() = %d, want 0", got)
	}
	r := Report{Issues: []Issue{NewMissingDatabaseIssue("kratos")}}
	if got := r.ExitCode(); got != 1 {
		t.Errorf("report with warning ExitCode() = %d, want 1", got)
	}
	if got := r.IssueLines(); len(got) != 1 || got[0] != "warning: Missing separate database for: kratos" {
		t.Errorf("IssueLines() = %q", got)
	}
}
