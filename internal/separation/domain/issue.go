package domain

import (
	"fmt"
	"strings"
)

// Severity classifies an Issue.
type Severity int

const (
	SeverityWarning Severity = iota // Suspicious configuration, still fails the check
	SeverityError                   // Shared default database in a connection string
)

// String returns the string representation of the Severity.
// Implements the Stringer interface.
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

var severityNames = [...]string{
	SeverityWarning: "warning",
	SeverityError:   "error",
}

// MarshalText lets JSON and YAML encoders emit the severity name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name produced by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if strings.EqualFold(string(text), name) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(text))
}

// Issue is a single separation finding.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	File     string   `json:"file,omitempty" yaml:"file,omitempty"` // empty for corpus-level findings
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Hint     string   `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// String renders the issue without presentation glyphs, e.g.
// "error: Default 'postgres' database used in charts/api/values.yaml".
func (i Issue) String() string {
	return i.Severity.String() + ": " + i.Message
}

// NewSharedDSNIssue reports a connection string pointing at the forbidden database.
func NewSharedDSNIssue(forbidden string, ref DatabaseRef) Issue {
	return Issue{
		Severity: SeverityError,
		Message:  fmt.Sprintf("Default '%s' database used in %s", forbidden, ref.File),
		File:     ref.File,
		Line:     ref.Line,
		Hint:     "Each service must have its own database",
	}
}

// NewSharedKeyIssue reports a database-name key set to the forbidden database.
func NewSharedKeyIssue(forbidden string, ref DatabaseRef) Issue {
	return Issue{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Database name '%s' found in %s", forbidden, ref.File),
		File:     ref.File,
		Line:     ref.Line,
	}
}

// NewMissingDatabaseIssue reports a required service database that no file declares.
func NewMissingDatabaseIssue(name string) Issue {
	return Issue{
		Severity: SeverityWarning,
		Message:  "Missing separate database for: " + name,
	}
}

// CountBySeverity returns counts of issues grouped by severity.
func CountBySeverity(issues []Issue) (errors, warnings int) {
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}
