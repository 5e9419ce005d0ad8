// Package reportfile writes the check report as a JSON or YAML document.
package reportfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported report format %q (want json or yaml)", s)
	}
}

// Document is the serialized shape of a domain.Report.
type Document struct {
	ExitCode       int                  `json:"exitCode" yaml:"exitCode"`
	FilesScanned   int                  `json:"filesScanned" yaml:"filesScanned"`
	FilesChecked   []string             `json:"filesChecked" yaml:"filesChecked"`
	DatabasesFound []string             `json:"databasesFound" yaml:"databasesFound"`
	Declared       []string             `json:"declared" yaml:"declared"`
	Required       []string             `json:"required" yaml:"required"`
	Failures       []domain.FileFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Issues         []domain.Issue       `json:"issues" yaml:"issues"`
	References     []domain.DatabaseRef `json:"references,omitempty" yaml:"references,omitempty"`
}

// NewDocument converts a report into its serialized shape.
func NewDocument(report domain.Report) Document {
	doc := Document{
		ExitCode:       report.ExitCode(),
		FilesScanned:   report.FilesScanned,
		FilesChecked:   nonNil(report.FilesChecked),
		DatabasesFound: nonNil(report.Found.Sorted()),
		Declared:       nonNil(report.Declared.Sorted()),
		Failures:       report.Failures,
		Issues:         report.Issues,
		References:     report.References,
	}
	if doc.Issues == nil {
		doc.Issues = []domain.Issue{}
	}
	for _, r := range report.Policy.Required {
		doc.Required = append(doc.Required, r.Name)
	}
	return doc
}

// Adapter implements ports.ReportingPort by encoding the report to a writer.
type Adapter struct {
	w      io.Writer
	format Format
}

// New creates a structured report adapter.
func New(w io.Writer, format Format) *Adapter {
	return &Adapter{w: w, format: format}
}

// PostReport implements ports.ReportingPort.
func (a *Adapter) PostReport(_ context.Context, report domain.Report) error {
	doc := NewDocument(report)

	switch a.format {
	case FormatYAML:
		enc := yaml.NewEncoder(a.w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(a.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
