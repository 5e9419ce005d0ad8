package ports

import (
	"context"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

// PolicyPort abstracts where the separation rules come from.
type PolicyPort interface {
	LoadPolicy(ctx context.Context) (domain.Policy, error)
}

// ValuesSourcePort abstracts discovering and reading values files.
type ValuesSourcePort interface {
	ListValuesFiles(ctx context.Context, pattern string) ([]string, error)
	ReadValuesFile(ctx context.Context, path string) (domain.ValuesFile, error)
}

// ExtractorPort pulls database references out of a values file. ok is false
// when the file carries no database configuration at all.
type ExtractorPort interface {
	Extract(file domain.ValuesFile) (extraction domain.Extraction, ok bool)
}

// ProgressPort receives per-file events while the check runs.
type ProgressPort interface {
	FileChecking(path string)
	FileFailed(path string, err error)
}

// ReportingPort publishes the finished report.
type ReportingPort interface {
	PostReport(ctx context.Context, report domain.Report) error
}
