package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
	"github.com/nathantilsley/chart-dbsep/internal/separation/ports"
)

var errInvalidEncoding = errors.New("content is not valid UTF-8")

// CheckService implements ports.CheckUseCase by orchestrating the separation
// check: load policy, discover values files, extract database references,
// apply the rules, and hand the report to every reporter.
type CheckService struct {
	policy    ports.PolicyPort
	source    ports.ValuesSourcePort
	extractor ports.ExtractorPort
	progress  ports.ProgressPort
	reporters []ports.ReportingPort
	logger    *slog.Logger
	tracer    trace.Tracer

	filesChecked metric.Int64Counter
	issuesFound  metric.Int64Counter
}

// NewCheckService creates a new CheckService wired with all driven ports.
// Reporters run in order after the check; a failing reporter is logged and skipped.
func NewCheckService(
	policy ports.PolicyPort,
	source ports.ValuesSourcePort,
	extractor ports.ExtractorPort,
	progress ports.ProgressPort,
	reporters []ports.ReportingPort,
	logger *slog.Logger,
	meter metric.Meter,
	tracer trace.Tracer,
) (*CheckService, error) {
	filesChecked, err := meter.Int64Counter("dbsep.files.checked",
		metric.WithDescription("Values files carrying database configuration"))
	if err != nil {
		return nil, fmt.Errorf("creating files counter: %w", err)
	}
	issuesFound, err := meter.Int64Counter("dbsep.issues",
		metric.WithDescription("Database separation issues by severity"))
	if err != nil {
		return nil, fmt.Errorf("creating issues counter: %w", err)
	}

	return &CheckService{
		policy:       policy,
		source:       source,
		extractor:    extractor,
		progress:     progress,
		reporters:    reporters,
		logger:       logger,
		tracer:       tracer,
		filesChecked: filesChecked,
		issuesFound:  issuesFound,
	}, nil
}

// Check runs one separation pass and publishes the result.
func (s *CheckService) Check(ctx context.Context) (domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "separation.check")
	defer span.End()

	report, err := s.evaluate(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Report{}, err
	}

	errCount, warnCount := domain.CountBySeverity(report.Issues)
	span.SetAttributes(
		attribute.Int("files.scanned", report.FilesScanned),
		attribute.Int("files.checked", len(report.FilesChecked)),
		attribute.Int("issues.errors", errCount),
		attribute.Int("issues.warnings", warnCount),
	)
	s.issuesFound.Add(ctx, int64(errCount), metric.WithAttributes(attribute.String("severity", "error")))
	s.issuesFound.Add(ctx, int64(warnCount), metric.WithAttributes(attribute.String("severity", "warning")))

	for _, r := range s.reporters {
		if err := r.PostReport(ctx, report); err != nil {
			s.logger.Error("failed to post report", "reporter", fmt.Sprintf("%T", r), "error", err)
		}
	}

	return report, nil
}

func (s *CheckService) evaluate(ctx context.Context) (domain.Report, error) {
	policy, err := s.policy.LoadPolicy(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("loading policy: %w", err)
	}
	policy = policy.WithDefaults()

	paths, err := s.source.ListValuesFiles(ctx, policy.Pattern)
	if err != nil {
		return domain.Report{}, fmt.Errorf("listing values files: %w", err)
	}
	s.logger.Info("discovered values files", "pattern", policy.Pattern, "count", len(paths))

	report := domain.Report{
		Policy:       policy,
		FilesScanned: len(paths),
		Found:        domain.NewDatabaseSet(),
		Declared:     domain.NewDatabaseSet(),
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return domain.Report{}, err
		}
		s.checkFile(ctx, &report, path)
	}

	// Only DSN identifiers gate the missing check, so a corpus with no
	// connection strings yields no missing warnings. Explicit database-name
	// declarations count as present; plain database keys do not.
	if len(report.Found) > 0 {
		present := report.Found.Union(report.Declared)
		for _, m := range policy.Missing(present) {
			report.Issues = append(report.Issues, domain.NewMissingDatabaseIssue(m.Name))
		}
	}

	return report, nil
}

// checkFile reads and inspects a single values file. Read failures are
// recorded on the report and never abort the pass.
func (s *CheckService) checkFile(ctx context.Context, report *domain.Report, path string) {
	file, err := s.source.ReadValuesFile(ctx, path)
	if err == nil && !utf8.Valid(file.Content) {
		err = errInvalidEncoding
	}
	if err != nil {
		s.logger.Warn("could not process values file", "file", path, "error", err)
		s.progress.FileFailed(path, err)
		report.Failures = append(report.Failures, domain.FileFailure{Path: path, Error: err.Error()})
		return
	}

	extraction, ok := s.extractor.Extract(file)
	if !ok {
		s.logger.Debug("no database configuration", "file", path)
		return
	}

	s.progress.FileChecking(path)
	report.FilesChecked = append(report.FilesChecked, path)
	s.filesChecked.Add(ctx, 1)

	forbidden := report.Policy.Forbidden
	for _, ref := range extraction.DSNs {
		report.Found.Add(ref.Name)
		report.References = append(report.References, ref)
		if ref.Name == forbidden {
			report.Issues = append(report.Issues, domain.NewSharedDSNIssue(forbidden, ref))
		}
	}
	for _, ref := range extraction.Keys {
		if ref.DeclaresDatabase() {
			report.Declared.Add(ref.Name)
		}
		report.References = append(report.References, ref)
		if ref.Name == forbidden {
			report.Issues = append(report.Issues, domain.NewSharedKeyIssue(forbidden, ref))
		}
	}

	s.logger.Debug("checked values file",
		"file", path,
		"dsns", len(extraction.DSNs),
		"keys", len(extraction.Keys),
	)
}
