// Package main provides the chart-dbsep command that validates service
// database separation in Helm charts.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nathantilsley/chart-dbsep/internal/platform/config"
	ghclient "github.com/nathantilsley/chart-dbsep/internal/platform/github"
	"github.com/nathantilsley/chart-dbsep/internal/platform/logger"
	"github.com/nathantilsley/chart-dbsep/internal/platform/telemetry"
	baselinediff "github.com/nathantilsley/chart-dbsep/internal/separation/adapters/baseline_diff"
	consoleout "github.com/nathantilsley/chart-dbsep/internal/separation/adapters/console_out"
	githubout "github.com/nathantilsley/chart-dbsep/internal/separation/adapters/github_out"
	policyfile "github.com/nathantilsley/chart-dbsep/internal/separation/adapters/policy_file"
	regexextract "github.com/nathantilsley/chart-dbsep/internal/separation/adapters/regex_extract"
	reportfile "github.com/nathantilsley/chart-dbsep/internal/separation/adapters/report_file"
	valuesfs "github.com/nathantilsley/chart-dbsep/internal/separation/adapters/values_fs"
	"github.com/nathantilsley/chart-dbsep/internal/separation/app"
	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
	"github.com/nathantilsley/chart-dbsep/internal/separation/ports"
)

// Container holds all application dependencies.
type Container struct {
	Config       config.Config
	Logger       *slog.Logger
	Telemetry    *telemetry.Telemetry
	CheckService ports.CheckUseCase
}

// NewContainer builds and wires all dependencies. The human-readable report
// goes to stdout; with a structured format stdout carries only the document
// and progress lines move to stderr.
func NewContainer(ctx context.Context, cfg config.Config, log *slog.Logger, stdout, stderr io.Writer) (*Container, error) {
	structured := cfg.Format != "" && cfg.Format != "text"
	var format reportfile.Format
	if structured {
		f, err := reportfile.ParseFormat(cfg.Format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	tel, err := telemetry.New(ctx, cfg.OTelEnabled, cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}
	// Providers started above must not leak when wiring fails below.
	fail := func(err error) (*Container, error) {
		if shutdownErr := tel.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			log.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
		return nil, err
	}

	// Adapters
	source := valuesfs.NewFromDir(cfg.Root)
	extractor := regexextract.New()

	policyPath, policyRequired := cfg.PolicyPath, true
	if policyPath == "" {
		policyPath, policyRequired = filepath.Join(cfg.Root, policyfile.DefaultPath), false
	}
	policy := policyfile.New(policyPath, policyRequired).
		WithOverride(domain.Policy{Pattern: cfg.Pattern})

	var (
		progress    ports.ProgressPort
		reporters   []ports.ReportingPort
		humanWriter = stdout
	)
	if !structured {
		console := consoleout.New(stdout, logger.UseColor())
		progress = console
		reporters = append(reporters, console)
	} else {
		humanWriter = stderr
		progress = consoleout.New(stderr, logger.UseColor())
		reporters = append(reporters, reportfile.New(stdout, format))
	}

	if cfg.BaselinePath != "" {
		reporters = append(reporters, baselinediff.New(cfg.BaselinePath, humanWriter))
	}
	if cfg.WriteBaseline != "" {
		reporters = append(reporters, baselinediff.NewWriter(cfg.WriteBaseline))
	}

	if cfg.GitHubEnabled() {
		reporter, err := newGitHubReporter(cfg, log)
		if err != nil {
			return fail(err)
		}
		log.Info("github reporting enabled", "repository", cfg.GitHubRepository, "pr", cfg.GitHubPRNumber)
		reporters = append(reporters, reporter)
	} else {
		log.Debug("github reporting not configured")
	}

	// Domain service
	checkService, err := app.NewCheckService(
		policy,
		source,
		extractor,
		progress,
		reporters,
		log,
		tel.Meter,
		tel.Tracer,
	)
	if err != nil {
		return fail(fmt.Errorf("creating check service: %w", err))
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		Telemetry:    tel,
		CheckService: checkService,
	}, nil
}

func newGitHubReporter(cfg config.Config, log *slog.Logger) (*githubout.Adapter, error) {
	owner, repo, err := githubout.ParseRepository(cfg.GitHubRepository)
	if err != nil {
		return nil, err
	}
	client, err := ghclient.NewClient(cfg.GitHubToken, cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}
	return githubout.New(client, githubout.PullRequest{Owner: owner, Repo: repo, Number: cfg.GitHubPRNumber}, log), nil
}
