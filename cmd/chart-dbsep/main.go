package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nathantilsley/chart-dbsep/internal/platform/config"
	"github.com/nathantilsley/chart-dbsep/internal/platform/logger"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run() (int, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return 1, fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	cmd := newRootCmd(&cfg, &exitCode)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1, err
	}
	return exitCode, nil
}

func newRootCmd(cfg *config.Config, exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart-dbsep",
		Short: "Check that every service in the Helm charts owns its database",
		Long: `chart-dbsep scans Helm values files for PostgreSQL connection strings and
database-name keys, then verifies that no service uses the shared "postgres"
database and that every required service database is declared somewhere.

Exit Codes:
  0  - No separation issues
  1  - Issues found, or the check could not run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := check(cmd.Context(), *cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*exitCode = code
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Root, "root", cfg.Root, "Repository root the pattern is resolved against (DBSEP_ROOT)")
	flags.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "Values file glob, overrides the policy file (DBSEP_PATTERN)")
	flags.StringVar(&cfg.PolicyPath, "policy", cfg.PolicyPath, "Policy file; defaults to <root>/.chart-dbsep.yaml if present (DBSEP_POLICY)")
	flags.StringVarP(&cfg.Format, "format", "o", cfg.Format, "Report format: text, json or yaml (DBSEP_FORMAT)")
	flags.StringVar(&cfg.BaselinePath, "baseline", cfg.BaselinePath, "Show drift against a recorded baseline (DBSEP_BASELINE)")
	flags.StringVar(&cfg.WriteBaseline, "write-baseline", cfg.WriteBaseline, "Record the current issues as a baseline file")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error (LOG_LEVEL)")

	return cmd
}

func check(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) (int, error) {
	log := logger.NewWithWriter(cfg.LogLevel, stderr)

	container, err := NewContainer(ctx, cfg, log, stdout, stderr)
	if err != nil {
		return 1, fmt.Errorf("building container: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := container.Telemetry.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	report, err := container.CheckService.Check(ctx)
	if err != nil {
		return 1, fmt.Errorf("checking database separation: %w", err)
	}
	return report.ExitCode(), nil
}
