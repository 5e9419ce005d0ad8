// Package config provides application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration loaded from environment variables.
// Command-line flags are applied on top by the caller.
type Config struct {
	Root          string // directory the pattern is resolved against
	Pattern       string // overrides the policy pattern when set
	PolicyPath    string // empty means <Root>/.chart-dbsep.yaml, optional
	Format        string // text, json or yaml
	BaselinePath  string
	WriteBaseline string
	LogLevel      string

	// GitHub PR comment (optional)
	GitHubRepository     string // "owner/repo", as set by GitHub Actions
	GitHubPRNumber       int
	GitHubToken          string
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKey     string // PEM file contents

	// OpenTelemetry (optional)
	OTelEnabled bool // OTEL_ENABLED feature flag
}

// Load reads configuration from environment variables and applies defaults
// for Root ("."), Format ("text") and LogLevel ("warn").
func Load() (Config, error) {
	cfg := Config{
		Root:     ".",
		Format:   "text",
		LogLevel: "warn",
	}

	loadCoreConfig(&cfg)

	if err := loadGitHubConfig(&cfg); err != nil {
		return Config{}, err
	}

	loadOTelConfig(&cfg)

	return cfg, nil
}

func loadCoreConfig(cfg *Config) {
	cfg.Root = getEnvOrDefault("DBSEP_ROOT", cfg.Root)
	cfg.Pattern = os.Getenv("DBSEP_PATTERN")
	cfg.PolicyPath = os.Getenv("DBSEP_POLICY")
	cfg.Format = getEnvOrDefault("DBSEP_FORMAT", cfg.Format)
	cfg.BaselinePath = os.Getenv("DBSEP_BASELINE")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
}

func loadGitHubConfig(cfg *Config) error {
	cfg.GitHubRepository = os.Getenv("GITHUB_REPOSITORY")
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.GitHubPrivateKey = os.Getenv("GITHUB_PRIVATE_KEY")

	var err error
	if cfg.GitHubPRNumber, err = parseOptionalInt("DBSEP_PR_NUMBER"); err != nil {
		return err
	}
	if cfg.GitHubAppID, err = parseOptionalInt64("GITHUB_APP_ID"); err != nil {
		return err
	}
	if cfg.GitHubInstallationID, err = parseOptionalInt64("GITHUB_INSTALLATION_ID"); err != nil {
		return err
	}

	if cfg.GitHubAppID != 0 && (cfg.GitHubInstallationID == 0 || cfg.GitHubPrivateKey == "") {
		return errors.New("GITHUB_APP_ID requires GITHUB_INSTALLATION_ID and GITHUB_PRIVATE_KEY")
	}

	return nil
}

// GitHubEnabled reports whether a PR comment should be posted.
func (c Config) GitHubEnabled() bool {
	if c.GitHubRepository == "" || c.GitHubPRNumber == 0 {
		return false
	}
	return c.GitHubToken != "" || c.GitHubAppID != 0
}

func loadOTelConfig(cfg *Config) {
	cfg.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"
}

func parseOptionalInt(envKey string) (int, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return n, nil
}

func parseOptionalInt64(envKey string) (int64, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return id, nil
}

func getEnvOrDefault(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}
