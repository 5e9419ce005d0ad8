package config

import (
	"strings"
	"testing"
)

var envKeys = []string{
	"DBSEP_ROOT", "DBSEP_PATTERN", "DBSEP_POLICY", "DBSEP_FORMAT", "DBSEP_BASELINE",
	"LOG_LEVEL", "GITHUB_REPOSITORY", "DBSEP_PR_NUMBER", "GITHUB_TOKEN",
	"GITHUB_APP_ID", "GITHUB_INSTALLATION_ID", "GITHUB_PRIVATE_KEY", "OTEL_ENABLED",
}

// clearEnv blanks every variable Load reads; CI runners set several of them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr string
	}{
		{
			name: "defaults",
			want: Config{
				Root:     ".",
				Format:   "text",
				LogLevel: "warn",
			},
		},
		{
			name: "all core vars set",
			env: map[string]string{
				"DBSEP_ROOT":     "/repo",
				"DBSEP_PATTERN":  "deploy/**/values*.yaml",
				"DBSEP_POLICY":   "/repo/policy.yaml",
				"DBSEP_FORMAT":   "json",
				"DBSEP_BASELINE": "/repo/.dbsep-baseline",
				"LOG_LEVEL":      "debug",
				"OTEL_ENABLED":   "true",
			},
			want: Config{
				Root:         "/repo",
				Pattern:      "deploy/**/values*.yaml",
				PolicyPath:   "/repo/policy.yaml",
				Format:       "json",
				BaselinePath: "/repo/.dbsep-baseline",
				LogLevel:     "debug",
				OTelEnabled:  true,
			},
		},
		{
			name: "github token reporting",
			env: map[string]string{
				"GITHUB_REPOSITORY": "acme/platform",
				"DBSEP_PR_NUMBER":   "42",
				"GITHUB_TOKEN":      "ghp_test",
			},
			want: Config{
				Root:             ".",
				Format:           "text",
				LogLevel:         "warn",
				GitHubRepository: "acme/platform",
				GitHubPRNumber:   42,
				GitHubToken:      "ghp_test",
			},
		},
		{
			name: "github app reporting",
			env: map[string]string{
				"GITHUB_APP_ID":          "123456",
				"GITHUB_INSTALLATION_ID": "789012",
				"GITHUB_PRIVATE_KEY":     "test-key",
			},
			want: Config{
				Root:                 ".",
				Format:               "text",
				LogLevel:             "warn",
				GitHubAppID:          123456,
				GitHubInstallationID: 789012,
				GitHubPrivateKey:     "test-key",
			},
		},
		{
			name:    "invalid DBSEP_PR_NUMBER",
			env:     map[string]string{"DBSEP_PR_NUMBER": "not-a-number"},
			wantErr: "DBSEP_PR_NUMBER",
		},
		{
			name:    "invalid GITHUB_APP_ID",
			env:     map[string]string{"GITHUB_APP_ID": "not-a-number"},
			wantErr: "GITHUB_APP_ID",
		},
		{
			name: "invalid GITHUB_INSTALLATION_ID",
			env: map[string]string{
				"GITHUB_APP_ID":          "123456",
				"GITHUB_INSTALLATION_ID": "not-a-number",
			},
			wantErr: "GITHUB_INSTALLATION_ID",
		},
		{
			name:    "app id without private key",
			env:     map[string]string{"GITHUB_APP_ID": "123456", "GITHUB_INSTALLATION_ID": "789012"},
			wantErr: "GITHUB_PRIVATE_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Load() expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Load() error = %v, want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfig_GitHubEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "nothing set", cfg: Config{}, want: false},
		{
			name: "token without PR",
			cfg:  Config{GitHubRepository: "acme/platform", GitHubToken: "t"},
			want: false,
		},
		{
			name: "token with PR",
			cfg:  Config{GitHubRepository: "acme/platform", GitHubPRNumber: 7, GitHubToken: "t"},
			want: true,
		},
		{
			name: "app credentials with PR",
			cfg:  Config{GitHubRepository: "acme/platform", GitHubPRNumber: 7, GitHubAppID: 1},
			want: true,
		},
		{
			name: "PR without credentials",
			cfg:  Config{GitHubRepository: "acme/platform", GitHubPRNumber: 7},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GitHubEnabled(); got != tt.want {
				t.Errorf("GitHubEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
