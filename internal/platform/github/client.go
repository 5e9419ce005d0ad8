// Package github provides authenticated GitHub API clients.
package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v68/github"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewAppClient creates a GitHub API client authenticated as a GitHub App installation.
// The ghinstallation transport automatically handles token renewal.
func NewAppClient(appID, installationID int64, privateKeyPEM string) (*gogithub.Client, error) {
	transport, err := ghinstallation.New(http.DefaultTransport, appID, installationID, []byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("creating github installation transport: %w", err)
	}
	return gogithub.NewClient(&http.Client{Transport: otelhttp.NewTransport(transport)}), nil
}

// NewTokenClient creates a GitHub API client authenticated with a personal
// access token or the Actions-provided GITHUB_TOKEN.
func NewTokenClient(token string) *gogithub.Client {
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return gogithub.NewClient(httpClient).WithAuthToken(token)
}

// NewClient picks app authentication when an app ID is configured and falls
// back to the token otherwise.
func NewClient(token string, appID, installationID int64, privateKeyPEM string) (*gogithub.Client, error) {
	if appID != 0 {
		return NewAppClient(appID, installationID, privateKeyPEM)
	}
	if token == "" {
		return nil, errors.New("no github credentials configured")
	}
	return NewTokenClient(token), nil
}
