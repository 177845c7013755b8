package deployments

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// NewClient creates a GitHub REST client authenticated with token. An empty
// apiURL keeps the public github.com endpoint.
func NewClient(token, apiURL string) (*github.Client, error) {
	return NewClientWithHTTPClient(token, apiURL, nil)
}

// NewClientWithHTTPClient creates a GitHub REST client on top of a custom HTTP client
func NewClientWithHTTPClient(token, apiURL string, httpClient *http.Client) (*github.Client, error) {
	client := github.NewClient(httpClient).WithAuthToken(token)

	if apiURL == "" {
		return client, nil
	}

	base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing API URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", apiURL)
	}
	client.BaseURL = base

	return client, nil
}
