package subscription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the subscription API root; the repository is appended
const DefaultBaseURL = "https://agent.api.stepsecurity.io/v1/github"

// DefaultTimeout bounds the whole probe
const DefaultTimeout = 3000 * time.Millisecond

// ErrRejected is returned when the API explicitly answers with a non-2xx status
var ErrRejected = errors.New("subscription is not valid")

// Client checks whether a repository has an active subscription
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a subscription client with the default endpoint and timeout
func NewClient(logger *slog.Logger) *Client {
	return NewClientWithHTTPClient(DefaultBaseURL, &http.Client{Timeout: DefaultTimeout}, logger)
}

// NewClientWithHTTPClient creates a subscription client with a custom endpoint and HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: httpClient,
		logger:     logger,
	}
}

// URL returns the probe URL for repository ("owner/repo")
func (c *Client) URL(repository string) string {
	return fmt.Sprintf("%s/%s/actions/subscription", c.BaseURL, repository)
}

// Validate probes the subscription API. Only an explicit non-2xx response
// fails; an unreachable API or a timeout is logged and ignored.
func (c *Client) Validate(ctx context.Context, repository string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(repository), nil)
	if err != nil {
		return fmt.Errorf("building subscription request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Info("Timeout or API not reachable. Continuing to next step.")
		c.logger.Debug("subscription probe failed", "error", err)
		return nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: API returned %d", ErrRejected, resp.StatusCode)
	}

	return nil
}
