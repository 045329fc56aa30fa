package massive

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoAPIKey indicates the client was built without an API key.
var ErrNoAPIKey = errors.New("massive api key is not set (MASSIVE_API_KEY)")

// GetSnapshots fetches current snapshots for a batch of option tickers.
func (c *Client) GetSnapshots(ctx context.Context, tickers []string) (*SnapshotsResponse, error) {
	if len(tickers) == 0 {
		return &SnapshotsResponse{Status: "OK"}, nil
	}

	query := url.Values{}
	query.Set("tickers", strings.Join(tickers, ","))

	var resp SnapshotsResponse
	if err := c.get(ctx, "/v3/snapshot", query, &resp); err != nil {
		return nil, fmt.Errorf("get snapshots: %w", err)
	}

	return &resp, nil
}

// GetRaw performs a GET against an arbitrary API path and returns the raw
// JSON body. The path must be absolute ("/v3/...").
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	body, err := c.doWithRetry(ctx, "GET", path, query)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return body, nil
}

// ValidateKey checks that the configured API key is present and accepted
// upstream. Called once at startup so a bad key fails fast instead of on
// the first tool call.
func (c *Client) ValidateKey(ctx context.Context) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	_, err := c.doRequest(ctx, "GET", "/v3/snapshot", url.Values{"tickers": {""}})
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403) {
		return fmt.Errorf("massive api key rejected: %w", err)
	}
	// Anything else (including a 4xx about the empty ticker list) means
	// the key itself passed authentication.
	return nil
}
