// Package client fetches the year catalog and case records from a running
// forcemap API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"forcemap/internal/model"
)

// Client talks to the forcemap REST API. Failures are returned to the
// caller as-is: no retries, no timeouts beyond the supplied context.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// New builds a client for the API at baseURL.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
		logger:  logger.Named("client"),
	}
}

// Years returns the ordered list of years with recorded cases.
func (c *Client) Years(ctx context.Context) ([]string, error) {
	var catalog model.YearCatalog
	if err := c.getJSON(ctx, "/api/v1.0/year", &catalog); err != nil {
		return nil, err
	}
	return catalog.AvailableYears, nil
}

// CasesForYear returns every case wrapper recorded in the given year.
func (c *Client) CasesForYear(ctx context.Context, year string) ([]model.CaseWrapper, error) {
	var wrappers []model.CaseWrapper
	path := "/api/v1.0/year/" + url.PathEscape(year)
	if err := c.getJSON(ctx, path, &wrappers); err != nil {
		return nil, err
	}
	return wrappers, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	c.logger.Debug("GET", zap.String("path", path))
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
