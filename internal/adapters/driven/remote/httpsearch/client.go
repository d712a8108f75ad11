// Package httpsearch implements the remote tag search and parent lookup
// ports over HTTP.
package httpsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.RemoteSearcher = (*Client)(nil)
	_ driven.ParentLookup   = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultTimeout = 5 * time.Second
	DefaultLimit   = 8

	// maxErrorBody caps how much of an error response is quoted.
	maxErrorBody = 512
)

// Config holds configuration for the remote endpoints.
type Config struct {
	// SearchURL is the tag search endpoint. Required for Search.
	SearchURL string

	// ParentLookupURL is the parent tag endpoint. Required for LookupParent.
	ParentLookupURL string

	// Timeout bounds a single request (default: 5s).
	Timeout time.Duration

	// RequestsPerSecond caps the sustained request rate. Zero or less
	// means unlimited.
	RequestsPerSecond float64

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// ConfigFromSettings maps remote settings onto a client config.
func ConfigFromSettings(s domain.RemoteSettings) Config {
	return Config{
		SearchURL:         s.SearchURL,
		ParentLookupURL:   s.ParentLookupURL,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// Client talks to the remote tag search endpoints.
type Client struct {
	client          *http.Client
	searchURL       string
	parentLookupURL string
	limiter         *RateLimiter
}

// NewClient creates a new remote search client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:          client,
		searchURL:       cfg.SearchURL,
		parentLookupURL: cfg.ParentLookupURL,
		limiter:         NewRateLimiter(cfg.RequestsPerSecond, DefaultBurstSize),
	}
}

// HasSearch reports whether the search endpoint is configured.
func (c *Client) HasSearch() bool {
	return c.searchURL != ""
}

// HasParentLookup reports whether the parent lookup endpoint is configured.
func (c *Client) HasParentLookup() bool {
	return c.parentLookupURL != ""
}

// Search calls GET {searchURL}?query=...&limit=... and decodes the JSON
// array of results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.RemoteResult, error) {
	if c.searchURL == "" {
		return nil, domain.ErrRemoteUnavailable
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	endpoint, err := withQuery(c.searchURL, url.Values{
		"query": {query},
		"limit": {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	var results []domain.RemoteResult
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		r.Text = strings.TrimSpace(r.Text)
		if r.Text != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// LookupParent calls GET {parentLookupURL}?tag=... and returns parentTag.
func (c *Client) LookupParent(ctx context.Context, tag string) (string, error) {
	if c.parentLookupURL == "" {
		return "", domain.ErrRemoteUnavailable
	}

	endpoint, err := withQuery(c.parentLookupURL, url.Values{"tag": {tag}})
	if err != nil {
		return "", err
	}

	var result domain.ParentLookupResult
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return "", err
	}
	return strings.TrimSpace(result.ParentTag), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("httpsearch: GET %s", endpoint)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status %d: %s", domain.ErrRemoteStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: empty body")
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// withQuery merges values into the query string of raw.
func withQuery(raw string, values url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	for k, v := range values {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
