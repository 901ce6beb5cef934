// Package api is the request client for the grievance portal backend.
//
// Every backend endpoint is wrapped as a method on Client. Each method
// serializes its parameters into a multipart form body (mutating calls)
// or a query string (read calls), issues exactly one HTTP request, and
// returns a Result: either the JSON payload passed through verbatim or a
// CallError describing a client-side failure. Methods never return Go
// errors and never panic.
//
// There is no retry, no backoff and no caching. No session state is kept;
// credentials travel per call as plain form fields.
package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"gportal/internal/metrics"
)

// Client issues calls against one backend base address.
//
// Thread-safety:
//   - All fields are set at construction and never modified
//   - http.Client is safe for concurrent use by multiple goroutines
//   - No ordering guarantee between concurrent calls
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
	dryRun     bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default pooled HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for call diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithDryRun makes mutating officer calls log the request and return a
// synthetic payload instead of contacting the backend.
func WithDryRun(enabled bool) Option {
	return func(c *Client) {
		c.dryRun = enabled
	}
}

// New creates a client for the backend at baseURL.
//
// Parameters:
//   - baseURL: Backend base address, e.g. "http://localhost:8000"
//   - opts: Optional overrides (HTTP client, logger, metrics, dry run)
//
// Returns:
//   - *Client: Ready-to-use client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: NewHTTPClient(0, 100),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base address this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DryRun reports whether mutating officer calls are simulated.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// NewHTTPClient creates a new HTTP client with connection pooling.
//
// Connection pool configuration:
//   - MaxIdleConns: maxConns
//     Maximum number of idle connections across all hosts.
//
//   - MaxIdleConnsPerHost: 10
//     The portal is a single host, so a small per-host pool is enough.
//
//   - IdleConnTimeout: 90 seconds
//     How long an idle connection stays in the pool before being closed.
//
// Parameters:
//   - timeout: Maximum time for a complete request; 0 means no limit
//   - maxConns: Idle connection pool size
//
// Returns:
//   - *http.Client: Configured HTTP client
func NewHTTPClient(timeout time.Duration, maxConns int) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        maxConns,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}
