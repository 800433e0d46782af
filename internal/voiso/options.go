package voiso

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Option configures a Client in NewClient. Options run after the
// environment has been read, so they take precedence over it.
type Option func(*Client) error

// WithBaseURL points the client at a different API origin, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.config.BaseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets the http.Client used for requests. The client is copied,
// the caller's value is never modified.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return &ConfigurationError{Field: "http_client", Reason: "must not be nil"}
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithTimeout bounds each request, including redirects and reading the body.
// Without it a request may block until the context is done.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return &ConfigurationError{Field: "timeout", Reason: "must be > 0"}
		}
		c.config.Timeout = d
		return nil
	}
}

// WithDebugLogging logs every request and response when enabled.
// The Authorization header is redacted, bodies are not.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.config.Debug = enabled
		return nil
	}
}

// WithLogger sets the logger used by debug logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics registers request counters and latency histograms with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) error {
		if reg == nil {
			return &ConfigurationError{Field: "metrics", Reason: "registerer must not be nil"}
		}
		c.registerer = reg
		return nil
	}
}
