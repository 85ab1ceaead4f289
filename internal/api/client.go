package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/ico-resolver/internal/ratelimit"
)

// DefaultTimeout bounds every upstream request.
const DefaultTimeout = 30 * time.Second

// Client provides access to one upstream REST API.
type Client struct {
	name       string
	baseURL    string
	header     http.Header
	httpClient *http.Client
	limiter    ratelimit.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. name labels errors and log lines.
func NewClient(name, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		name:    name,
		baseURL: baseURL,
		header:  make(http.Header),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: ratelimit.Unlimited(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the label the client was created with.
func (c *Client) Name() string {
	return c.name
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLimiter gates every request through l.
func WithLimiter(l ratelimit.Limiter) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return WithHeader("User-Agent", ua)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
