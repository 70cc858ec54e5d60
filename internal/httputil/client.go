// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent identifies the process to upstream services.
	DefaultUserAgent = "pub-reputation/0.1"

	// maxErrorBody caps how much of a failed response is kept for errors.
	maxErrorBody = 512
)

// Client is a rate-limited GET client for one upstream service.
// It is safe for concurrent use.
type Client struct {
	service    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. It applies to whichever HTTP
// client is in use once all options have run.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative removes
// the cap.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxRetries sets how many times a 429 response is retried.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the named service. Without options it uses
// DefaultTimeout, DefaultUserAgent, and no rate limit.
func NewClient(service string, opts ...ClientOption) *Client {
	c := &Client{
		service:    service,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		userAgent:  DefaultUserAgent,
		logger:     discardLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Service returns the name used in errors.
func (c *Client) Service() string { return c.service }

// Get waits for the rate limiter, issues a GET to base?params, and returns
// the response when the status is 200. Other statuses produce a
// *StatusError and the body is closed.
func (c *Client) Get(ctx context.Context, base string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s rate limiter: %w", c.service, err)
	}

	reqURL := base
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", c.service, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := DoWithRetry(ctx, c.httpClient, req, c.maxRetries, c.logger)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", c.service, withoutURL(err))
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return resp, nil
}

// GetJSON issues a GET and decodes a JSON body into v.
func (c *Client) GetJSON(ctx context.Context, base string, params url.Values, v any) error {
	resp, err := c.Get(ctx, base, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing %s response: %w", c.service, err)
	}
	return nil
}

// withoutURL drops the request URL that net/http attaches to transport
// errors. The query string carries api_key and email.
func withoutURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
