// Package clicksign is a minimal client for the Clicksign REST API: document
// creation from templates, signer creation, attaching signers to documents
// and triggering signature notifications.
//
// Every operation is a single stateless POST. Nothing is retried; every
// non-2xx status is returned to the caller as an *Error.
package clicksign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultHost is the production Clicksign base URL.
const DefaultHost = "https://app.clicksign.com/"

// Endpoint paths, relative to the host.
const (
	endpointSigners       = "signers"
	endpointLists         = "lists"
	endpointNotifications = "notifications"
)

// Client dispatches authenticated requests to the Clicksign API. It holds no
// mutable state and is safe for concurrent use.
//
// The host is joined with endpoints by plain concatenation, so it must end
// with a single trailing slash. Hosts are not normalized.
type Client struct {
	host        string
	accessToken string
	httpClient  *http.Client
	recorder    ExchangeRecorder
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHost overrides DefaultHost, typically to target a sandbox or a mock.
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = host
	}
}

// WithHTTPClient sets the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a timeout on the client's own transport. It has no effect
// on a client supplied through WithHTTPClient after it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger for request and response debug lines.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder installs a hook that receives every completed exchange.
func WithRecorder(r ExchangeRecorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// New creates a client authenticated with accessToken.
func New(accessToken string, opts ...Option) *Client {
	c := &Client{
		host:        DefaultHost,
		accessToken: accessToken,
		httpClient:  &http.Client{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the base URL requests are sent to.
func (c *Client) Host() string {
	return c.host
}

// AccessToken returns the token appended to every request URL.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// BuildURL returns {host}{endpoint}?access_token={token}. Neither the
// endpoint nor the token is escaped.
func (c *Client) BuildURL(endpoint string) string {
	return fmt.Sprintf("%s%s?access_token=%s", c.host, endpoint, c.accessToken)
}

// post sends payload to endpoint and returns the success body text.
func (c *Client) post(ctx context.Context, endpoint string, payload []byte) (string, error) {
	fullURL := c.BuildURL(endpoint)
	// The token lives in the query string. Logs, records and returned errors
	// only ever see host and endpoint.
	logURL := c.host + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return "", transportFailure(fmt.Errorf("failed to create request: %w", redactURL(err, logURL)))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logRequest(http.MethodPost, logURL, payload)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = redactURL(err, logURL)
		c.logger.Warn("Clicksign request failed",
			zap.String("url", logURL),
			zap.Error(err),
		)
		return "", transportFailure(fmt.Errorf("failed to execute request: %w", err))
	}
	statusCode := resp.StatusCode

	body, raw, err := handleResponse(resp)
	duration := time.Since(startTime)

	c.logResponse(statusCode, duration, raw)
	c.record(ctx, Exchange{
		Method:       http.MethodPost,
		Endpoint:     endpoint,
		RequestBody:  payload,
		ResponseBody: raw,
		StatusCode:   statusCode,
		Duration:     duration,
		Failed:       err != nil,
	})

	if err != nil {
		c.logger.Debug("Clicksign request returned an error",
			zap.String("url", logURL),
			zap.Stringer("kind", KindOf(err)),
			zap.Int("status", statusCode),
		)
		return "", err
	}
	return body, nil
}

// redactURL replaces the request URL carried by a *url.Error, which holds
// the access token, with safeURL.
func redactURL(err error, safeURL string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = safeURL
	}
	return err
}

// postJSON marshals body, posts it and decodes the success body into result.
func (c *Client) postJSON(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return malformedInput(fmt.Errorf("failed to marshal request body: %w", err))
	}

	text, err := c.post(ctx, endpoint, payload)
	if err != nil {
		return err
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(text), result); err != nil {
		return malformedResponse(fmt.Errorf("failed to unmarshal response: %w", err))
	}
	return nil
}
