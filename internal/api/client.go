package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Paths are the resource paths of one store, relative to the API base URL.
type Paths struct {
	Products string
	Product  string
	Carts    string
	Cart     string
	Order    string
}

// NewPaths builds the resource paths for the given store segment.
func NewPaths(store string) Paths {
	prefix := "api/" + strings.Trim(store, "/")
	return Paths{
		Products: prefix + "/products",
		Product:  prefix + "/product",
		Carts:    prefix + "/carts",
		Cart:     prefix + "/cart",
		Order:    prefix + "/order",
	}
}

// ErrorInterceptor is called for every failed request before the error is
// handed back to the caller. It must not block for long.
type ErrorInterceptor func(ctx context.Context, err *APIError)

// Client talks JSON to the store API. A Client is safe for concurrent use.
type Client struct {
	baseURL     string
	paths       Paths
	httpClient  *http.Client
	interceptor ErrorInterceptor
	logger      *slog.Logger
	timeout     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default HTTP client. nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout on the HTTP client, whichever one
// ends up in use. Zero keeps the client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithInterceptor installs the error interceptor.
func WithInterceptor(fn ErrorInterceptor) Option {
	return func(c *Client) {
		c.interceptor = fn
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for baseURL and the store segment. The default
// transport is wrapped with otelhttp so trace context reaches the API.
func NewClient(baseURL, store string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		paths:   NewPaths(store),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
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

// Paths returns the store's resource paths.
func (c *Client) Paths() Paths {
	return c.paths
}

// WithInterceptor returns a copy of c that reports failures to fn. The copy
// shares the underlying HTTP client and its connection pool.
func (c *Client) WithInterceptor(fn ErrorInterceptor) *Client {
	cp := *c
	cp.interceptor = fn
	return &cp
}

// envelope is the part every store API reply has in common.
type envelope struct {
	Success *bool           `json:"success"`
	Message json.RawMessage `json:"message"`
}

// Do sends one request. body, when non-nil, is encoded as JSON; out, when
// non-nil, receives the decoded reply. Failures are reported to the
// interceptor and then returned.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	apiErr := c.do(ctx, method, path, body, out)
	if apiErr == nil {
		return nil
	}
	if c.interceptor != nil {
		c.interceptor(ctx, apiErr)
	}
	return apiErr
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post is Do with POST.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put is Do with PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete is Do with DELETE and no body.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) *APIError {
	fail := func(status int, msg string, err error) *APIError {
		return &APIError{Method: method, Path: path, Status: status, Message: msg, Err: err}
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("encode request: %w", err))
		}
		reqBody = bytes.NewReader(raw)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fail(0, "", fmt.Errorf("%w: %v", ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api.Client.Do - request failed", "method", method, "path", path, "error", err)
		return fail(0, "", fmt.Errorf("%w: %v", ErrTransport, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("%w: read body: %v", ErrTransport, err))
	}

	var env envelope
	envErr := json.Unmarshal(raw, &env)
	msg := decodeMessage(env.Message)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("api.Client.Do - non-2xx reply", "method", method, "path", path, "status", resp.StatusCode, "message", msg)
		return fail(resp.StatusCode, msg, ErrRejected)
	}
	if envErr != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("%w: %v", ErrDecode, envErr))
	}
	if env.Success != nil && !*env.Success {
		c.logger.Warn("api.Client.Do - reply marked unsuccessful", "method", method, "path", path, "message", msg)
		return fail(resp.StatusCode, msg, ErrRejected)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fail(resp.StatusCode, "", fmt.Errorf("%w: %v", ErrDecode, err))
		}
	}

	c.logger.Debug("api.Client.Do - ok", "method", method, "path", path, "status", resp.StatusCode)
	return nil
}

// decodeMessage accepts either a string or a list of strings, which is what
// the store API sends for validation failures.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "、")
	}
	return ""
}
