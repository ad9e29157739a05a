// Package client is the HTTP transport under the SDK's notification
// senders. It wraps net/http with a RoundTripper middleware chain and
// per-client settings; retries and circuit breaking are opt-in and stay
// off for plain notification delivery.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	httpClient *http.Client
	options    *options
}

type options struct {
	baseURL     string
	settings    *Settings
	middlewares []Middleware
}

// Option configures a Client at construction time.
type Option = func(*options)

func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(url, "/") }
}
func WithSettings(s *Settings) Option {
	return func(o *options) { o.settings = s }
}
func WithMiddleware(mw Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, mw) }
}

func NewClient(opts ...Option) *Client {
	o := &options{
		settings: &Settings{},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.settings = applyDefaults(o.settings)

	transport := http.DefaultTransport
	for i := len(o.middlewares) - 1; i >= 0; i-- {
		transport = o.middlewares[i](transport)
	}
	return &Client{
		httpClient: &http.Client{Transport: transport},
		options:    o,
	}
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, *Error) {
	cfg := c.options.settings

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	req = req.WithContext(ctx)

	for k, v := range cfg.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = func(resp *http.Response, err error) bool {
			return err != nil || (resp != nil && resp.StatusCode >= 500)
		}
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = func(attempt int) time.Duration { return 200 * time.Millisecond }
	}

	var (
		resp  *http.Response
		err   error
		retry int
		body  []byte
	)
	for retry = 0; retry <= cfg.MaxRetries; retry++ {
		if retry > 0 && req.GetBody != nil {
			if rewound, rerr := req.GetBody(); rerr == nil {
				req.Body = rewound
			}
		}
		resp, err = c.httpClient.Do(req)
		if !shouldRetry(resp, err) || retry == cfg.MaxRetries {
			break
		}
		// Drain before the next attempt so the connection can be reused.
		if resp != nil && resp.Body != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		select {
		case <-time.After(backoff(retry)):
		case <-ctx.Done():
		}
	}
	if resp != nil && resp.Body != nil {
		body, _ = io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	if err != nil || (resp != nil && resp.StatusCode >= 400) {
		clientErr := &Error{
			Err:     err,
			Retries: retry,
			Method:  req.Method,
			URL:     req.URL.String(),
		}
		if resp != nil {
			clientErr.StatusCode = resp.StatusCode
			clientErr.Body = body
		}
		return resp, clientErr
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, path string, headers map[string]string) (*http.Response, *Error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.options.baseURL+path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}

func (c *Client) Post(ctx context.Context, path string, body []byte, headers map[string]string) (*http.Response, *Error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.options.baseURL+path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}

// PostForm sends an application/x-www-form-urlencoded POST, the shape
// the Server酱 API expects.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, headers map[string]string) (*http.Response, *Error) {
	encoded := form.Encode()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.options.baseURL+path, strings.NewReader(encoded))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(encoded)), nil
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}

func (c *Client) Close() {
	if c.httpClient != nil {
		if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}
}
