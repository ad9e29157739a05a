package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

type mockTransport struct {
	roundTripFunc func(*http.Request) (*http.Response, error)
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.roundTripFunc(req)
}

func newTestClient(transport http.RoundTripper, settings *Settings) *Client {
	return &Client{
		httpClient: &http.Client{Transport: transport},
		options: &options{
			settings: applyDefaults(settings),
		},
	}
}

func TestSingleAttemptByDefault(t *testing.T) {
	var attempts int32
	transport := &mockTransport{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&attempts, 1)
			return nil, fmt.Errorf("connection refused")
		},
	}

	c := newTestClient(transport, nil)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, "http://example.com/key.send", nil)
	_, cErr := c.Do(context.Background(), req)
	if cErr == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected exactly 1 attempt with default settings, got %d", got)
	}
}

func TestRetryClosesBodyOnFailedAttempts(t *testing.T) {
	var closeCalls int32

	transport := &mockTransport{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 500,
				Body: &trackingReadCloser{
					Reader:  bytes.NewReader([]byte("error")),
					onClose: func() { atomic.AddInt32(&closeCalls, 1) },
				},
			}, nil
		},
	}

	c := newTestClient(transport, &Settings{
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		Backoff:    func(int) time.Duration { return time.Millisecond },
	})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com/test", nil)
	_, _ = c.Do(context.Background(), req)

	closed := atomic.LoadInt32(&closeCalls)
	if closed < 3 {
		t.Errorf("expected at least 3 body closes (2 retries + final read), got %d", closed)
	}
}

func TestRetryRewindsFormBody(t *testing.T) {
	var bodies []string
	transport := &mockTransport{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			b, _ := io.ReadAll(req.Body)
			bodies = append(bodies, string(b))
			return &http.Response{
				StatusCode: 500,
				Body:       io.NopCloser(bytes.NewReader([]byte("err"))),
			}, nil
		},
	}

	c := &Client{
		httpClient: &http.Client{Transport: transport},
		options: &options{
			baseURL: "http://example.com",
			settings: applyDefaults(&Settings{
				MaxRetries: 1,
				Backoff:    func(int) time.Duration { return time.Millisecond },
			}),
		},
	}

	form := url.Values{}
	form.Set("title", "t")
	_, _ = c.PostForm(context.Background(), "/key.send", form, nil)

	if len(bodies) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(bodies))
	}
	for i, b := range bodies {
		if b != "title=t" {
			t.Errorf("attempt %d: expected form body to be rewound, got %q", i, b)
		}
	}
}

func TestTimeoutRespectsContextDeadline(t *testing.T) {
	transport := &mockTransport{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			deadline, ok := req.Context().Deadline()
			if !ok {
				t.Error("expected context to have deadline")
			}
			remaining := time.Until(deadline)
			if remaining > 3*time.Second {
				t.Errorf("deadline too far: %v", remaining)
			}
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(bytes.NewReader(nil)),
			}, nil
		},
	}

	c := newTestClient(transport, &Settings{Timeout: 2 * time.Second})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com/test", nil)
	_, _ = c.Do(context.Background(), req)
}

func TestErrorCarriesStatusAndBody(t *testing.T) {
	transport := &mockTransport{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 404,
				Body:       io.NopCloser(bytes.NewReader([]byte("not found"))),
			}, nil
		},
	}

	c := newTestClient(transport, nil)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com/missing", nil)
	_, cErr := c.Do(context.Background(), req)
	if cErr == nil {
		t.Fatal("expected error on 404")
	}
	if cErr.StatusCode != 404 {
		t.Errorf("expected status 404, got %d", cErr.StatusCode)
	}
	if string(cErr.Body) != "not found" {
		t.Errorf("expected body in error, got %q", string(cErr.Body))
	}
}

func TestDefaultHeadersApplied(t *testing.T) {
	transport := &mockTransport{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("User-Agent") != "test-agent" {
				t.Errorf("expected default header, got %q", req.Header.Get("User-Agent"))
			}
			if req.Header.Get("X-Custom") != "explicit" {
				t.Errorf("expected explicit header to win, got %q", req.Header.Get("X-Custom"))
			}
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(bytes.NewReader(nil)),
			}, nil
		},
	}

	c := newTestClient(transport, &Settings{
		Headers: map[string]string{
			"User-Agent": "test-agent",
			"X-Custom":   "default",
		},
	})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com/test", nil)
	req.Header.Set("X-Custom", "explicit")
	_, _ = c.Do(context.Background(), req)
}

type trackingReadCloser struct {
	io.Reader
	onClose func()
}

func (r *trackingReadCloser) Close() error {
	if r.onClose != nil {
		r.onClose()
	}
	return nil
}

func (r *trackingReadCloser) Read(p []byte) (int, error) {
	return r.Reader.Read(p)
}
