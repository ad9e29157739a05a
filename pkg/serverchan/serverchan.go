// Package serverchan sends WeChat push notifications through the Server酱
// relay service (https://sct.ftqq.com). A Client wraps one send key and
// delivers form-encoded messages to sctapi.ftqq.com, synchronously or as
// fire-and-forget background sends.
package serverchan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fsandov/serverchan-go/pkg/cache"
	"github.com/fsandov/serverchan-go/pkg/client"
	"github.com/fsandov/serverchan-go/pkg/config"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Server酱 Turbo API host.
	DefaultBaseURL = "https://sctapi.ftqq.com"

	defaultTimeout = 10 * time.Second
	userAgent      = "serverchan-go/1.0"

	// Service-imposed field limits.
	maxTitleRunes = 32
	maxShortRunes = 64
)

// Client delivers notifications for a single send key. It is safe for
// concurrent use.
type Client struct {
	sendKey        string
	defaultChannel string
	http           *client.Client
	dedupe         cache.Store
	dedupeTTL      time.Duration
	logger         *zap.Logger
	wg             sync.WaitGroup
}

type settings struct {
	baseURL     string
	timeout     time.Duration
	channel     string
	httpClient  *client.Client
	middlewares []client.Middleware
	dedupe      cache.Store
	dedupeTTL   time.Duration
	logger      *zap.Logger
}

type Option func(*settings)

func WithBaseURL(url string) Option {
	return func(s *settings) { s.baseURL = url }
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithChannel sets the message channel applied when a Message does not
// pick one.
func WithChannel(channel string) Option {
	return func(s *settings) { s.channel = channel }
}

// WithHTTPClient replaces the delivery transport entirely. The client's
// base URL wins over WithBaseURL.
func WithHTTPClient(c *client.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithMiddleware appends a transport middleware (rate limiting, metrics,
// tracing). Ignored when WithHTTPClient is used.
func WithMiddleware(mw client.Middleware) Option {
	return func(s *settings) { s.middlewares = append(s.middlewares, mw) }
}

// WithDedupe suppresses identical title+body notifications inside the
// given window. Duplicate sends return ErrDuplicate without touching
// the network.
func WithDedupe(store cache.Store, window time.Duration) Option {
	return func(s *settings) {
		s.dedupe = store
		s.dedupeTTL = window
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// New builds a Client for the given send key.
func New(sendKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(sendKey) == "" {
		return nil, ErrEmptySendKey
	}

	s := &settings{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.channel == "" {
		s.channel = config.Get().DefaultChannel
	}
	if s.logger == nil {
		s.logger = zap.L()
	}
	if s.dedupe != nil && s.dedupeTTL <= 0 {
		s.dedupeTTL = time.Minute
	}

	httpClient := s.httpClient
	if httpClient == nil {
		clientOpts := []client.Option{
			client.WithBaseURL(s.baseURL),
			client.WithSettings(&client.Settings{
				Timeout: s.timeout,
				Headers: map[string]string{"User-Agent": userAgent},
			}),
		}
		for _, mw := range s.middlewares {
			clientOpts = append(clientOpts, client.WithMiddleware(mw))
		}
		httpClient = client.NewClient(clientOpts...)
	}

	return &Client{
		sendKey:        sendKey,
		defaultChannel: s.channel,
		http:           httpClient,
		dedupe:         s.dedupe,
		dedupeTTL:      s.dedupeTTL,
		logger:         s.logger,
	}, nil
}

// Send delivers a notification with a title and an optional markdown
// body and waits for the service verdict. A nil error means the relay
// accepted the push.
func (c *Client) Send(ctx context.Context, title, desp string) (*Response, error) {
	return c.SendMessage(ctx, Message{Title: title, Desp: desp})
}

func (c *Client) SendMessage(ctx context.Context, msg Message) (*Response, error) {
	title := truncateRunes(strings.TrimSpace(msg.Title), maxTitleRunes)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	// dedupeKey is non-empty only while this send holds the window, so a
	// failed delivery can release it and a retry goes back on the wire.
	var dedupeKey string
	if c.dedupe != nil {
		key := fingerprint(c.sendKey, title, msg.Desp)
		fresh, err := c.dedupe.SetNX(ctx, key, "1", c.dedupeTTL)
		if err != nil {
			// Suppression is best effort; a broken store must not block delivery.
			c.logger.Warn("serverchan: dedupe store unavailable", zap.Error(err))
		} else if !fresh {
			return nil, ErrDuplicate
		} else {
			dedupeKey = key
		}
	}

	form := url.Values{}
	form.Set("title", title)
	if msg.Desp != "" {
		form.Set("desp", msg.Desp)
	}
	if msg.Short != "" {
		form.Set("short", truncateRunes(msg.Short, maxShortRunes))
	}
	if channel := c.resolveChannel(msg.Channel); channel != "" {
		form.Set("channel", channel)
	}
	if msg.NoIP {
		form.Set("noip", "1")
	}
	if msg.OpenID != "" {
		form.Set("openid", msg.OpenID)
	}

	resp, cErr := c.http.PostForm(ctx, "/"+c.sendKey+".send", form, nil)
	if cErr != nil {
		c.releaseDedupe(ctx, dedupeKey)
		return nil, fmt.Errorf("serverchan: deliver %q: %w", title, cErr)
	}

	body, err := client.ReadAndRestoreBody(resp)
	if err != nil {
		c.releaseDedupe(ctx, dedupeKey)
		return nil, fmt.Errorf("serverchan: read response: %w", err)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		c.releaseDedupe(ctx, dedupeKey)
		return nil, fmt.Errorf("serverchan: decode response: %w", err)
	}
	if out.Code != 0 {
		c.releaseDedupe(ctx, dedupeKey)
		return &out, &APIError{Code: out.Code, Message: out.Message}
	}

	c.logger.Debug("serverchan: push accepted",
		zap.String("title", title),
		zap.String("pushid", out.Data.PushID),
	)
	return &out, nil
}

// releaseDedupe frees the suppression window after a failed delivery so
// the caller's retry is not dropped as a duplicate.
func (c *Client) releaseDedupe(ctx context.Context, key string) {
	if key == "" {
		return
	}
	// The delivery may have failed because ctx expired; the release must
	// still reach the store.
	ctx = context.WithoutCancel(ctx)
	if err := c.dedupe.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrKeyNotFound) {
		c.logger.Warn("serverchan: dedupe release failed", zap.Error(err))
	}
}

func (c *Client) resolveChannel(channel string) string {
	if channel != "" {
		return channel
	}
	return c.defaultChannel
}
