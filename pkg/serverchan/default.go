package serverchan

import (
	"context"
	"sync"
)

var (
	defaultMu     sync.RWMutex
	defaultClient *Client
)

// InitDefault builds the process-wide client. Calling it again replaces
// the previous one.
func InitDefault(sendKey string, opts ...Option) (*Client, error) {
	c, err := New(sendKey, opts...)
	if err != nil {
		return nil, err
	}

	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
	return c, nil
}

// Default returns the process-wide client, or ErrNotInitialized when
// InitDefault has not run.
func Default() (*Client, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	if defaultClient == nil {
		return nil, ErrNotInitialized
	}
	return defaultClient, nil
}

// MustDefault is Default for program setup paths where a missing client
// is a programming error.
func MustDefault() *Client {
	c, err := Default()
	if err != nil {
		panic(err.Error())
	}
	return c
}

// Watch runs fn under the default client's task watcher.
func Watch(ctx context.Context, taskName string, fn TaskFunc) error {
	c, err := Default()
	if err != nil {
		return err
	}
	return c.WatchTask(ctx, taskName, fn)
}

// Notify is the one-shot convenience: build a client for the key, send,
// discard the client.
func Notify(ctx context.Context, sendKey, title, desp string, opts ...Option) (*Response, error) {
	c, err := New(sendKey, opts...)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, title, desp)
}
