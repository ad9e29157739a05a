package client

import (
	"net/http"
	"time"
)

// Settings controls delivery behavior for every request the client
// sends. MaxRetries defaults to zero: a failed push is reported to the
// caller, not replayed.
type Settings struct {
	Timeout     time.Duration
	MaxRetries  int
	ShouldRetry func(resp *http.Response, err error) bool
	Backoff     func(attempt int) time.Duration
	Headers     map[string]string
}

func applyDefaults(cfg *Settings) *Settings {
	if cfg == nil {
		cfg = &Settings{}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	return cfg
}
