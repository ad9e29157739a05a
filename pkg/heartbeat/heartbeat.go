// Package heartbeat delivers recurring notifications on a cron
// schedule: liveness pings, daily reports, quota summaries. Failed
// deliveries are logged and the schedule keeps running.
package heartbeat

import (
	"context"
	"sync"

	"github.com/fsandov/serverchan-go/pkg/serverchan"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BuildFunc produces the markdown body for one tick. A nil BuildFunc
// sends the title alone.
type BuildFunc func() string

type Heartbeat struct {
	c      *cron.Cron
	client *serverchan.Client
	logger *zap.Logger
	mu     sync.RWMutex
}

type Option func(*Heartbeat)

func WithLogger(logger *zap.Logger) Option {
	return func(h *Heartbeat) { h.logger = logger }
}

func New(client *serverchan.Client, opts ...Option) *Heartbeat {
	h := &Heartbeat{
		c:      cron.New(),
		client: client,
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add schedules a recurring notification. The spec accepts the standard
// 5-field cron syntax plus @every descriptors.
func (h *Heartbeat) Add(spec, title string, build BuildFunc) (cron.EntryID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.c.AddFunc(spec, func() {
		desp := ""
		if build != nil {
			desp = build()
		}
		if _, err := h.client.Send(context.Background(), title, desp); err != nil {
			h.logger.Warn("heartbeat: push failed",
				zap.String("title", title),
				zap.Error(err),
			)
		}
	})
}

func (h *Heartbeat) Remove(id cron.EntryID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.c.Remove(id)
}

func (h *Heartbeat) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.c.Start()
}

// Stop halts the schedule and waits for a running delivery to finish.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := h.c.Stop()
	<-ctx.Done()
}

func (h *Heartbeat) List() []cron.Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.c.Entries()
}
