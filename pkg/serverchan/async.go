package serverchan

import (
	"context"

	"go.uber.org/zap"
)

// SendAsync delivers the notification on a background goroutine and
// returns immediately. Delivery errors are logged, never surfaced; there
// is no caller left to receive them. The send survives cancellation of
// the caller's context.
func (c *Client) SendAsync(ctx context.Context, title, desp string) {
	c.SendMessageAsync(ctx, Message{Title: title, Desp: desp})
}

func (c *Client) SendMessageAsync(ctx context.Context, msg Message) {
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if _, err := c.SendMessage(ctx, msg); err != nil {
			c.logger.Warn("serverchan: async push failed",
				zap.String("title", msg.Title),
				zap.Error(err),
			)
		}
	}()
}

// Flush blocks until every in-flight async send has finished. Call it
// before process exit so fire-and-forget pushes are not lost.
func (c *Client) Flush() {
	c.wg.Wait()
}
