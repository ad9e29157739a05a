package serverchan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TaskFunc is an operation watched by WatchTask.
type TaskFunc func(ctx context.Context) error

// WatchTask runs fn and pushes a completion notification: success with
// the elapsed time when fn returns nil, failure with the error message
// otherwise. The original error (or panic) always propagates to the
// caller; a failed notification is logged and swallowed.
func (c *Client) WatchTask(ctx context.Context, taskName string, fn TaskFunc) (err error) {
	start := time.Now()

	defer func() {
		elapsed := time.Since(start)
		if r := recover(); r != nil {
			c.notifyOutcome(ctx, taskName, false, elapsed, fmt.Sprintf("panic: %v", r))
			panic(r)
		}
		if err != nil {
			c.notifyOutcome(ctx, taskName, false, elapsed, err.Error())
			return
		}
		c.notifyOutcome(ctx, taskName, true, elapsed, "")
	}()

	err = fn(ctx)
	return err
}

func (c *Client) notifyOutcome(ctx context.Context, taskName string, ok bool, elapsed time.Duration, message string) {
	// The task may have failed because its context was cancelled; the
	// completion push must still go out.
	ctx = context.WithoutCancel(ctx)
	if _, nErr := c.NotifyCompletion(ctx, taskName, ok, elapsed, message); nErr != nil {
		c.logger.Warn("serverchan: task notification failed",
			zap.String("task", taskName),
			zap.Bool("ok", ok),
			zap.Error(nErr),
		)
	}
}
