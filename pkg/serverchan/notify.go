package serverchan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsandov/serverchan-go/pkg/config"
)

// NotifySuccess sends the success template for a finished task. elapsed
// is rendered in seconds with two decimals; details, when present, is
// appended as a markdown section.
func (c *Client) NotifySuccess(ctx context.Context, taskName string, elapsed time.Duration, details string) (*Response, error) {
	title := titlePrefix() + fmt.Sprintf("✅ %s succeeded", taskName)

	var b strings.Builder
	b.WriteString("## 🎉 Task succeeded\n\n")
	fmt.Fprintf(&b, "**Task**: %s\n\n", taskName)
	fmt.Fprintf(&b, "**Finished**: %s\n", stamp())
	if elapsed > 0 {
		fmt.Fprintf(&b, "\n**Elapsed**: %.2fs\n", elapsed.Seconds())
	}
	if details != "" {
		fmt.Fprintf(&b, "\n**Details**:\n%s\n", details)
	}

	return c.Send(ctx, title, b.String())
}

// NotifyError sends the failure template for a task.
func (c *Client) NotifyError(ctx context.Context, taskName, errMsg string, elapsed time.Duration) (*Response, error) {
	title := titlePrefix() + fmt.Sprintf("❌ %s failed", taskName)

	var b strings.Builder
	b.WriteString("## ⚠️ Task failed\n\n")
	fmt.Fprintf(&b, "**Task**: %s\n\n", taskName)
	fmt.Fprintf(&b, "**Failed**: %s\n\n", stamp())
	fmt.Fprintf(&b, "**Error**: %s\n", errMsg)
	if elapsed > 0 {
		fmt.Fprintf(&b, "\n**Elapsed**: %.2fs\n", elapsed.Seconds())
	}

	return c.Send(ctx, title, b.String())
}

// NotifyCompletion picks the success or failure template from ok.
func (c *Client) NotifyCompletion(ctx context.Context, taskName string, ok bool, elapsed time.Duration, message string) (*Response, error) {
	if ok {
		return c.NotifySuccess(ctx, taskName, elapsed, message)
	}
	if message == "" {
		message = "unknown error"
	}
	return c.NotifyError(ctx, taskName, message, elapsed)
}

// stamp formats now in the configured timezone for template bodies.
func stamp() string {
	return time.Now().In(config.Get().Timezone).Format("2006-01-02 15:04:05")
}

// titlePrefix tags templated titles with the configured app name so
// pushes from different services are distinguishable on the phone.
func titlePrefix() string {
	if name := config.Get().AppName; name != "" {
		return "[" + name + "] "
	}
	return ""
}
