package notifiers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fsandov/serverchan-go/pkg/serverchan"
)

// ServerChanNotifier forwards log events as WeChat pushes. The level is
// stamped into the title and structured fields become a markdown list.
type ServerChanNotifier struct {
	Client      *serverchan.Client
	TitlePrefix string
}

func NewServerChanNotifier(client *serverchan.Client, titlePrefix string) *ServerChanNotifier {
	return &ServerChanNotifier{
		Client:      client,
		TitlePrefix: titlePrefix,
	}
}

func (n *ServerChanNotifier) Notify(ctx context.Context, level string, message string, fields map[string]any) error {
	title := fmt.Sprintf("[%s] %s", strings.ToUpper(level), message)
	if n.TitlePrefix != "" {
		title = n.TitlePrefix + " " + title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Level**: %s\n\n", level)
	fmt.Fprintf(&b, "**Message**: %s\n", message)
	if len(fields) > 0 {
		b.WriteString("\n**Fields**:\n")
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %v\n", k, fields[k])
		}
	}

	_, err := n.Client.SendMessage(ctx, serverchan.Message{
		Title: title,
		Desp:  b.String(),
		Short: message,
	})
	return err
}
