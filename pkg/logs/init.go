package logs

import (
	"os"

	"github.com/fsandov/serverchan-go/pkg/notifiers"
	"github.com/fsandov/serverchan-go/pkg/serverchan"
	"go.uber.org/zap"
)

// AutoInitNotifiers wires WeChat pushes into the logger from the
// environment: SERVERCHAN_SENDKEY enables them, and for each level an
// optional SERVERCHAN_CHANNEL_<LEVEL> variable picks the channel.
// Without a send key this is a no-op.
func AutoInitNotifiers() {
	logger := GetLogger()

	sendKey := os.Getenv("SERVERCHAN_SENDKEY")
	if sendKey == "" {
		return
	}

	levels := []string{"error", "warn", "info"}
	for _, lvl := range levels {
		opts := []serverchan.Option{}
		if channel := os.Getenv("SERVERCHAN_CHANNEL_" + upper(lvl)); channel != "" {
			opts = append(opts, serverchan.WithChannel(channel))
		}
		client, err := serverchan.New(sendKey, opts...)
		if err != nil {
			logger.zap.Error("Failed to init ServerChan notifier", zap.String("level", lvl), zap.Error(err))
			continue
		}
		prefix := "[" + logger.appName + "]"
		if logger.appName == "" {
			prefix = ""
		}
		notifier := notifiers.NewServerChanNotifier(client, prefix)
		logger.AddNotifier(lvl, "serverchan", notifier)
		logger.zap.Info("ServerChan notifier configured", zap.String("level", lvl))
	}
}

func upper(s string) string {
	if len(s) == 0 {
		return s
	}
	out := []byte(s)
	for i := range out {
		if out[i] >= 'a' && out[i] <= 'z' {
			out[i] -= 32
		}
	}
	return string(out)
}
