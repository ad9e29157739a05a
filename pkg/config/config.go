package config

import (
	"os"
	"sync"
	"time"

	"github.com/fsandov/serverchan-go/pkg/env"
)

// AppConfig carries the process-wide settings the SDK stamps into
// notifications: the app name used as a title prefix, the timezone used
// for timestamps in templated bodies and the channel applied when a
// message does not pick one.
type AppConfig struct {
	AppName        string
	Environment    string
	Timezone       *time.Location
	DefaultChannel string
}

var (
	instance *AppConfig
	once     sync.Once
)

func Init(cfg *AppConfig) {
	once.Do(func() {
		if cfg.AppName == "" {
			cfg.AppName = os.Getenv("APP_NAME")
		}
		if cfg.Environment == "" {
			cfg.Environment = env.GetEnvironment()
		}
		if cfg.Environment == "" {
			cfg.Environment = "local"
		}
		if cfg.Timezone == nil {
			cfg.Timezone = DetectTimezone()
		}
		instance = cfg
	})
}

func Get() *AppConfig {
	if instance == nil {
		Init(&AppConfig{})
	}
	return instance
}

func MustGet() *AppConfig {
	if instance == nil {
		panic("AppConfig not initialized: call config.Init first")
	}
	return instance
}

// DetectTimezone resolves the timezone used for notification timestamps
// from TZ, falling back to UTC.
func DetectTimezone() *time.Location {
	tzName := os.Getenv("TZ")
	if tzName != "" {
		if tz, err := time.LoadLocation(tzName); err == nil {
			return tz
		}
	}
	return time.UTC
}
