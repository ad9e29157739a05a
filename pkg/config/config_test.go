package config

import (
	"sync"
	"testing"
	"time"
)

func resetSingleton() {
	instance = nil
	once = sync.Once{}
}

func TestGetAutoInitializes(t *testing.T) {
	resetSingleton()

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Get() panicked: %v", r)
		}
	}()

	cfg := Get()
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Environment == "" {
		t.Error("expected a resolved environment")
	}
	if cfg.Timezone == nil {
		t.Error("expected detected timezone")
	}
}

func TestMustGetPanicsWhenNotInit(t *testing.T) {
	resetSingleton()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected MustGet to panic")
		}
	}()

	MustGet()
}

func TestInitSetsValues(t *testing.T) {
	resetSingleton()

	Init(&AppConfig{
		AppName:        "nightly-etl",
		Environment:    "production",
		Timezone:       time.UTC,
		DefaultChannel: "9",
	})

	cfg := Get()
	if cfg.AppName != "nightly-etl" {
		t.Errorf("expected nightly-etl, got %s", cfg.AppName)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected production, got %s", cfg.Environment)
	}
	if cfg.DefaultChannel != "9" {
		t.Errorf("expected channel 9, got %s", cfg.DefaultChannel)
	}
}
