package logs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeNotifier struct {
	mu     sync.Mutex
	calls  int
	level  string
	msg    string
	fields map[string]any
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, level, msg string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.level = level
	f.msg = msg
	f.fields = fields
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, obs := observer.New(zapcore.DebugLevel)
	return &Logger{
		zap:       zap.New(core),
		notifiers: make(map[string][]namedNotifier),
	}, obs
}

func TestLoggerKeyValuePairs(t *testing.T) {
	l, obs := newObservedLogger()

	l.Info(context.Background(), "test msg", "key1", "val1", "key2", 42)

	entries := obs.All()
	if len(entries) == 0 {
		t.Fatal("expected at least one log entry")
	}

	entry := entries[0]
	fieldMap := make(map[string]zapcore.Field)
	for _, f := range entry.Context {
		fieldMap[f.Key] = f
	}

	if f, ok := fieldMap["key1"]; !ok {
		t.Error("expected field 'key1'")
	} else if f.String != "val1" {
		t.Errorf("expected key1=val1, got %v", f.String)
	}

	if _, ok := fieldMap["key2"]; !ok {
		t.Error("expected field 'key2'")
	}
}

func TestLoggerZapFields(t *testing.T) {
	l, obs := newObservedLogger()

	l.Info(context.Background(), "test msg", zap.String("field1", "val1"))

	entries := obs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].Context) != 1 || entries[0].Context[0].Key != "field1" {
		t.Errorf("expected field1 in context, got %v", entries[0].Context)
	}
}

func TestLoggerAppNamePrefix(t *testing.T) {
	l, obs := newObservedLogger()
	l.appName = "pusher"

	l.Warn(context.Background(), "slow send")

	entries := obs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "[pusher] slow send" {
		t.Errorf("unexpected message %q", entries[0].Message)
	}
}

func TestNotifierFanOut(t *testing.T) {
	l, _ := newObservedLogger()
	errNotifier := &fakeNotifier{}
	l.AddNotifier("error", "serverchan", errNotifier)

	l.Error(context.Background(), "db down", zap.String("host", "db-1"), WithNotifier())
	l.Flush()

	if errNotifier.callCount() != 1 {
		t.Fatalf("expected 1 notification, got %d", errNotifier.callCount())
	}
	if errNotifier.level != "error" {
		t.Errorf("expected level error, got %s", errNotifier.level)
	}
	if errNotifier.fields["host"] != "db-1" {
		t.Errorf("expected host field, got %v", errNotifier.fields)
	}

	// Without the option nothing is pushed.
	l.Error(context.Background(), "db still down")
	l.Flush()
	if errNotifier.callCount() != 1 {
		t.Errorf("expected no extra notification, got %d", errNotifier.callCount())
	}
}

func TestNotifyTargetFiltering(t *testing.T) {
	l, _ := newObservedLogger()
	primary := &fakeNotifier{}
	secondary := &fakeNotifier{}
	l.AddNotifier("error", "primary", primary)
	l.AddNotifier("error", "secondary", secondary)

	l.Error(context.Background(), "routed", WithNotifyTarget("secondary"))
	l.Flush()

	if primary.callCount() != 0 {
		t.Errorf("expected primary to be skipped, got %d calls", primary.callCount())
	}
	if secondary.callCount() != 1 {
		t.Errorf("expected secondary to be notified once, got %d", secondary.callCount())
	}
}

func TestNotifierErrorIsLoggedNotPropagated(t *testing.T) {
	l, obs := newObservedLogger()
	failing := &fakeNotifier{err: errors.New("relay down")}
	l.AddNotifier("error", "serverchan", failing)

	l.Error(context.Background(), "something broke", WithNotifier())
	l.Flush()

	found := false
	for _, e := range obs.All() {
		if e.Message == "failed to send notification" {
			found = true
		}
	}
	if !found {
		t.Error("expected failed notification to be logged")
	}
}
