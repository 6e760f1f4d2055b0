package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: "info"})
	log.Info("addiction created", "id", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "addiction created" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestNew_TextInDevAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: "warn", Dev: true})
	log.Info("hidden")
	log.Warn("shown", "goal", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record passed warn filter:\n%s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "goal=abc") {
		t.Errorf("unexpected text output:\n%s", out)
	}
}

type recordingTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (r *recordingTransport) Configure(sentry.ClientOptions) {}
func (r *recordingTransport) Flush(time.Duration) bool { return true }
func (r *recordingTransport) FlushWithContext(context.Context) bool { return true }
func (r *recordingTransport) Close() {}

func (r *recordingTransport) SendEvent(e *sentry.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingTransport) sent() []*sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*sentry.Event(nil), r.events...)
}

func TestNew_ErrorsReachSentry(t *testing.T) {
	rec := &recordingTransport{}
	sentryTransport = rec
	t.Cleanup(func() {
		sentryTransport = nil
		sentry.CurrentHub().BindClient(nil)
	})

	var buf bytes.Buffer
	log := New(&buf, Options{Level: "warn", SentryDSN: "https://public@sentry.example.com/1"})
	log.Warn("goal could not be loaded", "goal", "abc")
	log.Error("command failed", "error", "database is locked")
	Flush(time.Second)

	events := rec.sent()
	if len(events) != 1 {
		t.Fatalf("sentry got %d events, want 1 (error only)", len(events))
	}
	if events[0].Level != sentry.LevelError {
		t.Errorf("level = %v, want error", events[0].Level)
	}
	if !strings.Contains(buf.String(), "command failed") {
		t.Errorf("error record missing from local output:\n%s", buf.String())
	}
}
