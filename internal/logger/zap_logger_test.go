package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/koscakluka/ema-assist/core/events"
)

func newObservedLogger() (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return newZapLogger(core), logs
}

func TestLoggerWritesModuleAndDetails(t *testing.T) {
	l, logs := newObservedLogger()

	l.Info("httpapi", "conversation started", map[string]any{"assistant": "barista"})
	l.Warn("httpapi", "no details", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["module"] != "httpapi" {
		t.Fatalf("got=%v want=%q", fields["module"], "httpapi")
	}
	details, ok := fields["details"].(map[string]any)
	if !ok || details["assistant"] != "barista" {
		t.Fatalf("unexpected details %#v", fields["details"])
	}
	if _, ok := entries[1].ContextMap()["details"].(map[string]any); !ok {
		t.Fatalf("expected empty details map for nil details")
	}
}

func TestErrorAttachesError(t *testing.T) {
	l, logs := newObservedLogger()

	l.Error("store", "write failed", map[string]any{"error": errors.New("disk full")})

	entries := logs.FilterField(zap.Error(errors.New("disk full"))).All()
	if len(entries) != 1 {
		t.Fatalf("expected the error field to be attached, got %v", logs.All())
	}
}

func TestFileLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ema.log")
	l := NewFileLogger(path)
	defer l.Close()
	l.Info("cli", "started", map[string]any{"addr": ":8080"})
	if err := l.Sync(); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatalf("expected a log line")
	}
	var entry map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON, got %q: %v", scanner.Text(), err)
	}
	if entry["message"] != "started" || entry["module"] != "cli" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("expected timestamp key in %v", entry)
	}
}

func TestEventHandlerLevels(t *testing.T) {
	l, logs := newObservedLogger()
	handle := EventHandler(l)

	handle(events.NewToolCallCompleted("c1", "call_1", "get_cart", "Your cart is empty."))
	handle(events.NewToolCallFailed("c1", "call_2", "place_order", "disk full", "There was a system error, please try again."))
	handle(events.NewAssistantSpeechFrame("c1", 3, make([]byte, 320)))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.DebugLevel}
	for i, entry := range entries {
		if entry.Level != want[i] {
			t.Fatalf("entry %d: got=%s want=%s", i, entry.Level, want[i])
		}
	}

	frame := entries[2].ContextMap()["details"].(map[string]any)
	if frame["bytes"] != 320 {
		t.Fatalf("expected frame size to be logged, got %v", frame)
	}
	if _, ok := frame["audio"]; ok {
		t.Fatalf("expected audio payload to be left out")
	}
}
