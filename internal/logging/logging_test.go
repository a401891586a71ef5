package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogger returns a debug-level JSON logger writing to the returned buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("no log output")
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("text") != FormatText || ParseFormat(" TEXT ") != FormatText {
		t.Error("ParseFormat(text) should be FormatText")
	}
	if ParseFormat("json") != FormatJSON || ParseFormat("other") != FormatJSON {
		t.Error("ParseFormat should default to FormatJSON")
	}
}

func TestInitLoggerTo(t *testing.T) {
	old := defaultLogger
	defer func() { defaultLogger = old; slog.SetDefault(old) }()

	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelWarn, FormatJSON)

	GetLogger().Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	GetLogger().Warn("shown", "k", "v")
	entry := decodeLine(t, &buf)
	if entry["msg"] != "shown" || entry["k"] != "v" {
		t.Errorf("unexpected entry %v", entry)
	}
	ts, _ := entry["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestInitLoggerToText(t *testing.T) {
	old := defaultLogger
	defer func() { defaultLogger = old; slog.SetDefault(old) }()

	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelDebug, FormatText)
	GetLogger().Debug("text line", "n", 1)
	if !strings.Contains(buf.String(), "msg=\"text line\"") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestOr(t *testing.T) {
	l, _ := captureLogger()
	if Or(l) != l {
		t.Error("Or should return the explicit logger")
	}
	if Or(nil) != GetLogger() {
		t.Error("Or(nil) should return the global logger")
	}
}

func TestGenerationContext(t *testing.T) {
	ctx := WithGeneration(context.Background(), 3)
	if gen, ok := Generation(ctx); !ok || gen != 3 {
		t.Errorf("Generation() = %d, %v; want 3, true", gen, ok)
	}
	if _, ok := Generation(context.Background()); ok {
		t.Error("Generation(empty) reported a value")
	}

	l, buf := captureLogger()
	LoggerFromContext(ctx, l).Info("x")
	if entry := decodeLine(t, buf); entry["generation"] != float64(3) {
		t.Errorf("generation = %v, want 3", entry["generation"])
	}

	buf.Reset()
	LoggerFromContext(context.Background(), l).Info("y")
	if entry := decodeLine(t, buf); entry["generation"] != nil {
		t.Errorf("untagged context logged generation %v", entry["generation"])
	}
}

func TestSourceSkipped(t *testing.T) {
	l, buf := captureLogger()
	SourceSkipped(l, "kjv.json", "ingest", errors.New("bad shape"), "shape", "unrecognized")

	entry := decodeLine(t, buf)
	if entry["msg"] != "source_skipped" || entry["level"] != "WARN" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["source"] != "kjv.json" || entry["stage"] != "ingest" || entry["error"] != "bad shape" || entry["shape"] != "unrecognized" {
		t.Errorf("missing attributes in %v", entry)
	}
}

func TestSourceSkippedNilError(t *testing.T) {
	l, buf := captureLogger()
	SourceSkipped(l, "empty", "fetch", nil)
	if _, ok := decodeLine(t, buf)["error"]; ok {
		t.Error("nil error should not produce an error attribute")
	}
}

func TestDomainEvents(t *testing.T) {
	tests := []struct {
		name  string
		emit  func(*slog.Logger)
		msg   string
		level string
		key   string
	}{
		{"unresolved", func(l *slog.Logger) { UnresolvedBook(l, "Foo", 3) }, "unresolved_book", "WARN", "occurrences"},
		{"built", func(l *slog.Logger) { CorpusBuilt(l, "b1", 10, 5, 50, time.Second) }, "corpus_built", "INFO", "quality_pct"},
		{"low quality", func(l *slog.Logger) { LowQuality(l, 10, 50) }, "corpus_low_quality", "WARN", "threshold_pct"},
		{"cache", func(l *slog.Logger) { CacheEvent(l, "hit", "corpus/v1/snapshot") }, "cache_event", "DEBUG", "key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := captureLogger()
			tt.emit(l)
			entry := decodeLine(t, buf)
			if entry["msg"] != tt.msg {
				t.Errorf("msg = %v, want %s", entry["msg"], tt.msg)
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if _, ok := entry[tt.key]; !ok {
				t.Errorf("missing %s in %v", tt.key, entry)
			}
		})
	}
}
