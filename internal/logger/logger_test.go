package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		globalLogger = prev
		logLevel = slog.LevelInfo
	})

	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: level, Format: "json", Output: &buf}); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err != nil {
			t.Fatalf("bad log line %q: %v", l, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	buf := captureJSON(t, "INFO")
	ctx := context.Background()

	Debug(ctx, "hidden")
	Info(ctx, "shown", "symbol", "AMZN")

	got := lines(t, buf)
	if len(got) != 1 {
		t.Fatalf("got %d lines, want 1: %s", len(got), buf)
	}
	if got[0]["msg"] != "shown" || got[0]["symbol"] != "AMZN" {
		t.Errorf("line = %v", got[0])
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true at INFO")
	}
}

func TestErrorWithErr(t *testing.T) {
	buf := captureJSON(t, "DEBUG")
	ErrorWithErr(context.Background(), "order failed", errors.New("insufficient buying power"), "symbol", "TSLA")

	got := lines(t, buf)
	if len(got) != 1 || got[0]["level"] != "ERROR" || got[0]["error"] != "insufficient buying power" {
		t.Errorf("lines = %v", got)
	}
}

func TestDecisionAndTrade(t *testing.T) {
	buf := captureJSON(t, "INFO")
	ctx := context.Background()

	Decision(ctx, "AMZN", "BUY", 105)
	Trade(ctx, "AMZN", "BUY", "1", "ord-1", "accepted")

	got := lines(t, buf)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0]["type"] != "DECISION" || got[0]["post_id"] != float64(105) {
		t.Errorf("decision = %v", got[0])
	}
	if got[1]["type"] != "TRADE" || got[1]["order_id"] != "ord-1" {
		t.Errorf("trade = %v", got[1])
	}
}

func TestOperationTimer(t *testing.T) {
	buf := captureJSON(t, "DEBUG")
	ctx := context.Background()

	op := StartOperation(ctx, "engine.buy", "symbol", "AMZN")
	if op.Context() == nil {
		t.Fatal("Context() = nil")
	}
	op.End("order_id", "ord-1")

	failed := StartOperation(ctx, "engine.buy", "symbol", "TSLA")
	failed.EndWithError(errors.New("insufficient buying power"))

	got := lines(t, buf)
	if len(got) != 4 {
		t.Fatalf("got %d lines, want 4: %s", len(got), buf)
	}
	want := []struct{ msg, level, symbol string }{
		{"Operation started", "DEBUG", "AMZN"},
		{"Operation completed", "DEBUG", "AMZN"},
		{"Operation started", "DEBUG", "TSLA"},
		{"Operation failed", "ERROR", "TSLA"},
	}
	for i, w := range want {
		if got[i]["msg"] != w.msg || got[i]["level"] != w.level || got[i]["symbol"] != w.symbol {
			t.Errorf("line %d = %v, want %s/%s/%s", i, got[i], w.msg, w.level, w.symbol)
		}
		if got[i]["operation"] != "engine.buy" {
			t.Errorf("line %d operation = %v", i, got[i]["operation"])
		}
	}
	if got[1]["order_id"] != "ord-1" {
		t.Errorf("completed line = %v", got[1])
	}
	if _, ok := got[1]["duration_ms"]; !ok {
		t.Errorf("completed line has no duration: %v", got[1])
	}
	if got[3]["error"] != "insufficient buying power" {
		t.Errorf("failed line = %v", got[3])
	}
}

func TestIsDebugEnabled(t *testing.T) {
	captureJSON(t, "DEBUG")
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false at DEBUG")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
