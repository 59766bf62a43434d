package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDisabledIsNoop(t *testing.T) {
	if err := InitWithConfig(Config{}); err != nil {
		t.Fatal(err)
	}
	ctx, span := StartSpan(context.Background(), "engine.Step")
	defer span.End()

	if _, _, ok := GetTraceFields(ctx); ok {
		t.Error("GetTraceFields() ok with tracing disabled")
	}
}

func TestSpansExported(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithConfig(Config{Enabled: true, Output: &buf}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "feed.Timeline")
	traceID, spanID, ok := GetTraceFields(ctx)
	if !ok || traceID == "" || spanID == "" {
		t.Fatalf("GetTraceFields() = (%q, %q, %v)", traceID, spanID, ok)
	}
	span.End()

	if err := Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "feed.Timeline") {
		t.Errorf("exported spans do not mention feed.Timeline: %s", buf.String())
	}
	if Enabled() {
		t.Error("Enabled() after Shutdown")
	}
}
