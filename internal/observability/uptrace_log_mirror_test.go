package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog(zapcore.DebugLevel, "player resolved by low precision strategy") {
		t.Fatalf("expected debug log to be skipped")
	}
	if !shouldSkipUptraceLog(zapcore.WarnLevel, "ingest row rejected") {
		t.Fatalf("expected per-row rejection log to be skipped")
	}
	if shouldSkipUptraceLog(zapcore.InfoLevel, "reconcile finished") {
		t.Fatalf("did not expect run summary log to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"canonical_id", "cg-dal-det", "attempt", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "canonical_id" || attrs[0].Value.AsString() != "cg-dal-det" {
		t.Fatalf("unexpected canonical_id attribute")
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"points":   110,
		"overtime": true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	items := v.AsMap()
	if len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}
