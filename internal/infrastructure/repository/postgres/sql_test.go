package postgres

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullableHelpers(t *testing.T) {
	if nullableString("") != nil {
		t.Fatalf("expected nil for empty string")
	}
	if got := nullableString("DET"); got == nil || *got != "DET" {
		t.Fatalf("unexpected nullable string: %v", got)
	}
	if nullIntPtr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil for invalid int")
	}
	if got := nullIntPtr(sql.NullInt64{Int64: 110, Valid: true}); got == nil || *got != 110 {
		t.Fatalf("unexpected int: %v", got)
	}
	if got := nullFloatPtr(sql.NullFloat64{Float64: 36.2, Valid: true}); got == nil || *got != 36.2 {
		t.Fatalf("unexpected float: %v", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	raw, err := marshalJSON(nil)
	if err != nil || raw != "{}" {
		t.Fatalf("expected empty object, got %q err=%v", raw, err)
	}

	raw, err = marshalJSON(map[string]any{"second_source": false})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := unmarshalJSON(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["second_source"] != false {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDateOnly(t *testing.T) {
	et, _ := time.LoadLocation("America/New_York")
	if got := dateOnly(time.Date(2025, 11, 1, 0, 0, 0, 0, et)); got != "2025-11-01" {
		t.Fatalf("unexpected date: %s", got)
	}
}
