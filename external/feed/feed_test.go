package feed

import (
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

func TestInt(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want *int
	}{
		{"nil", nil, nil},
		{"blank", " ", nil},
		{"string", "110", game.IntPtr(110)},
		{"signed", "+5", game.IntPtr(5)},
		{"negative", "-12", game.IntPtr(-12)},
		{"float", float64(108), game.IntPtr(108)},
		{"garbage", "n/a", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Int(tc.in)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %d", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("expected %d, got %v", *tc.want, got)
			}
		})
	}
}

func TestDecode_Unreadable(t *testing.T) {
	var out map[string]any
	err := Decode(game.ProviderNBA, []byte("{not json"), &out)
	if !crerr.Is(err, ErrUnreadablePayload) {
		t.Fatalf("expected unreadable payload error, got %v", err)
	}
	if err := Decode(game.ProviderNBA, nil, &out); !crerr.Is(err, ErrUnreadablePayload) {
		t.Fatalf("expected unreadable payload error for empty document, got %v", err)
	}
}

func TestStringAndBool(t *testing.T) {
	if String(1610612765) != "1610612765" {
		t.Fatalf("unexpected numeric string: %q", String(1610612765))
	}
	if !Bool("1") || Bool("0") || !Bool(true) {
		t.Fatalf("unexpected bool parsing")
	}
	if Time("2025-11-01T23:30:00.000Z") == nil || Time("tbd") != nil {
		t.Fatalf("unexpected time parsing")
	}
}

func TestTime_ZonelessIsEastern(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"utc offset", "2025-11-02T00:30:00Z", time.Date(2025, 11, 2, 0, 30, 0, 0, time.UTC)},
		{"explicit offset", "2025-11-01T19:30:00-04:00", time.Date(2025, 11, 1, 23, 30, 0, 0, time.UTC)},
		{"zoneless during EDT", "2025-11-01T19:30:00", time.Date(2025, 11, 1, 23, 30, 0, 0, time.UTC)},
		{"zoneless during EST", "2025-11-03T19:30:00", time.Date(2025, 11, 4, 0, 30, 0, 0, time.UTC)},
		{"zoneless fractional", "2025-11-03T19:30:00.000", time.Date(2025, 11, 4, 0, 30, 0, 0, time.UTC)},
		{"space separated", "2025-11-03 19:30:00", time.Date(2025, 11, 4, 0, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Time(tc.in)
			if got == nil {
				t.Fatalf("expected %q to parse", tc.in)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("unexpected instant: got=%s want=%s", got.UTC(), tc.want)
			}
		})
	}
}
