package game

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Final":       StatusFinal,
		"Final/OT":    StatusFinal,
		"3":           StatusFinal,
		"1":           StatusScheduled,
		"7:30 pm ET":  StatusScheduled,
		"1st Qtr":     StatusInProgress,
		"Halftime":    StatusInProgress,
		"Q4 2:31":     StatusInProgress,
		"PPD":         StatusPostponed,
		"Postponed":   StatusPostponed,
		"Cancelled":   StatusCancelled,
		"":            StatusUnknown,
		"weird state": StatusUnknown,
		"InProgress":  StatusInProgress,
		"scheduled":   StatusScheduled,
	}

	for raw, want := range cases {
		if got := ParseStatus(raw); got != want {
			t.Fatalf("unexpected status for %q: got=%s want=%s", raw, got, want)
		}
	}
}

func TestSourceRecord_Validate(t *testing.T) {
	valid := SourceRecord{
		Provider:       ProviderNBA,
		ProviderGameID: "0022500123",
		Date:           DateOnly(2025, time.November, 1),
		HomeTeamRef:    "DET",
		AwayTeamRef:    "DAL",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}

	t.Run("missing team ref", func(t *testing.T) {
		r := valid
		r.AwayTeamRef = " "
		if err := r.Validate(); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("zero date", func(t *testing.T) {
		r := valid
		r.Date = time.Time{}
		if err := r.Validate(); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("same teams", func(t *testing.T) {
		r := valid
		r.AwayTeamRef = "det"
		if err := r.Validate(); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
	})
}

func TestSourceRecord_EffectiveStart(t *testing.T) {
	date := DateOnly(2025, time.November, 1)
	r := SourceRecord{Date: date}
	if !r.EffectiveStart().Equal(date) {
		t.Fatalf("expected ET midnight fallback, got %s", r.EffectiveStart())
	}
	if r.HasRealStartTime() {
		t.Fatalf("missing start time is not real")
	}

	placeholder := date
	r.StartTime = &placeholder
	if r.HasRealStartTime() {
		t.Fatalf("ET midnight is a placeholder")
	}

	tip := time.Date(2025, time.November, 1, 19, 30, 0, 0, Eastern)
	r.StartTime = &tip
	if !r.HasRealStartTime() {
		t.Fatalf("expected real start time")
	}
}

func TestSourceRecord_UTCMidnightPlaceholder(t *testing.T) {
	date := DateOnly(2025, time.November, 4)
	placeholder := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		provider Provider
		start    time.Time
		real     bool
	}{
		{"balldontlie placeholder", ProviderBallDontLie, placeholder, false},
		{"balldontlie 7pm EST tip", ProviderBallDontLie, evening, true},
		{"nba keeps 00:00Z", ProviderNBA, placeholder, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := tc.start
			r := SourceRecord{Provider: tc.provider, Date: date, StartTime: &start}
			if got := r.HasRealStartTime(); got != tc.real {
				t.Fatalf("unexpected HasRealStartTime: got=%v want=%v", got, tc.real)
			}
			if tc.real {
				if !r.EffectiveStart().Equal(tc.start) || r.ReportedStart() == nil {
					t.Fatalf("real start should be kept, got %s", r.EffectiveStart())
				}
				return
			}
			if !r.EffectiveStart().Equal(date) || r.ReportedStart() != nil {
				t.Fatalf("placeholder should fall back to ET midnight, got %s", r.EffectiveStart())
			}
		})
	}
}

func TestIsUTCMidnightPlaceholder(t *testing.T) {
	date := DateOnly(2025, time.October, 22)
	if !IsUTCMidnightPlaceholder(time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC), date) {
		t.Fatalf("00:00Z on the game date is a placeholder")
	}
	// 8pm EDT on Oct 22.
	if IsUTCMidnightPlaceholder(time.Date(2025, 10, 23, 0, 0, 0, 0, time.UTC), date) {
		t.Fatalf("00:00Z on the next day is a real evening tip-off")
	}
	if IsUTCMidnightPlaceholder(time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC), time.Time{}) {
		t.Fatalf("no date means no placeholder decision")
	}
}

func TestETDate_AcrossDST(t *testing.T) {
	// 02:30 UTC on Nov 3 2025 is still Nov 2 in New York.
	got := ETDate(time.Date(2025, time.November, 3, 2, 30, 0, 0, time.UTC))
	if got.Format("2006-01-02") != "2025-11-02" {
		t.Fatalf("unexpected ET date: %s", got.Format("2006-01-02"))
	}
}

func TestCanonicalGame_SourceIDs(t *testing.T) {
	g := CanonicalGame{Sources: []SourceRef{
		{Provider: ProviderBBRef, ProviderGameID: "202511010DET"},
		{Provider: ProviderNBA, ProviderGameID: "0022500124"},
		{Provider: ProviderNBA, ProviderGameID: "0022500123"},
	}}

	ids := g.SourceIDs()
	if len(ids) != 2 {
		t.Fatalf("unexpected provider count: got=%d want=2", len(ids))
	}
	if ids[ProviderNBA] != "0022500123" {
		t.Fatalf("expected smallest nba id, got %s", ids[ProviderNBA])
	}

	g.SortSources()
	if g.Sources[0].Provider != ProviderBBRef || g.Sources[1].ProviderGameID != "0022500123" {
		t.Fatalf("unexpected source order: %+v", g.Sources)
	}
}

func TestParseSourceRef(t *testing.T) {
	ref, err := ParseSourceRef("NBA:0022500123")
	if err != nil {
		t.Fatalf("parse source ref: %v", err)
	}
	if ref.Provider != ProviderNBA || ref.ProviderGameID != "0022500123" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
	if _, err := ParseSourceRef("0022500123"); err == nil {
		t.Fatalf("expected error without provider")
	}
}
