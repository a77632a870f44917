package id

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCanonicalGameID_OrientationIndependent(t *testing.T) {
	date := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	a := CanonicalGameID(date, "DAL", "DET")
	b := CanonicalGameID(date, "det", "dal")
	if a != b {
		t.Fatalf("expected orientation independent id: %s vs %s", a, b)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected uuid, got %q: %v", a, err)
	}
	if other := CanonicalGameID(date.AddDate(0, 0, 1), "DAL", "DET"); other == a {
		t.Fatalf("expected different id for a different date")
	}
}

func TestRandomGenerator_NewID(t *testing.T) {
	gen := NewRandomGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique ids, got %s twice", first)
	}
}

func TestPlayerID_Stable(t *testing.T) {
	if PlayerID("NBA", " 1629029 ") != PlayerID("nba", "1629029") {
		t.Fatalf("expected provider and ref normalization")
	}
}
