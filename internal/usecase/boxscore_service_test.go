package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

func TestPickLineSource(t *testing.T) {
	nba := game.SourceRef{Provider: game.ProviderNBA, ProviderGameID: "0022500123"}
	bdl := game.SourceRef{Provider: game.ProviderBallDontLie, ProviderGameID: "18444123"}
	bbref := game.SourceRef{Provider: game.ProviderBBRef, ProviderGameID: "202511010DET"}
	lineFor := func(ref game.SourceRef, name string) boxscore.StatLine {
		return boxscore.StatLine{Provider: ref.Provider, ProviderGameID: ref.ProviderGameID, PlayerName: name}
	}

	cases := []struct {
		name   string
		chosen game.SourceRef
		lines  []boxscore.StatLine
		want   game.SourceRef
		count  int
	}{
		{
			name:   "chosen source has lines",
			chosen: bbref,
			lines:  []boxscore.StatLine{lineFor(nba, "a"), lineFor(bbref, "b"), lineFor(bbref, "c")},
			want:   bbref,
			count:  2,
		},
		{
			name:   "falls back to highest priority",
			chosen: nba,
			lines:  []boxscore.StatLine{lineFor(bbref, "a"), lineFor(bdl, "b")},
			want:   bdl,
			count:  1,
		},
		{
			name:   "no lines",
			chosen: nba,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := game.CanonicalGame{ID: "cid", ChosenSource: tc.chosen}
			got, lines := pickLineSource(g, tc.lines)
			if got != tc.want || len(lines) != tc.count {
				t.Fatalf("unexpected pick: got=%s (%d lines) want=%s (%d lines)", got, len(lines), tc.want, tc.count)
			}
		})
	}
}

var testDay = game.DateOnly(2025, time.November, 1)

func TestGameQuery(t *testing.T) {
	q, err := gameQuery(testDay, testDay, " DAL ", "", true)
	if err != nil {
		t.Fatalf("game query: %v", err)
	}
	if q.TeamID != "DAL" || !q.UnvalidatedOnly || !q.From.Equal(testDay) {
		t.Fatalf("unexpected query: %+v", q)
	}

	q, err = gameQuery(time.Time{}, time.Time{}, "", "cid-1", false)
	if err != nil || q.GameID != "cid-1" || !q.From.IsZero() {
		t.Fatalf("unexpected single game query: %+v err=%v", q, err)
	}
	if _, err := gameQuery(time.Time{}, time.Time{}, "", "", false); err == nil {
		t.Fatalf("expected open window error")
	}
	if _, err := gameQuery(testDay, testDay.AddDate(0, 0, -1), "", "", false); err == nil {
		t.Fatalf("expected inverted window error")
	}
}
