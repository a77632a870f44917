package identity

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/capability"
)

type fakeDirectory struct {
	mappings    map[string]string
	players     []player.Player
	recent      []player.Player
	recentSince time.Time
	recentCalls int
}

func (f *fakeDirectory) PlayerMapping(_ context.Context, provider game.Provider, ref string) (string, error) {
	if id, ok := f.mappings[string(provider)+":"+ref]; ok {
		return id, nil
	}
	return "", ErrNotFound
}

func (f *fakeDirectory) TeamRoster(_ context.Context, teamID string) ([]player.Player, error) {
	var out []player.Player
	for _, p := range f.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDirectory) AllPlayers(context.Context) ([]player.Player, error) {
	return f.players, nil
}

func (f *fakeDirectory) RecentStatPlayers(_ context.Context, _ []string, since time.Time) ([]player.Player, error) {
	f.recentCalls++
	f.recentSince = since
	return f.recent, nil
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		mappings: map[string]string{"nba:1630595": "p-cade"},
		players: []player.Player{
			{ID: "p-cade", FirstName: "Cade", LastName: "Cunningham", TeamID: "DET"},
			{ID: "p-jaden", FirstName: "Jaden", LastName: "Ivey", TeamID: "DET"},
			{ID: "p-tim", FirstName: "Tim", LastName: "Hardaway Jr.", TeamID: "DET"},
			{ID: "p-ausar", FirstName: "Ausar", LastName: "Thompson", TeamID: "DET"},
			{ID: "p-amen", FirstName: "Amen", LastName: "Thompson", TeamID: "HOU"},
			{ID: "p-luka", FirstName: "Luka", LastName: "Dončić", TeamID: "LAL"},
			{ID: "p-kai", FirstName: "Kyrie", LastName: "Irving", TeamID: "DAL"},
			{ID: "p-dj", FirstName: "Dereck", LastName: "Lively II", TeamID: "DAL"},
		},
	}
}

func TestResolver_Chain(t *testing.T) {
	cases := []struct {
		name         string
		query        Query
		wantOutcome  Outcome
		wantPlayer   string
		wantStrategy string
		lowPrecision bool
	}{
		{
			name:         "mapping wins first",
			query:        Query{Name: "Somebody Else", TeamID: "DET", Provider: game.ProviderNBA, ProviderRef: "1630595"},
			wantOutcome:  OutcomeFound,
			wantPlayer:   "p-cade",
			wantStrategy: "mapping",
		},
		{
			name:         "exact on team",
			query:        Query{Name: "Jaden Ivey", TeamID: "DET"},
			wantOutcome:  OutcomeFound,
			wantPlayer:   "p-jaden",
			wantStrategy: "team:exact",
		},
		{
			name:         "suffix on team",
			query:        Query{Name: "Tim Hardaway", TeamID: "DET"},
			wantOutcome:  OutcomeFound,
			wantPlayer:   "p-tim",
			wantStrategy: "team:suffix",
		},
		{
			name:         "last name only is low precision",
			query:        Query{Name: "K. Irving", TeamID: "DAL"},
			wantOutcome:  OutcomeFound,
			wantPlayer:   "p-kai",
			wantStrategy: "team:last_name",
			lowPrecision: true,
		},
		{
			name:         "traded player found across all players",
			query:        Query{Name: "Luka Doncic", TeamID: "DAL"},
			wantOutcome:  OutcomeFound,
			wantPlayer:   "p-luka",
			wantStrategy: "all:normalized",
		},
		{
			name:         "ambiguous last name stops the chain",
			query:        Query{Name: "A. Thompson", TeamID: "MIA"},
			wantOutcome:  OutcomeAmbiguous,
			wantStrategy: "all:last_name",
		},
		{
			name:        "unknown player",
			query:       Query{Name: "Nobody Known", TeamID: "DET"},
			wantOutcome: OutcomeNotFound,
		},
	}

	resolver := NewResolver(newFakeDirectory(), capability.Static("stat_rows", false), 0)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), tc.query)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got.Outcome != tc.wantOutcome || got.PlayerID != tc.wantPlayer || got.Strategy != tc.wantStrategy {
				t.Fatalf("unexpected result: %+v", got)
			}
			if got.LowPrecision != tc.lowPrecision {
				t.Fatalf("unexpected low precision flag: %v", got.LowPrecision)
			}
		})
	}
}

func TestResolver_AmbiguousListsCandidates(t *testing.T) {
	resolver := NewResolver(newFakeDirectory(), nil, 0)
	got, err := resolver.Resolve(context.Background(), Query{Name: "A. Thompson", TeamID: "MIA"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got.Candidates) != 2 || got.Candidates[0].PlayerID != "p-amen" || got.Candidates[1].PlayerID != "p-ausar" {
		t.Fatalf("unexpected candidates: %+v", got.Candidates)
	}
}

func TestResolver_RecentStatsGatedByFlag(t *testing.T) {
	gameDate := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	query := Query{Name: "Two-Way Guy", TeamID: "DET", OpponentTeamID: "DAL", GameDate: gameDate}

	t.Run("disabled flag skips lookup", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.recent = []player.Player{{ID: "p-twoway", FirstName: "Two-Way", LastName: "Guy", TeamID: ""}}
		resolver := NewResolver(dir, capability.Static("stat_rows", false), 0)

		got, err := resolver.Resolve(context.Background(), query)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got.Outcome != OutcomeNotFound || dir.recentCalls != 0 {
			t.Fatalf("expected no recent lookup, got %+v calls=%d", got, dir.recentCalls)
		}
	})

	t.Run("enabled flag finds recent player", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.recent = []player.Player{{ID: "p-twoway", FirstName: "Two-Way", LastName: "Guy", TeamID: ""}}
		resolver := NewResolver(dir, capability.Static("stat_rows", true), 30*24*time.Hour)

		got, err := resolver.Resolve(context.Background(), query)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got.PlayerID != "p-twoway" || got.Strategy != "recent:exact" {
			t.Fatalf("unexpected result: %+v", got)
		}
		if !dir.recentSince.Equal(gameDate.Add(-30 * 24 * time.Hour)) {
			t.Fatalf("unexpected recent window start: %s", dir.recentSince)
		}
	})
}

func TestIssueFromResult(t *testing.T) {
	q := Query{Name: "A. Thompson", TeamID: "MIA", Provider: game.ProviderBBRef, ProviderRef: "thompam01"}
	res := Result{Outcome: OutcomeAmbiguous, Candidates: []Candidate{{PlayerID: "p-amen"}, {PlayerID: "p-ausar"}}}

	issue := IssueFromResult(q, "g-1", res, time.Now())
	if issue.Status != IssueAmbiguous || len(issue.Candidates) != 2 || issue.GameID != "g-1" || issue.Resolved() {
		t.Fatalf("unexpected issue: %+v", issue)
	}
}
