package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	"github.com/riskibarqy/hoops-reconciler/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/capability"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

type identityFixture struct {
	svc      *usecase.IdentityService
	mappings *memory.MappingRepository
	issues   *memory.IdentityIssueRepository
}

func newIdentityFixture(t *testing.T, players ...player.Player) identityFixture {
	t.Helper()
	teams, err := memory.SeedTeams()
	if err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	f := identityFixture{
		mappings: memory.NewMappingRepository(),
		issues:   memory.NewIdentityIssueRepository(),
	}
	f.svc = usecase.NewIdentityService(
		memory.NewTeamRepository(teams),
		memory.NewPlayerRepository(players),
		f.mappings,
		f.issues,
		memory.NewBoxScoreRepository(nil),
		capability.Static("player_stats", false),
		usecase.IdentityServiceConfig{},
		logging.NewNop(),
	)
	return f
}

func TestIdentityService_ResolveTeam(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	if err := f.mappings.UpsertMappings(ctx, []identity.Mapping{{
		EntityType: identity.EntityTeam,
		Provider:   game.ProviderOddsFeed,
		ProviderID: "Motor City",
		InternalID: "DET",
	}}); err != nil {
		t.Fatalf("upsert mapping: %v", err)
	}

	cases := []struct {
		name     string
		provider game.Provider
		ref      string
		want     string
	}{
		{"catalog provider id", game.ProviderNBA, "1610612765", "DET"},
		{"abbreviation", game.ProviderBBRef, "dal", "DAL"},
		{"full name", game.ProviderOddsFeed, "Detroit  Pistons", "DET"},
		{"nickname", game.ProviderOddsFeed, "mavericks", "DAL"},
		{"mapping table", game.ProviderOddsFeed, "Motor City", "DET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.ResolveTeam(ctx, tc.provider, tc.ref)
			if err != nil {
				t.Fatalf("resolve team: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected team: got=%s want=%s", got, tc.want)
			}
		})
	}

	if _, err := f.svc.ResolveTeam(ctx, game.ProviderNBA, "Seattle SuperSonics"); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIdentityService_ResolvePlayer_Ambiguous(t *testing.T) {
	f := newIdentityFixture(t,
		player.Player{ID: "p-okc", FirstName: "Jalen", LastName: "Williams", TeamID: "OKC", Active: true},
		player.Player{ID: "p-den", FirstName: "Jalen", LastName: "Williams", TeamID: "DEN", Active: true},
	)

	res, err := f.svc.ResolvePlayer(context.Background(), identity.Query{Name: "Jalen Williams", TeamID: "DAL"})
	if err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if res.Outcome != identity.OutcomeAmbiguous || len(res.Candidates) != 2 {
		t.Fatalf("expected ambiguous result, got %+v", res)
	}

	res, err = f.svc.ResolvePlayer(context.Background(), identity.Query{Name: "Jalen Williams", TeamID: "OKC"})
	if err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if !res.Found() || res.PlayerID != "p-okc" || res.Strategy != "team:exact" {
		t.Fatalf("expected team roster to win, got %+v", res)
	}
}

func TestIdentityService_ResolveIssue(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t,
		player.Player{ID: "p-okc", FirstName: "Jalen", LastName: "Williams", TeamID: "OKC", Active: true},
		player.Player{ID: "p-den", FirstName: "Jalen", LastName: "Williams", TeamID: "DEN", Active: true},
	)
	q := identity.Query{Name: "J. Williams", Provider: game.ProviderBBRef, ProviderRef: "willija06", TeamID: "OKC"}
	issue := identity.IssueFromResult(q, "cid-1", identity.NotFound(), time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC))
	if err := f.svc.RecordIssues(ctx, []identity.Issue{issue}); err != nil {
		t.Fatalf("record issues: %v", err)
	}

	closed, err := f.svc.ResolveIssue(ctx, usecase.ResolveIssueInput{Provider: "bbref", ProviderRef: "willija06", PlayerID: "p-okc"})
	if err != nil {
		t.Fatalf("resolve issue: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected one issue closed, got %d", closed)
	}
	open, err := f.issues.ListOpen(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("expected no open issues, got %+v", open)
	}

	res, err := f.svc.ResolvePlayer(ctx, q)
	if err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if res.PlayerID != "p-okc" || res.Strategy != "mapping" {
		t.Fatalf("expected manual mapping to resolve, got %+v", res)
	}

	if _, err := f.svc.ResolveIssue(ctx, usecase.ResolveIssueInput{Provider: "bbref", ProviderRef: "x", PlayerID: "nobody"}); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found for unknown player, got %v", err)
	}
}
