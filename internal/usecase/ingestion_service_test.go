package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/capability"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

type fakeNormalizer struct {
	provider game.Provider
	batch    usecase.ExternalBatch
	err      error
}

func (f fakeNormalizer) Provider() game.Provider { return f.provider }

func (f fakeNormalizer) Normalize(_ context.Context, kind usecase.PayloadKind, _ []byte) (usecase.ExternalBatch, error) {
	if f.err != nil {
		return usecase.ExternalBatch{}, f.err
	}
	out := f.batch
	out.Kind = kind
	return out, nil
}

type ingestionFixture struct {
	svc     *usecase.IngestionService
	sources *memory.SourceRecordRepository
	lines   *memory.StatLineRepository
	raw     *memory.RawDataRepository
	players *memory.PlayerRepository
}

func newIngestionFixture(t *testing.T, normalizers ...usecase.ProviderNormalizer) ingestionFixture {
	t.Helper()
	teams, err := memory.SeedTeams()
	if err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	f := ingestionFixture{
		sources: memory.NewSourceRecordRepository(),
		lines:   memory.NewStatLineRepository(),
		raw:     memory.NewRawDataRepository(),
		players: memory.NewPlayerRepository(nil),
	}
	identitySvc := usecase.NewIdentityService(
		memory.NewTeamRepository(teams), f.players, memory.NewMappingRepository(),
		memory.NewIdentityIssueRepository(), memory.NewBoxScoreRepository(nil),
		capability.Static("player_stats", false), usecase.IdentityServiceConfig{}, logging.NewNop(),
	)
	f.svc = usecase.NewIngestionService(normalizers, f.sources, f.lines, f.raw, identitySvc, logging.NewNop())
	return f
}

func TestIngestionService_Ingest_RejectsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	good := game.SourceRecord{
		Provider:       game.ProviderBBRef,
		ProviderGameID: "202511010DET",
		Date:           game.DateOnly(2025, time.November, 1),
		HomeTeamRef:    "DET",
		AwayTeamRef:    "DAL",
		Status:         game.StatusFinal,
		HomeScore:      game.IntPtr(110),
		AwayScore:      game.IntPtr(108),
	}
	sameTeam := good
	sameTeam.ProviderGameID = "202511010LAL"
	sameTeam.HomeTeamRef, sameTeam.AwayTeamRef = "LAL", "LAL"

	f := newIngestionFixture(t, fakeNormalizer{
		provider: game.ProviderBBRef,
		batch:    usecase.ExternalBatch{Games: []game.SourceRecord{good, sameTeam}},
	})

	summary, err := f.svc.Ingest(ctx, usecase.IngestInput{Provider: "BBRef", Kind: "games", Payload: []byte(`[]`)})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.Accepted != 1 || summary.Rejected != 1 || summary.Rejections[0].RawID != "202511010LAL" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	stored, err := f.sources.ListSourceRecordsByRefs(ctx, []game.SourceRef{good.Ref(), sameTeam.Ref()})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(stored) != 1 || stored[0].ProviderGameID != good.ProviderGameID {
		t.Fatalf("unexpected stored records: %+v", stored)
	}
}

func TestIngestionService_Ingest_ArchivesPayloadOnce(t *testing.T) {
	ctx := context.Background()
	line := boxscore.StatLine{Provider: game.ProviderBBRef, ProviderGameID: "202511010DET", PlayerName: "Cade Cunningham", TeamRef: "DET"}
	f := newIngestionFixture(t, fakeNormalizer{
		provider: game.ProviderBBRef,
		batch:    usecase.ExternalBatch{StatLines: []boxscore.StatLine{line}},
	})

	input := usecase.IngestInput{Provider: "bbref", Kind: "stats", Payload: []byte(`{"rows": []}`)}
	for i := 0; i < 2; i++ {
		summary, err := f.svc.Ingest(ctx, input)
		if err != nil {
			t.Fatalf("ingest #%d: %v", i+1, err)
		}
		if !summary.Archived || summary.Accepted != 1 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
	}
	if f.raw.Len() != 1 {
		t.Fatalf("expected identical payloads archived once, got %d", f.raw.Len())
	}
	lines, err := f.lines.ListStatLines(ctx, []game.SourceRef{line.GameRef()})
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected upsert to keep one line, got %d", len(lines))
	}
}

func TestIngestionService_Ingest_Roster(t *testing.T) {
	ctx := context.Background()
	f := newIngestionFixture(t, fakeNormalizer{
		provider: game.ProviderNBA,
		batch: usecase.ExternalBatch{Players: []usecase.ExternalPlayer{
			{Provider: game.ProviderNBA, ProviderPlayerID: "1630595", FirstName: "Cade", LastName: "Cunningham", TeamRef: "1610612765", Active: true},
			{Provider: game.ProviderNBA, ProviderPlayerID: "", FirstName: "No", LastName: "Id"},
		}},
	})

	summary, err := f.svc.Ingest(ctx, usecase.IngestInput{Provider: "nba", Kind: "players", Payload: []byte(`{}`)})
	if err != nil {
		t.Fatalf("ingest roster: %v", err)
	}
	if summary.Accepted != 1 || summary.Rejected != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	roster, err := f.players.ListByTeam(ctx, "DET")
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(roster) != 1 || roster[0].FullName() != "Cade Cunningham" {
		t.Fatalf("unexpected roster: %+v", roster)
	}
}

func TestIngestionService_Ingest_InvalidInput(t *testing.T) {
	f := newIngestionFixture(t,
		fakeNormalizer{provider: game.ProviderNBA, err: usecase.ErrUnsupportedPayload},
	)

	cases := map[string]usecase.IngestInput{
		"missing provider": {Kind: "games", Payload: []byte(`{}`)},
		"unknown kind":     {Provider: "nba", Kind: "odds", Payload: []byte(`{}`)},
		"empty payload":    {Provider: "nba", Kind: "games"},
		"no normalizer":    {Provider: "espn", Kind: "games", Payload: []byte(`{}`)},
		"unsupported":      {Provider: "nba", Kind: "players", Payload: []byte(`{}`)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.svc.Ingest(context.Background(), input); !errors.Is(err, usecase.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestIngestionService_Providers(t *testing.T) {
	f := newIngestionFixture(t,
		fakeNormalizer{provider: game.ProviderOddsFeed},
		fakeNormalizer{provider: game.ProviderNBA},
		fakeNormalizer{provider: game.ProviderBBRef},
	)
	got := f.svc.Providers()
	want := []game.Provider{game.ProviderNBA, game.ProviderBBRef, game.ProviderOddsFeed}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected provider order: %v", got)
		}
	}
}
