package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/reconcile"
	"github.com/riskibarqy/hoops-reconciler/internal/infrastructure/repository/memory"
	gamemock "github.com/riskibarqy/hoops-reconciler/internal/mocks/domain/game"
	pipelinemock "github.com/riskibarqy/hoops-reconciler/internal/mocks/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

type staticTeams map[string]string

func (s staticTeams) ResolveTeam(_ context.Context, provider game.Provider, ref string) (string, error) {
	if teamID, ok := s[string(provider)+":"+ref]; ok {
		return teamID, nil
	}
	return "", fmt.Errorf("%w: %s:%s", identity.ErrNotFound, provider, ref)
}

var testTeams = staticTeams{
	"nba:1610612765":   "DET",
	"nba:1610612742":   "DAL",
	"balldontlie:9":    "DET",
	"balldontlie:7":    "DAL",
	"bbref:DET":        "DET",
	"bbref:DAL":        "DAL",
	"oddsfeed:Pistons": "DET",
}

func sourceRecord(provider game.Provider, gameID, home, away string, status game.Status, scores ...int) game.SourceRecord {
	start := time.Date(2025, 11, 1, 19, 30, 0, 0, game.Eastern)
	rec := game.SourceRecord{
		Provider:       provider,
		ProviderGameID: gameID,
		Date:           game.DateOnly(2025, time.November, 1),
		StartTime:      &start,
		HomeTeamRef:    home,
		AwayTeamRef:    away,
		Status:         status,
	}
	if len(scores) == 2 {
		rec.HomeScore = game.IntPtr(scores[0])
		rec.AwayScore = game.IntPtr(scores[1])
	}
	return rec
}

func newTestCanonicalization(sources game.SourceRepository, canonical game.CanonicalRepository, runs pipeline.Repository) *CanonicalizationService {
	svc := NewCanonicalizationService(sources, canonical, testTeams, runs, nil, CanonicalizationConfig{Workers: 1}, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCanonicalizationService_Reconcile_ExcludesUnresolvedTeams(t *testing.T) {
	ctx := context.Background()
	sources := gamemock.NewSourceRepository(t)
	canonical := gamemock.NewCanonicalRepository(t)

	nba := sourceRecord(game.ProviderNBA, "0022500123", "1610612765", "1610612742", game.StatusFinal, 110, 108)
	odds := sourceRecord(game.ProviderOddsFeed, "ev-1", "Pistons", "Mavs", game.StatusScheduled)
	sources.On("ListSourceRecords", mock.Anything, mock.Anything, mock.Anything).
		Return([]game.SourceRecord{nba, odds}, nil).Once()
	canonical.On("FindLinks", mock.Anything, []game.SourceRef{nba.Ref()}).Return(nil, nil).Once()
	canonical.On("GetByID", mock.Anything, mock.AnythingOfType("string")).
		Return(game.CanonicalGame{}, false, nil).Once()
	canonical.On("SaveGroup", mock.Anything, mock.MatchedBy(func(g game.CanonicalGame) bool {
		return g.HomeTeamID == "DET" && g.AwayTeamID == "DAL" && g.ChosenSource == nba.Ref()
	}), []string(nil)).Return(nil).Once()

	svc := newTestCanonicalization(sources, canonical, nil)
	day := game.DateOnly(2025, time.November, 1)
	summary, err := svc.Reconcile(ctx, ReconcileInput{WindowStart: day, WindowEnd: day})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if summary.Excluded != 1 || summary.Exclusions[0].RawID != "ev-1" {
		t.Fatalf("expected odds record excluded, got %+v", summary.Exclusions)
	}
	if summary.Groups != 1 || summary.NewCanonical != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestCanonicalizationService_Reconcile_DryRunDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	sources := gamemock.NewSourceRepository(t)
	canonical := gamemock.NewCanonicalRepository(t)
	runs := pipelinemock.NewRepository(t)

	nba := sourceRecord(game.ProviderNBA, "0022500123", "1610612765", "1610612742", game.StatusFinal, 110, 108)
	bdl := sourceRecord(game.ProviderBallDontLie, "18444123", "9", "7", game.StatusFinal, 110, 108)
	sources.On("ListSourceRecords", mock.Anything, mock.Anything, mock.Anything).
		Return([]game.SourceRecord{nba, bdl}, nil).Once()
	canonical.On("FindLinks", mock.Anything, mock.Anything).
		Return([]game.Link{{Ref: bdl.Ref(), CanonicalID: "existing-id"}}, nil).Once()
	canonical.On("GetByID", mock.Anything, "existing-id").
		Return(game.CanonicalGame{ID: "existing-id", ChosenSource: bdl.Ref()}, true, nil).Once()

	svc := newTestCanonicalization(sources, canonical, runs)
	day := game.DateOnly(2025, time.November, 1)
	summary, err := svc.Reconcile(ctx, ReconcileInput{WindowStart: day, WindowEnd: day, DryRun: true})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if summary.Reassignments != 1 || summary.NewCanonical != 0 {
		t.Fatalf("expected a reassignment to nba, got %+v", summary)
	}
	if summary.Games[0].ID != "existing-id" {
		t.Fatalf("expected existing id to be kept, got %s", summary.Games[0].ID)
	}
	canonical.AssertNotCalled(t, "SaveGroup", mock.Anything, mock.Anything, mock.Anything)
	runs.AssertNotCalled(t, "SaveRun", mock.Anything, mock.Anything)
}

func TestCanonicalizationService_Reconcile_RecordsFailedRun(t *testing.T) {
	ctx := context.Background()
	sources := gamemock.NewSourceRepository(t)
	canonical := gamemock.NewCanonicalRepository(t)
	runs := pipelinemock.NewRepository(t)

	storageErr := errors.New("connection refused")
	sources.On("ListSourceRecords", mock.Anything, mock.Anything, mock.Anything).
		Return([]game.SourceRecord{sourceRecord(game.ProviderNBA, "0022500123", "1610612765", "1610612742", game.StatusFinal, 110, 108)}, nil).Once()
	canonical.On("FindLinks", mock.Anything, mock.Anything).Return(nil, nil).Once()
	canonical.On("GetByID", mock.Anything, mock.Anything).Return(game.CanonicalGame{}, false, nil).Once()
	canonical.On("SaveGroup", mock.Anything, mock.Anything, mock.Anything).Return(storageErr).Once()
	runs.On("SaveRun", mock.Anything, mock.MatchedBy(func(run pipeline.Run) bool {
		return run.Kind == pipeline.KindReconcile && run.Status == pipeline.StatusFailed && run.ErrorMessage != ""
	})).Return(nil).Once()

	svc := newTestCanonicalization(sources, canonical, runs)
	day := game.DateOnly(2025, time.November, 1)
	if _, err := svc.Reconcile(ctx, ReconcileInput{WindowStart: day, WindowEnd: day}); !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func timedRecord(provider game.Provider, gameID, home, away string, day, hour int, status game.Status, scores ...int) game.SourceRecord {
	rec := sourceRecord(provider, gameID, home, away, status, scores...)
	start := time.Date(2025, 11, day, hour, 0, 0, 0, game.Eastern)
	rec.Date = game.DateOnly(2025, time.November, day)
	rec.StartTime = &start
	return rec
}

func TestCanonicalizationService_Reconcile_SplitGroupsGetDistinctIDs(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			ctx := context.Background()
			sources := memory.NewSourceRecordRepository()
			canonical := memory.NewCanonicalGameRepository(nil)
			svc := NewCanonicalizationService(sources, canonical, testTeams, nil, nil, CanonicalizationConfig{Workers: workers}, logging.NewNop())
			window := ReconcileInput{
				WindowStart: game.DateOnly(2025, time.November, 1),
				WindowEnd:   game.DateOnly(2025, time.November, 3),
			}

			nba := timedRecord(game.ProviderNBA, "0022500002", "1610612765", "1610612742", 2, 19, game.StatusFinal, 110, 108)
			bbref := timedRecord(game.ProviderBBRef, "202511030DET", "DET", "DAL", 3, 21, game.StatusFinal, 110, 108)
			if err := sources.UpsertSourceRecords(ctx, []game.SourceRecord{nba, bbref}); err != nil {
				t.Fatalf("upsert sources: %v", err)
			}
			first, err := svc.Reconcile(ctx, window)
			if err != nil {
				t.Fatalf("first reconcile: %v", err)
			}
			if first.Groups != 1 || first.MultiMember != 1 {
				t.Fatalf("expected nba and bbref in one group, got %+v", first)
			}
			linkedID := first.Games[0].ID

			// an earlier observation moves the anchor so bbref falls out of the window
			bdl := timedRecord(game.ProviderBallDontLie, "18400001", "9", "7", 1, 20, game.StatusScheduled)
			if err := sources.UpsertSourceRecords(ctx, []game.SourceRecord{bdl}); err != nil {
				t.Fatalf("upsert sources: %v", err)
			}
			second, err := svc.Reconcile(ctx, window)
			if err != nil {
				t.Fatalf("second reconcile: %v", err)
			}
			if second.Groups != 2 || second.Splits != 1 {
				t.Fatalf("expected two groups with one split, got %+v", second)
			}
			ids := map[string]game.CanonicalGame{}
			for _, g := range second.Games {
				if _, dup := ids[g.ID]; dup {
					t.Fatalf("canonical id %s assigned to two groups", g.ID)
				}
				ids[g.ID] = g
			}
			kept, ok := ids[linkedID]
			if !ok || kept.ChosenSource != nba.Ref() {
				t.Fatalf("expected the group holding %s to keep %s, got %+v", nba.Ref(), linkedID, second.Games)
			}

			for cid, want := range ids {
				stored, exists, err := canonical.GetByID(ctx, cid)
				if err != nil || !exists {
					t.Fatalf("load %s: exists=%v err=%v", cid, exists, err)
				}
				if stored.ChosenSource != want.ChosenSource || fmt.Sprint(stored.Sources) != fmt.Sprint(want.Sources) {
					t.Fatalf("stored row %s diverged: got sources=%v chosen=%s want sources=%v chosen=%s",
						cid, stored.Sources, stored.ChosenSource, want.Sources, want.ChosenSource)
				}
			}

			third, err := svc.Reconcile(ctx, window)
			if err != nil {
				t.Fatalf("third reconcile: %v", err)
			}
			if third.Splits != 0 || third.NewCanonical != 0 || third.Reassignments != 0 {
				t.Fatalf("expected a stable rerun, got %+v", third)
			}
			for _, g := range third.Games {
				if prev, ok := ids[g.ID]; !ok || prev.ChosenSource != g.ChosenSource {
					t.Fatalf("rerun changed assignment for %s", g.ID)
				}
			}
		})
	}
}

func TestCanonicalizationService_Reconcile_InvalidWindow(t *testing.T) {
	svc := newTestCanonicalization(gamemock.NewSourceRepository(t), gamemock.NewCanonicalRepository(t), nil)
	day := game.DateOnly(2025, time.November, 2)

	cases := map[string]ReconcileInput{
		"missing start": {WindowEnd: day},
		"inverted":      {WindowStart: day, WindowEnd: day.AddDate(0, 0, -1)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Reconcile(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestFilterGroups_ProviderGameID(t *testing.T) {
	nba := sourceRecord(game.ProviderNBA, "0022500123", "1610612765", "1610612742", game.StatusFinal, 110, 108)
	svc := newTestCanonicalization(nil, nil, nil)
	candidates, _, err := svc.candidates(context.Background(), []game.SourceRecord{nba})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	day := game.DateOnly(2025, time.November, 1)

	for _, id := range []string{"0022500123", "nba:0022500123"} {
		groups := filterGroups(buildGroups(candidates), ReconcileInput{ProviderGameID: id}, day, day)
		if len(groups) != 1 {
			t.Fatalf("expected group for %s, got %d", id, len(groups))
		}
	}
	if groups := filterGroups(buildGroups(candidates), ReconcileInput{TeamID: "BOS"}, day, day); len(groups) != 0 {
		t.Fatalf("expected team filter to drop the group")
	}
}

func buildGroups(candidates []reconcile.Candidate) []reconcile.Group {
	return reconcile.Build(candidates, reconcile.DefaultOptions())
}
