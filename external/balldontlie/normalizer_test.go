package balldontlie

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

func newTestNormalizer() *Normalizer {
	n := NewNormalizer(logging.NewNop())
	n.now = func() time.Time { return time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC) }
	return n
}

func TestNormalize_Games(t *testing.T) {
	raw := `{"data": [
	  {"id": 18444123, "date": "2025-11-01", "datetime": null, "status": "7:30 pm ET", "period": 0,
	   "home_team": {"id": 9, "abbreviation": "DET"}, "visitor_team": {"id": 7, "abbreviation": "DAL"},
	   "home_team_score": 0, "visitor_team_score": 0},
	  {"id": 18444124, "date": "2025-11-01T00:00:00.000Z", "datetime": "2025-11-01T23:00:00.000Z", "status": "Final", "period": 4,
	   "home_team": {"id": 2, "abbreviation": "BOS"}, "visitor_team": {"id": 20, "abbreviation": "NYK"},
	   "home_team_score": 119, "visitor_team_score": 112},
	  {"id": 18444125, "date": "", "status": "Final",
	   "home_team": {"id": 2}, "visitor_team": {"id": 20}}
	], "meta": {"per_page": 25}}`

	batch, err := newTestNormalizer().Normalize(context.Background(), usecase.PayloadGames, []byte(raw))
	if err != nil {
		t.Fatalf("normalize games: %v", err)
	}
	if len(batch.Games) != 2 || len(batch.Rejections) != 1 {
		t.Fatalf("expected 2 records and 1 rejection, got %d/%d", len(batch.Games), len(batch.Rejections))
	}

	scheduled := batch.Games[0]
	if scheduled.Status != game.StatusScheduled || scheduled.HasScores() || scheduled.StartTime != nil {
		t.Fatalf("unexpected scheduled record: %+v", scheduled)
	}
	if scheduled.HomeTeamRef != "9" || scheduled.AwayTeamRef != "7" {
		t.Fatalf("unexpected team refs: %s/%s", scheduled.HomeTeamRef, scheduled.AwayTeamRef)
	}

	final := batch.Games[1]
	if final.Status != game.StatusFinal || *final.HomeScore != 119 || final.Date.Format("2006-01-02") != "2025-11-01" {
		t.Fatalf("unexpected final record: %+v", final)
	}
	if batch.Rejections[0].RawID != "18444125" {
		t.Fatalf("unexpected rejection: %+v", batch.Rejections[0])
	}
}

func TestNormalize_Games_UTCMidnightStart(t *testing.T) {
	raw := `{"data": [
	  {"id": 18444200, "date": "2025-11-04", "datetime": "2025-11-04T00:00:00.000Z", "status": "Postponed", "period": 0,
	   "home_team": {"id": 9, "abbreviation": "DET"}, "visitor_team": {"id": 7, "abbreviation": "DAL"}},
	  {"id": 18444201, "date": "2025-11-04", "datetime": "2025-11-05T00:00:00.000Z", "status": "Final", "period": 4,
	   "home_team": {"id": 2, "abbreviation": "BOS"}, "visitor_team": {"id": 20, "abbreviation": "NYK"},
	   "home_team_score": 101, "visitor_team_score": 99},
	  {"id": 18444202, "datetime": "2025-11-06T00:00:00.000Z", "status": "Postponed", "period": 0,
	   "home_team": {"id": 14, "abbreviation": "LAL"}, "visitor_team": {"id": 24, "abbreviation": "PHX"}}
	]}`

	batch, err := newTestNormalizer().Normalize(context.Background(), usecase.PayloadGames, []byte(raw))
	if err != nil {
		t.Fatalf("normalize games: %v", err)
	}
	if len(batch.Games) != 3 {
		t.Fatalf("expected 3 records, got %d (rejections %+v)", len(batch.Games), batch.Rejections)
	}

	placeholder := batch.Games[0]
	if placeholder.HasRealStartTime() || placeholder.ReportedStart() != nil {
		t.Fatalf("00:00Z on the game date is a placeholder: %+v", placeholder)
	}
	if want := game.DateOnly(2025, time.November, 4); !placeholder.EffectiveStart().Equal(want) {
		t.Fatalf("placeholder should fall back to ET midnight, got %s", placeholder.EffectiveStart())
	}

	// 00:00Z on Nov 5 is a 7pm EST tip-off on Nov 4.
	evening := batch.Games[1]
	if !evening.HasRealStartTime() || evening.EffectiveStart().In(game.Eastern).Hour() != 19 {
		t.Fatalf("expected a real 7pm ET start, got %+v", evening)
	}

	undated := batch.Games[2]
	if undated.Date.Format("2006-01-02") != "2025-11-06" || undated.HasRealStartTime() {
		t.Fatalf("date should come from the placeholder's UTC day: %+v", undated)
	}
}

func TestNormalize_StatLines(t *testing.T) {
	raw := `{"data": [
	  {"id": 1, "min": "36:12", "pts": 31, "reb": 7, "ast": 9, "fgm": 11, "fga": 22, "fg3m": 3, "fg3a": 8, "ftm": 6, "fta": 7,
	   "player": {"id": 3547238, "first_name": "Cade", "last_name": "Cunningham"},
	   "team": {"id": 9, "abbreviation": "DET"}, "game": {"id": 18444123}},
	  {"id": 2, "min": "00", "pts": 0,
	   "player": {"id": 56677822, "first_name": "Ron", "last_name": "Holland II"},
	   "team": {"id": 9, "abbreviation": "DET"}, "game": {"id": 18444123}},
	  {"id": 3, "min": "10:00", "player": {"id": 1}, "team": {"id": 9}, "game": {"id": 18444123}}
	]}`

	batch, err := newTestNormalizer().Normalize(context.Background(), usecase.PayloadStats, []byte(raw))
	if err != nil {
		t.Fatalf("normalize stats: %v", err)
	}
	if len(batch.StatLines) != 2 || len(batch.Rejections) != 1 {
		t.Fatalf("expected 2 lines and 1 rejection, got %d/%d", len(batch.StatLines), len(batch.Rejections))
	}

	cade := batch.StatLines[0]
	if cade.ProviderGameID != "18444123" || cade.TeamRef != "9" || cade.Stats.FieldGoalsMade != 11 {
		t.Fatalf("unexpected line: %+v", cade)
	}
	if m := boxscore.ParseMinutes(cade.Minutes); m == nil || *m != 36.2 {
		t.Fatalf("unexpected minutes: %v", m)
	}
}

func TestNormalize_Players(t *testing.T) {
	raw := `{"data": [
	  {"id": 3547238, "first_name": "Cade", "last_name": "Cunningham", "team": {"id": 9, "abbreviation": "DET"}},
	  {"id": 17, "first_name": "Free", "last_name": "Agent", "team": null}
	]}`

	batch, err := newTestNormalizer().Normalize(context.Background(), usecase.PayloadPlayers, []byte(raw))
	if err != nil {
		t.Fatalf("normalize players: %v", err)
	}
	if len(batch.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(batch.Players))
	}
	if batch.Players[0].TeamRef != "9" || !batch.Players[0].Active || batch.Players[1].Active {
		t.Fatalf("unexpected players: %+v", batch.Players)
	}
}
