package bbref

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

func TestNormalize_Games(t *testing.T) {
	raw := `{"games": [
	  {"game_id": "202511010DET", "date": "Sat, Nov 1, 2025", "start_et": "7:30p",
	   "visitor": "Dallas Mavericks", "visitor_pts": "108", "home": "Detroit Pistons", "home_pts": "110",
	   "arena": "Little Caesars Arena"},
	  {"game_id": "202511020BOS", "date": "Sun, Nov 2, 2025", "start_et": "",
	   "visitor": "New York Knicks", "visitor_pts": "", "home": "Boston Celtics", "home_pts": ""},
	  {"game_id": "202511030LAL", "date": "someday", "visitor": "Golden State Warriors", "home": "Los Angeles Lakers"}
	]}`

	batch, err := NewNormalizer(logging.NewNop()).Normalize(context.Background(), usecase.PayloadGames, []byte(raw))
	if err != nil {
		t.Fatalf("normalize games: %v", err)
	}
	if len(batch.Games) != 2 || len(batch.Rejections) != 1 {
		t.Fatalf("expected 2 records and 1 rejection, got %d/%d", len(batch.Games), len(batch.Rejections))
	}

	final := batch.Games[0]
	if final.Status != game.StatusFinal || *final.HomeScore != 110 || *final.AwayScore != 108 {
		t.Fatalf("unexpected final record: %+v", final)
	}
	wantStart := time.Date(2025, 11, 1, 19, 30, 0, 0, game.Eastern)
	if final.StartTime == nil || !final.StartTime.Equal(wantStart) || !final.HasRealStartTime() {
		t.Fatalf("unexpected start: %v", final.StartTime)
	}

	upcoming := batch.Games[1]
	if upcoming.Status != game.StatusScheduled || upcoming.HasScores() || upcoming.StartTime != nil {
		t.Fatalf("unexpected scheduled record: %+v", upcoming)
	}
}

func TestNormalize_StatLines(t *testing.T) {
	raw := `{"game_id": "202511010DET", "teams": [
	  {"team": "DET", "players": [
	    {"player": "Cade Cunningham", "player_id": "cunnica01", "mp": "36:12", "fg": "11", "fga": "22",
	     "fg3": "3", "fg3a": "8", "ft": "6", "fta": "7", "trb": "7", "ast": "9", "pts": "31", "plus_minus": "+5", "starter": true},
	    {"player": "Ron Holland II", "player_id": "hollaro01", "mp": "", "reason": "Did Not Play"}
	  ]}
	]}`

	batch, err := NewNormalizer(logging.NewNop()).Normalize(context.Background(), usecase.PayloadStats, []byte(raw))
	if err != nil {
		t.Fatalf("normalize stats: %v", err)
	}
	if len(batch.StatLines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(batch.StatLines))
	}
	if line := batch.StatLines[0]; line.Stats.Points != 31 || line.Stats.PlusMinus != 5 || line.TeamRef != "DET" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line := batch.StatLines[1]; line.Comment != "Did Not Play" {
		t.Fatalf("unexpected dnp line: %+v", line)
	}
}

func TestNormalize_PlayersUnsupported(t *testing.T) {
	_, err := NewNormalizer(nil).Normalize(context.Background(), usecase.PayloadPlayers, []byte(`{}`))
	if !errors.Is(err, usecase.ErrUnsupportedPayload) {
		t.Fatalf("expected unsupported payload, got %v", err)
	}
}
