package nbastats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

const scoreboardJSON = `{
  "scoreboard": {
    "gameDate": "2025-11-01",
    "games": [
      {
        "gameId": "0022500123",
        "gameStatus": 3,
        "gameStatusText": "Final",
        "gameTimeUTC": "2025-11-01T23:30:00Z",
        "arenaName": "Little Caesars Arena",
        "homeTeam": {"teamId": 1610612765, "teamTricode": "DET", "score": 110},
        "awayTeam": {"teamId": 1610612742, "teamTricode": "DAL", "score": 108}
      },
      {
        "gameId": "0022500124",
        "gameStatus": 1,
        "gameStatusText": "7:30 pm ET",
        "gameTimeUTC": "2025-11-01T23:30:00Z",
        "homeTeam": {"teamId": 1610612738, "teamTricode": "BOS", "score": 0},
        "awayTeam": {"teamId": 1610612752, "teamTricode": "NYK", "score": 0}
      },
      {
        "gameId": "0022500125",
        "gameStatus": 1,
        "gameStatusText": "PPD",
        "homeTeam": {"teamId": 1610612747, "teamTricode": "LAL"},
        "awayTeam": {"teamId": 1610612747, "teamTricode": "LAL"}
      }
    ]
  }
}`

const boxscoreJSON = `{
  "game": {
    "gameId": "0022500123",
    "homeTeam": {
      "teamId": 1610612765,
      "teamTricode": "DET",
      "players": [
        {"personId": 1630595, "firstName": "Cade", "familyName": "Cunningham", "starter": "1",
         "statistics": {"minutes": "PT36M12.00S", "points": 31, "reboundsTotal": 7, "assists": 9,
                        "fieldGoalsMade": 11, "fieldGoalsAttempted": 22, "threePointersMade": 3,
                        "threePointersAttempted": 8, "freeThrowsMade": 6, "freeThrowsAttempted": 7,
                        "plusMinusPoints": -4}},
        {"personId": 1641709, "firstName": "Ron", "familyName": "Holland II", "starter": "0",
         "comment": "DNP - Coach's Decision", "statistics": {"minutes": ""}}
      ]
    },
    "awayTeam": {
      "teamId": 1610612742,
      "teamTricode": "DAL",
      "players": [
        {"personId": 0, "firstName": "", "familyName": "", "statistics": {}}
      ]
    }
  }
}`

func newTestNormalizer() *Normalizer {
	n := NewNormalizer(logging.NewNop())
	n.now = func() time.Time { return time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC) }
	return n
}

func TestNormalize_Games(t *testing.T) {
	batch, err := newTestNormalizer().Normalize(context.Background(), usecase.PayloadGames, []byte(scoreboardJSON))
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
	if final.HomeTeamRef != "1610612765" || final.Date.Format("2006-01-02") != "2025-11-01" {
		t.Fatalf("unexpected refs or date: %s %s", final.HomeTeamRef, final.Date)
	}

	scheduled := batch.Games[1]
	if scheduled.Status != game.StatusScheduled || scheduled.HasScores() {
		t.Fatalf("scheduled game must not carry placeholder scores: %+v", scheduled)
	}
	if batch.Rejections[0].RawID != "0022500125" {
		t.Fatalf("unexpected rejection: %+v", batch.Rejections[0])
	}
}

func TestNormalize_StatLines(t *testing.T) {
	batch, err := newTestNormalizer().Normalize(context.Background(), usecase.PayloadStats, []byte(boxscoreJSON))
	if err != nil {
		t.Fatalf("normalize stats: %v", err)
	}
	if len(batch.StatLines) != 2 || len(batch.Rejections) != 1 {
		t.Fatalf("expected 2 lines and 1 rejection, got %d/%d", len(batch.StatLines), len(batch.Rejections))
	}

	cade := batch.StatLines[0]
	if cade.PlayerName != "Cade Cunningham" || cade.ProviderPlayerID != "1630595" || !cade.Starter {
		t.Fatalf("unexpected line: %+v", cade)
	}
	if cade.Minutes != "PT36M12.00S" || cade.Stats.Points != 31 || cade.Stats.PlusMinus != -4 {
		t.Fatalf("unexpected stats: %+v", cade)
	}
	if dnp := batch.StatLines[1]; dnp.Comment != "DNP - Coach's Decision" || dnp.Minutes != "" {
		t.Fatalf("unexpected dnp line: %+v", dnp)
	}
}

func TestNormalize_Errors(t *testing.T) {
	n := newTestNormalizer()
	if _, err := n.Normalize(context.Background(), usecase.PayloadGames, []byte("<html>")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := n.Normalize(context.Background(), usecase.PayloadKind("odds"), []byte("{}")); !errors.Is(err, usecase.ErrUnsupportedPayload) {
		t.Fatalf("expected unsupported payload, got %v", err)
	}
}
