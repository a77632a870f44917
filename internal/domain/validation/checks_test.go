package validation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

var fixedNow = time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)

func finalGame(home, away int) game.CanonicalGame {
	return game.CanonicalGame{
		ID:         "g-dal-det",
		Date:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		HomeTeamID: "DET",
		AwayTeamID: "DAL",
		Status:     game.StatusFinal,
		HomeScore:  game.IntPtr(home),
		AwayScore:  game.IntPtr(away),
	}
}

// roster builds n consistent active lines for a team that add up to total
// points and 240 minutes when n is 10.
func roster(teamID string, n, total int) []boxscore.PlayerGameStat {
	out := make([]boxscore.PlayerGameStat, 0, n)
	base, rem := total/n, total%n
	for i := 0; i < n; i++ {
		points := base
		if i < rem {
			points++
		}
		minutes := 240.0 / float64(n)
		out = append(out, boxscore.PlayerGameStat{
			GameID:   "g-dal-det",
			PlayerID: fmt.Sprintf("%s-%02d", strings.ToLower(teamID), i),
			TeamID:   teamID,
			Minutes:  &minutes,
			Stats: boxscore.Counting{
				Points:         points,
				FieldGoalsMade: points / 2,
				FieldGoalsAtt:  points / 2,
				FreeThrowsMade: points % 2,
				FreeThrowsAtt:  points % 2,
			},
		})
	}
	return out
}

func cleanInput() Input {
	players := append(roster("DET", 10, 110), roster("DAL", 10, 108)...)
	return Input{Game: finalGame(110, 108), Players: players}
}

func resultsByCheck(results []Result) map[string]Result {
	out := make(map[string]Result, len(results))
	for _, r := range results {
		out[r.CheckName] = r
	}
	return out
}

func runOne(t *testing.T, in Input, name string) Result {
	t.Helper()
	got, ok := resultsByCheck(Validate(in, Options{Now: func() time.Time { return fixedNow }}))[name]
	if !ok {
		t.Fatalf("missing result for %s", name)
	}
	return got
}

func firstViolation(t *testing.T, r Result) map[string]any {
	t.Helper()
	violations, ok := r.Detail["violations"].([]map[string]any)
	if !ok || len(violations) == 0 {
		t.Fatalf("expected violations in detail, got %+v", r.Detail)
	}
	return violations[0]
}

func TestValidate_CleanGamePassesEveryCheck(t *testing.T) {
	results := Validate(cleanInput(), Options{Now: func() time.Time { return fixedNow }})
	if len(results) != len(CheckNames()) {
		t.Fatalf("expected %d results, got %d", len(CheckNames()), len(results))
	}
	for i, r := range results {
		if r.CheckName != CheckNames()[i] {
			t.Fatalf("unexpected check order at %d: %s", i, r.CheckName)
		}
		if r.Status != StatusPass || r.Severity != SeverityInfo {
			t.Fatalf("expected %s to pass, got %s/%s detail=%+v", r.CheckName, r.Status, r.Severity, r.Detail)
		}
		if r.GameID != "g-dal-det" || !r.ValidatedAt.Equal(fixedNow) {
			t.Fatalf("unexpected result stamp: %+v", r)
		}
	}
}

func TestScoreReconciliation(t *testing.T) {
	t.Run("mismatch reports both sides", func(t *testing.T) {
		in := cleanInput()
		in.Game.AwayScore = game.IntPtr(107)

		got := runOne(t, in, CheckScoreReconciliation)
		if got.Status != StatusFail || got.Severity != SeverityError {
			t.Fatalf("expected fail/error, got %s/%s", got.Status, got.Severity)
		}
		away := got.Detail["away"].(map[string]any)
		if away["expected"] != 107 || away["actual"] != 108 || away["team_id"] != "DAL" {
			t.Fatalf("unexpected away detail: %+v", away)
		}
	})

	t.Run("inactive players are excluded", func(t *testing.T) {
		in := cleanInput()
		reason := "DNP - Coach's Decision"
		in.Players = append(in.Players, boxscore.PlayerGameStat{
			PlayerID:  "det-bench",
			TeamID:    "DET",
			DNPReason: &reason,
			Stats:     boxscore.Counting{Points: 4},
		})

		if got := runOne(t, in, CheckScoreReconciliation); got.Status != StatusPass {
			t.Fatalf("expected pass, got %s detail=%+v", got.Status, got.Detail)
		}
	})
}

func TestCrossSourceScores(t *testing.T) {
	t.Run("single source passes", func(t *testing.T) {
		got := runOne(t, cleanInput(), CheckCrossSourceScores)
		if got.Status != StatusPass || got.Detail["second_source"] != false {
			t.Fatalf("expected pass without second source, got %s detail=%+v", got.Status, got.Detail)
		}
	})

	t.Run("disagreeing source fails", func(t *testing.T) {
		in := cleanInput()
		in.AltScores = []AltScore{
			{Source: game.SourceRef{Provider: game.ProviderBallDontLie, ProviderGameID: "18444"}, HomeScore: 110, AwayScore: 108},
			{Source: game.SourceRef{Provider: game.ProviderBBRef, ProviderGameID: "202511010DET"}, HomeScore: 110, AwayScore: 105},
		}

		got := runOne(t, in, CheckCrossSourceScores)
		if got.Status != StatusFail || got.Detail["mismatched"] != 1 {
			t.Fatalf("expected one mismatch, got %s detail=%+v", got.Status, got.Detail)
		}
	})
}

func TestPointsFormula(t *testing.T) {
	in := cleanInput()
	in.Players[0].Stats = boxscore.Counting{
		Points:         21,
		FieldGoalsMade: 8,
		FieldGoalsAtt:  15,
		ThreesMade:     2,
		ThreesAtt:      5,
		FreeThrowsMade: 1,
		FreeThrowsAtt:  2,
	}
	// keep team totals consistent so only the formula is off
	in.Game.HomeScore = game.IntPtr(110 - 11 + 21)

	got := runOne(t, in, CheckPointsFormula)
	if got.Status != StatusFail {
		t.Fatalf("expected fail, got %s", got.Status)
	}
	v := firstViolation(t, got)
	if v["expected"] != 19 || v["actual"] != 21 || v["player_id"] != "det-00" {
		t.Fatalf("unexpected violation: %+v", v)
	}
}

func TestShootingMath(t *testing.T) {
	in := cleanInput()
	in.Players[3].Stats.FieldGoalsMade = 7
	in.Players[3].Stats.FieldGoalsAtt = 5

	got := runOne(t, in, CheckShootingMath)
	if got.Status != StatusFail {
		t.Fatalf("expected fail, got %s", got.Status)
	}
	if msg := firstViolation(t, got)["message"]; msg != "FGA(5) < FGM(7)" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestMinutesSanity(t *testing.T) {
	t.Run("team total out of range warns", func(t *testing.T) {
		in := cleanInput()
		for i := range in.Players {
			if in.Players[i].TeamID == "DAL" {
				m := 20.0
				in.Players[i].Minutes = &m
			}
		}

		got := runOne(t, in, CheckMinutesSanity)
		if got.Status != StatusWarn || got.Severity != SeverityWarning {
			t.Fatalf("expected warn/warning, got %s/%s", got.Status, got.Severity)
		}
		if v := firstViolation(t, got); v["team_id"] != "DAL" {
			t.Fatalf("unexpected violation: %+v", v)
		}
	})

	t.Run("player over sixty minutes warns", func(t *testing.T) {
		in := cleanInput()
		m := 61.5
		in.Players[0].Minutes = &m
		in.Players[1].Minutes = new(float64)

		got := runOne(t, in, CheckMinutesSanity)
		if got.Status != StatusWarn {
			t.Fatalf("expected warn, got %s", got.Status)
		}
		if v := firstViolation(t, got); v["player_id"] != "det-00" {
			t.Fatalf("unexpected violation: %+v", v)
		}
	})

	t.Run("team without active players is skipped", func(t *testing.T) {
		in := cleanInput()
		in.Players = roster("DET", 10, 110)
		if got := runOne(t, in, CheckMinutesSanity); got.Status != StatusPass {
			t.Fatalf("expected pass, got %s detail=%+v", got.Status, got.Detail)
		}
	})
}

func TestStatBounds(t *testing.T) {
	t.Run("negative stat fails", func(t *testing.T) {
		in := cleanInput()
		in.Players[2].Stats.Rebounds = -1

		got := runOne(t, in, CheckStatBounds)
		if got.Status != StatusFail || got.Severity != SeverityError {
			t.Fatalf("expected fail/error, got %s/%s", got.Status, got.Severity)
		}
		if v := firstViolation(t, got); v["stat"] != "rebounds" {
			t.Fatalf("unexpected violation: %+v", v)
		}
	})

	t.Run("negative plus minus is allowed", func(t *testing.T) {
		in := cleanInput()
		in.Players[2].Stats.PlusMinus = -18
		if got := runOne(t, in, CheckStatBounds); got.Status != StatusPass {
			t.Fatalf("expected pass, got %s detail=%+v", got.Status, got.Detail)
		}
	})

	t.Run("soft maximum and zero minute activity warn", func(t *testing.T) {
		in := cleanInput()
		in.Players[4].Stats.Assists = 31
		in.Players[5].Minutes = new(float64)

		got := runOne(t, in, CheckStatBounds)
		if got.Status != StatusWarn || got.Severity != SeverityWarning {
			t.Fatalf("expected warn/warning, got %s/%s", got.Status, got.Severity)
		}
		if got.Detail["count"] != 2 {
			t.Fatalf("expected two warnings, got %+v", got.Detail)
		}
	})
}

func TestCompleteness(t *testing.T) {
	t.Run("too few active players", func(t *testing.T) {
		in := cleanInput()
		in.Players = append(roster("DET", 10, 110), roster("DAL", 5, 108)...)

		got := runOne(t, in, CheckCompleteness)
		if got.Status != StatusFail {
			t.Fatalf("expected fail, got %s", got.Status)
		}
		v := firstViolation(t, got)
		if v["count"] != 5 || v["code"] != "too_few_players" || v["team_id"] != "DAL" {
			t.Fatalf("unexpected violation: %+v", v)
		}
	})

	t.Run("missing team is reported distinctly", func(t *testing.T) {
		in := cleanInput()
		in.Players = roster("DAL", 5, 108)

		got := runOne(t, in, CheckCompleteness)
		v := firstViolation(t, got)
		if v["message"] != "no player stats found" || v["team_id"] != "DET" {
			t.Fatalf("expected missing-team violation first, got %+v", v)
		}
		if got.Detail["count"] != 2 {
			t.Fatalf("expected both teams flagged, got %+v", got.Detail)
		}
	})

	t.Run("sixteen active players fails", func(t *testing.T) {
		in := cleanInput()
		in.Players = append(roster("DET", 16, 110), roster("DAL", 10, 108)...)
		if v := firstViolation(t, runOne(t, in, CheckCompleteness)); v["code"] != "too_many_players" {
			t.Fatalf("unexpected violation: %+v", v)
		}
	})
}

func TestValidate_PanickingCheckIsIsolated(t *testing.T) {
	checks := append([]Check{{
		Name: "explodes",
		Run: func(Input, Bounds) Outcome {
			panic("boom")
		},
	}}, DefaultChecks()...)

	results := Validate(cleanInput(), Options{Checks: checks, Now: func() time.Time { return fixedNow }})
	if len(results) != len(checks) {
		t.Fatalf("expected %d results, got %d", len(checks), len(results))
	}
	if results[0].Status != StatusFail || results[0].Detail["check_error"] != true {
		t.Fatalf("expected panic to be recorded as failure, got %+v", results[0])
	}
	for _, r := range results[1:] {
		if r.Status != StatusPass {
			t.Fatalf("expected %s to still pass, got %s", r.CheckName, r.Status)
		}
	}
}
