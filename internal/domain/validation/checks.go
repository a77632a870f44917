package validation

import (
	"fmt"
	"sort"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
)

func checkScoreReconciliation(in Input, _ Bounds) Outcome {
	g := in.Game
	if !g.HasScores() {
		return fail(map[string]any{"message": "recorded score missing"})
	}

	sums := activePointsByTeam(in.Players)
	home := teamScoreDetail(g.HomeTeamID, *g.HomeScore, sums[g.HomeTeamID])
	away := teamScoreDetail(g.AwayTeamID, *g.AwayScore, sums[g.AwayTeamID])
	detail := map[string]any{"home": home, "away": away}

	var mismatches []string
	for _, side := range []map[string]any{home, away} {
		if side["expected"] != side["actual"] {
			mismatches = append(mismatches, fmt.Sprintf("%s: recorded %d, players sum %d", side["team_id"], side["expected"], side["actual"]))
		}
	}
	if len(mismatches) > 0 {
		detail["mismatches"] = mismatches
		return fail(detail)
	}
	return pass(detail)
}

func teamScoreDetail(teamID string, expected, actual int) map[string]any {
	return map[string]any{"team_id": teamID, "expected": expected, "actual": actual}
}

func checkCrossSourceScores(in Input, _ Bounds) Outcome {
	if len(in.AltScores) == 0 {
		return pass(map[string]any{"second_source": false})
	}
	g := in.Game
	if !g.HasScores() {
		return fail(map[string]any{"second_source": true, "message": "recorded score missing"})
	}

	sources := make([]map[string]any, 0, len(in.AltScores))
	mismatched := 0
	for _, alt := range in.AltScores {
		agrees := alt.HomeScore == *g.HomeScore && alt.AwayScore == *g.AwayScore
		if !agrees {
			mismatched++
		}
		sources = append(sources, map[string]any{
			"source":     alt.Source.String(),
			"home_score": alt.HomeScore,
			"away_score": alt.AwayScore,
			"agrees":     agrees,
		})
	}

	detail := map[string]any{
		"second_source": true,
		"home_score":    *g.HomeScore,
		"away_score":    *g.AwayScore,
		"sources":       sources,
	}
	if mismatched > 0 {
		detail["mismatched"] = mismatched
		return fail(detail)
	}
	return pass(detail)
}

func checkPointsFormula(in Input, _ Bounds) Outcome {
	var violations []map[string]any
	for _, p := range in.Players {
		if !p.Active() {
			continue
		}
		s := p.Stats
		expected := 2*s.FieldGoalsMade + s.ThreesMade + s.FreeThrowsMade
		if s.Points == expected {
			continue
		}
		violations = append(violations, map[string]any{
			"player_id": p.PlayerID,
			"team_id":   p.TeamID,
			"expected":  expected,
			"actual":    s.Points,
			"message": fmt.Sprintf("PTS(%d) != 2*FGM(%d) + 3PM(%d) + FTM(%d) = %d",
				s.Points, s.FieldGoalsMade, s.ThreesMade, s.FreeThrowsMade, expected),
		})
	}
	return violationOutcome(violations, fail)
}

func checkShootingMath(in Input, _ Bounds) Outcome {
	var violations []map[string]any
	for _, p := range in.Players {
		if !p.Active() {
			continue
		}
		s := p.Stats
		for _, msg := range shootingViolations(s) {
			violations = append(violations, map[string]any{
				"player_id": p.PlayerID,
				"team_id":   p.TeamID,
				"message":   msg,
			})
		}
	}
	return violationOutcome(violations, fail)
}

func shootingViolations(s boxscore.Counting) []string {
	var out []string
	if s.FieldGoalsAtt < s.FieldGoalsMade {
		out = append(out, fmt.Sprintf("FGA(%d) < FGM(%d)", s.FieldGoalsAtt, s.FieldGoalsMade))
	}
	if s.FreeThrowsAtt < s.FreeThrowsMade {
		out = append(out, fmt.Sprintf("FTA(%d) < FTM(%d)", s.FreeThrowsAtt, s.FreeThrowsMade))
	}
	if s.ThreesAtt < s.ThreesMade {
		out = append(out, fmt.Sprintf("3PA(%d) < 3PM(%d)", s.ThreesAtt, s.ThreesMade))
	}
	if s.FieldGoalsMade < s.ThreesMade {
		out = append(out, fmt.Sprintf("FGM(%d) < 3PM(%d)", s.FieldGoalsMade, s.ThreesMade))
	}
	return out
}

func checkMinutesSanity(in Input, b Bounds) Outcome {
	var violations []map[string]any
	for _, p := range in.Players {
		if !p.Active() || p.Minutes == nil {
			continue
		}
		if m := *p.Minutes; m < 0 || m > b.MaxPlayerMinutes {
			violations = append(violations, map[string]any{
				"player_id": p.PlayerID,
				"team_id":   p.TeamID,
				"minutes":   m,
				"message":   fmt.Sprintf("player minutes %.2f outside [0, %.0f]", m, b.MaxPlayerMinutes),
			})
		}
	}

	teamMinutes := make(map[string]any, 2)
	for _, teamID := range []string{in.Game.HomeTeamID, in.Game.AwayTeamID} {
		agg := boxscore.AggregateTeam(in.Game.ID, teamID, teamID == in.Game.HomeTeamID, in.Players)
		if agg.PlayerCount == 0 {
			continue
		}
		teamMinutes[teamID] = agg.Minutes
		if agg.Minutes < b.MinTeamMinutes || agg.Minutes > b.MaxTeamMinutes {
			violations = append(violations, map[string]any{
				"team_id": teamID,
				"minutes": agg.Minutes,
				"message": fmt.Sprintf("team minutes %.2f outside [%.0f, %.0f]", agg.Minutes, b.MinTeamMinutes, b.MaxTeamMinutes),
			})
		}
	}

	out := violationOutcome(violations, warn)
	out.Detail["team_minutes"] = teamMinutes
	return out
}

func checkStatBounds(in Input, b Bounds) Outcome {
	var failures, warnings []map[string]any
	for _, p := range in.Players {
		s := p.Stats
		for name, v := range countingFields(s) {
			if v < 0 {
				failures = append(failures, map[string]any{
					"player_id": p.PlayerID,
					"team_id":   p.TeamID,
					"stat":      name,
					"value":     v,
					"message":   fmt.Sprintf("%s is negative (%d)", name, v),
				})
			}
		}

		for _, limit := range []struct {
			name  string
			value int
			max   int
		}{
			{"points", s.Points, b.MaxPoints},
			{"rebounds", s.Rebounds, b.MaxRebounds},
			{"assists", s.Assists, b.MaxAssists},
			{"turnovers", s.Turnovers, b.MaxTurnovers},
			{"fga", s.FieldGoalsAtt, b.MaxFieldGoalsAtt},
			{"fta", s.FreeThrowsAtt, b.MaxFreeThrowsAtt},
			{"3pa", s.ThreesAtt, b.MaxThreesAtt},
		} {
			if limit.value > limit.max {
				warnings = append(warnings, map[string]any{
					"player_id": p.PlayerID,
					"team_id":   p.TeamID,
					"stat":      limit.name,
					"value":     limit.value,
					"max":       limit.max,
					"message":   fmt.Sprintf("%s %d above soft maximum %d", limit.name, limit.value, limit.max),
				})
			}
		}

		if s.HasActivity() && p.MinutesOrZero() <= 0 {
			warnings = append(warnings, map[string]any{
				"player_id": p.PlayerID,
				"team_id":   p.TeamID,
				"message":   "counting stats recorded with zero minutes",
			})
		}
	}

	sortViolations(failures)
	sortViolations(warnings)
	switch {
	case len(failures) > 0:
		detail := map[string]any{"violations": failures, "count": len(failures)}
		if len(warnings) > 0 {
			detail["warnings"] = warnings
		}
		return fail(detail)
	case len(warnings) > 0:
		return warn(map[string]any{"violations": warnings, "count": len(warnings)})
	default:
		return pass(nil)
	}
}

func countingFields(s boxscore.Counting) map[string]int {
	return map[string]int{
		"points":    s.Points,
		"rebounds":  s.Rebounds,
		"oreb":      s.OffRebounds,
		"assists":   s.Assists,
		"steals":    s.Steals,
		"blocks":    s.Blocks,
		"turnovers": s.Turnovers,
		"fouls":     s.Fouls,
		"fgm":       s.FieldGoalsMade,
		"fga":       s.FieldGoalsAtt,
		"3pm":       s.ThreesMade,
		"3pa":       s.ThreesAtt,
		"ftm":       s.FreeThrowsMade,
		"fta":       s.FreeThrowsAtt,
	}
}

func checkCompleteness(in Input, b Bounds) Outcome {
	counts := make(map[string]int, 2)
	for _, p := range in.Players {
		if p.Active() {
			counts[p.TeamID]++
		}
	}

	var missing, outOfRange []map[string]any
	for _, teamID := range []string{in.Game.HomeTeamID, in.Game.AwayTeamID} {
		count := counts[teamID]
		switch {
		case count == 0:
			missing = append(missing, map[string]any{
				"team_id": teamID,
				"count":   0,
				"code":    "no_player_stats",
				"message": "no player stats found",
			})
		case count < b.MinActivePlayers:
			outOfRange = append(outOfRange, map[string]any{
				"team_id": teamID,
				"count":   count,
				"code":    "too_few_players",
				"message": fmt.Sprintf("too few active players: %d (min %d)", count, b.MinActivePlayers),
			})
		case count > b.MaxActivePlayers:
			outOfRange = append(outOfRange, map[string]any{
				"team_id": teamID,
				"count":   count,
				"code":    "too_many_players",
				"message": fmt.Sprintf("too many active players: %d (max %d)", count, b.MaxActivePlayers),
			})
		}
	}

	out := violationOutcome(append(missing, outOfRange...), fail)
	out.Detail["active_players"] = map[string]any{
		in.Game.HomeTeamID: counts[in.Game.HomeTeamID],
		in.Game.AwayTeamID: counts[in.Game.AwayTeamID],
	}
	return out
}

func activePointsByTeam(players []boxscore.PlayerGameStat) map[string]int {
	out := make(map[string]int, 2)
	for _, p := range players {
		if p.Active() {
			out[p.TeamID] += p.Stats.Points
		}
	}
	return out
}

// violationOutcome passes when there are no violations, otherwise applies
// onViolation. Completeness keeps its own order, everything else is sorted.
func violationOutcome(violations []map[string]any, onViolation func(map[string]any) Outcome) Outcome {
	if len(violations) == 0 {
		return pass(nil)
	}
	return onViolation(map[string]any{
		"violations": violations,
		"count":      len(violations),
	})
}

func sortViolations(items []map[string]any) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := fmt.Sprint(items[i]["player_id"], items[i]["stat"]), fmt.Sprint(items[j]["player_id"], items[j]["stat"])
		return a < b
	})
}
