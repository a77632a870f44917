package postgres

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

// GameQueryKind names each canonical game selection the repository
// supports. Every kind has its own builder.
type GameQueryKind string

const (
	GameQueryWindowAll             GameQueryKind = "window_all"
	GameQueryWindowTeam            GameQueryKind = "window_team"
	GameQuerySingleGame            GameQueryKind = "single_game"
	GameQueryWindowUnvalidated     GameQueryKind = "window_unvalidated"
	GameQueryWindowTeamUnvalidated GameQueryKind = "window_team_unvalidated"
)

var canonicalGameColumns = []string{
	"canonical_id",
	"game_date",
	"start_time",
	"home_team_id",
	"away_team_id",
	"status",
	"home_score",
	"away_score",
	"venue",
	"chosen_provider",
	"chosen_provider_game_id",
	"updated_at",
}

const notValidatedExpr = "NOT EXISTS (SELECT 1 FROM validation_results vr WHERE vr.game_id = canonical_games.canonical_id)"

// ClassifyGameQuery maps a query onto its variant. A game id wins over every
// other filter.
func ClassifyGameQuery(q game.Query) GameQueryKind {
	team := strings.TrimSpace(q.TeamID) != ""
	switch {
	case strings.TrimSpace(q.GameID) != "":
		return GameQuerySingleGame
	case team && q.UnvalidatedOnly:
		return GameQueryWindowTeamUnvalidated
	case team:
		return GameQueryWindowTeam
	case q.UnvalidatedOnly:
		return GameQueryWindowUnvalidated
	default:
		return GameQueryWindowAll
	}
}

func BuildGameQuery(q game.Query) (string, []any, error) {
	kind := ClassifyGameQuery(q)
	switch kind {
	case GameQuerySingleGame:
		return singleGameQuery(q)
	case GameQueryWindowTeam:
		return windowTeamQuery(q)
	case GameQueryWindowUnvalidated:
		return windowUnvalidatedQuery(q)
	case GameQueryWindowTeamUnvalidated:
		return windowTeamUnvalidatedQuery(q)
	case GameQueryWindowAll:
		return windowAllQuery(q)
	default:
		return "", nil, fmt.Errorf("unsupported game query kind %q", kind)
	}
}

func selectCanonical(conditions ...qb.Condition) (string, []any, error) {
	conditions = append([]qb.Condition{qb.IsNull("merged_into")}, conditions...)
	return qb.Select(canonicalGameColumns...).
		From("canonical_games").
		Where(conditions...).
		OrderBy("game_date", "canonical_id").
		ToSQL()
}

func windowCondition(q game.Query) (qb.Condition, error) {
	if q.From.IsZero() || q.To.IsZero() {
		return nil, fmt.Errorf("window query requires from and to")
	}
	if q.To.Before(q.From) {
		return nil, fmt.Errorf("window end %s is before start %s", dateOnly(q.To), dateOnly(q.From))
	}
	return qb.Between("game_date", dateOnly(q.From), dateOnly(q.To)), nil
}

func teamCondition(teamID string) qb.Condition {
	teamID = strings.TrimSpace(teamID)
	return qb.Or(qb.Eq("home_team_id", teamID), qb.Eq("away_team_id", teamID))
}

func windowAllQuery(q game.Query) (string, []any, error) {
	window, err := windowCondition(q)
	if err != nil {
		return "", nil, err
	}
	return selectCanonical(window)
}

func windowTeamQuery(q game.Query) (string, []any, error) {
	window, err := windowCondition(q)
	if err != nil {
		return "", nil, err
	}
	return selectCanonical(window, teamCondition(q.TeamID))
}

func singleGameQuery(q game.Query) (string, []any, error) {
	return selectCanonical(qb.Eq("canonical_id", strings.TrimSpace(q.GameID)))
}

func windowUnvalidatedQuery(q game.Query) (string, []any, error) {
	window, err := windowCondition(q)
	if err != nil {
		return "", nil, err
	}
	return selectCanonical(window, qb.Expr(notValidatedExpr))
}

func windowTeamUnvalidatedQuery(q game.Query) (string, []any, error) {
	window, err := windowCondition(q)
	if err != nil {
		return "", nil, err
	}
	return selectCanonical(window, teamCondition(q.TeamID), qb.Expr(notValidatedExpr))
}
