package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type BoxScoreRepository struct {
	db *sqlx.DB
}

func NewBoxScoreRepository(db *sqlx.DB) *BoxScoreRepository {
	return &BoxScoreRepository{db: db}
}

func (r *BoxScoreRepository) ReplaceGameStats(ctx context.Context, gameID string, players []boxscore.PlayerGameStat, teams []boxscore.TeamGameStat) error {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}

	now := time.Now().UTC()
	return withTx(ctx, r.db, "replace game stats", func(tx *sqlx.Tx) error {
		for _, table := range []string{"player_game_stats", "team_game_stats"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE game_id = $1", gameID); err != nil {
				return fmt.Errorf("clear %s game=%s: %w", table, gameID, err)
			}
		}

		if len(players) > 0 {
			builder := qb.InsertInto("player_game_stats").Columns(append([]string{
				"game_id", "player_id", "team_id", "provider", "minutes", "started", "dnp_reason", "updated_at",
			}, countingColumnNames...)...)
			for _, item := range players {
				builder.Values(append([]any{
					gameID, item.PlayerID, item.TeamID, string(item.Provider), item.Minutes, item.Started, item.DNPReason, now,
				}, countingValues(item.Stats)...)...)
			}
			query, args, err := builder.ToSQL()
			if err != nil {
				return fmt.Errorf("build insert player game stats query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert player game stats game=%s: %w", gameID, err)
			}
		}

		if len(teams) > 0 {
			builder := qb.InsertInto("team_game_stats").Columns(append([]string{
				"game_id", "team_id", "is_home", "minutes", "player_count", "updated_at",
			}, countingColumnNames...)...)
			for _, item := range teams {
				builder.Values(append([]any{
					gameID, item.TeamID, item.IsHome, item.Minutes, item.PlayerCount, now,
				}, countingValues(item.Stats)...)...)
			}
			query, args, err := builder.ToSQL()
			if err != nil {
				return fmt.Errorf("build insert team game stats query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert team game stats game=%s: %w", gameID, err)
			}
		}
		return nil
	})
}

func (r *BoxScoreRepository) ListPlayerStats(ctx context.Context, gameIDs []string) ([]boxscore.PlayerGameStat, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("player_game_stats").
		Where(qb.In("game_id", stringArgs(gameIDs))).
		OrderBy("game_id", "team_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player game stats query: %w", err)
	}

	var rows []playerGameStatModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player game stats: %w", err)
	}

	out := make([]boxscore.PlayerGameStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BoxScoreRepository) ListTeamStats(ctx context.Context, gameID string) ([]boxscore.TeamGameStat, error) {
	query, args, err := qb.Select("*").From("team_game_stats").
		Where(qb.Eq("game_id", strings.TrimSpace(gameID))).
		OrderBy("is_home DESC", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team game stats query: %w", err)
	}

	var rows []teamGameStatModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team game stats game=%s: %w", gameID, err)
	}

	out := make([]boxscore.TeamGameStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BoxScoreRepository) HasPlayerStats(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM player_game_stats)"); err != nil {
		return false, fmt.Errorf("check player game stats: %w", err)
	}
	return exists, nil
}

func (r *BoxScoreRepository) RecentPlayerIDs(ctx context.Context, teamIDs []string, since time.Time) ([]string, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	query, args, err := recentPlayerIDsQuery(teamIDs, since)
	if err != nil {
		return nil, fmt.Errorf("build recent player ids query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select recent player ids: %w", err)
	}
	return ids, nil
}

// recentPlayerIDsQuery lists players with a stat line for one of the teams in a
// live canonical game on or after since.
func recentPlayerIDsQuery(teamIDs []string, since time.Time) (string, []any, error) {
	return qb.Select("pgs.player_id").
		From("player_game_stats pgs JOIN canonical_games cg ON cg.canonical_id = pgs.game_id").
		Where(
			qb.In("pgs.team_id", stringArgs(teamIDs)),
			qb.Gte("cg.game_date", dateOnly(since)),
			qb.IsNull("cg.merged_into"),
		).
		GroupBy("pgs.player_id").
		OrderBy("pgs.player_id").
		ToSQL()
}
