package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.list(ctx, "list players by team", qb.Eq("team_id", strings.TrimSpace(teamID)))
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	return r.list(ctx, "list players")
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, "get players by ids", qb.In("player_id", stringArgs(playerIDs)))
}

func (r *PlayerRepository) UpsertPlayers(ctx context.Context, items []player.Player) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]playerInsertModel, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert player: %w", err)
		}
		models = append(models, playerInsertModel{
			PlayerID:  item.ID,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			TeamID:    nullableString(item.TeamID),
			Active:    item.Active,
			UpdatedAt: now,
		})
	}

	query, args, err := qb.InsertModels("players", models, `ON CONFLICT (player_id)
DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    team_id = EXCLUDED.team_id,
    active = EXCLUDED.active,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert players query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert players count=%d: %w", len(models), err)
	}
	return nil
}

func (r *PlayerRepository) list(ctx context.Context, action string, conditions ...qb.Condition) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(conditions...).
		OrderBy("last_name", "first_name", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", action, err)
	}

	var rows []playerModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
