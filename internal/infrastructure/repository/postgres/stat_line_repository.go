package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

// StatLineRepository stages provider box score lines until a link pass
// resolves them against canonical games.
type StatLineRepository struct {
	db *sqlx.DB
}

func NewStatLineRepository(db *sqlx.DB) *StatLineRepository {
	return &StatLineRepository{db: db}
}

func (r *StatLineRepository) UpsertStatLines(ctx context.Context, lines []boxscore.StatLine) error {
	if len(lines) == 0 {
		return nil
	}

	columns := append([]string{
		"provider", "provider_game_id", "player_ref", "team_ref", "player_name",
		"provider_player_id", "minutes_raw", "comment", "starter", "ingested_at",
	}, countingColumnNames...)
	suffix := `ON CONFLICT (provider, provider_game_id, player_ref, team_ref)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    provider_player_id = EXCLUDED.provider_player_id,
    minutes_raw = EXCLUDED.minutes_raw,
    comment = EXCLUDED.comment,
    starter = EXCLUDED.starter,
    ingested_at = EXCLUDED.ingested_at,
` + countingSet()

	return withTx(ctx, r.db, "upsert stat lines", func(tx *sqlx.Tx) error {
		for _, line := range lines {
			ingestedAt := line.IngestedAt.UTC()
			if ingestedAt.IsZero() {
				ingestedAt = time.Now().UTC()
			}
			values := append([]any{
				string(line.Provider), line.ProviderGameID, line.PlayerRef(), line.TeamRef, line.PlayerName,
				line.ProviderPlayerID, line.Minutes, line.Comment, line.Starter, ingestedAt,
			}, countingValues(line.Stats)...)

			query, args, err := qb.InsertInto("provider_stat_lines").
				Columns(columns...).
				Values(values...).
				Suffix(suffix).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build upsert stat line query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert stat line %s player=%s: %w", line.GameRef(), line.PlayerRef(), err)
			}
		}
		return nil
	})
}

func (r *StatLineRepository) ListStatLines(ctx context.Context, refs []game.SourceRef) ([]boxscore.StatLine, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("provider_stat_lines").
		Where(refsCondition(refs)).
		OrderBy("provider", "provider_game_id", "team_ref", "player_ref").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stat lines query: %w", err)
	}

	var rows []statLineModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stat lines: %w", err)
	}

	out := make([]boxscore.StatLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
