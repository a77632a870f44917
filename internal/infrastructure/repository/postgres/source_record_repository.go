package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type SourceRecordRepository struct {
	db *sqlx.DB
}

func NewSourceRecordRepository(db *sqlx.DB) *SourceRecordRepository {
	return &SourceRecordRepository{db: db}
}

func (r *SourceRecordRepository) UpsertSourceRecords(ctx context.Context, items []game.SourceRecord) error {
	if len(items) == 0 {
		return nil
	}

	return withTx(ctx, r.db, "upsert source records", func(tx *sqlx.Tx) error {
		for _, item := range items {
			ingestedAt := item.IngestedAt.UTC()
			if ingestedAt.IsZero() {
				ingestedAt = time.Now().UTC()
			}
			model := sourceRecordInsertModel{
				Provider:       string(item.Provider),
				ProviderGameID: item.ProviderGameID,
				GameDate:       dateOnly(item.Date),
				StartTime:      item.StartTime,
				HomeTeamRef:    item.HomeTeamRef,
				AwayTeamRef:    item.AwayTeamRef,
				Status:         string(item.Status),
				HomeScore:      item.HomeScore,
				AwayScore:      item.AwayScore,
				Venue:          item.Venue,
				IngestedAt:     ingestedAt,
			}
			query, args, err := qb.InsertModel("game_source_records", model, `ON CONFLICT (provider, provider_game_id)
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    start_time = EXCLUDED.start_time,
    home_team_ref = EXCLUDED.home_team_ref,
    away_team_ref = EXCLUDED.away_team_ref,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    venue = EXCLUDED.venue,
    ingested_at = EXCLUDED.ingested_at`)
			if err != nil {
				return fmt.Errorf("build upsert source record query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert source record %s: %w", item.Ref(), err)
			}
		}
		return nil
	})
}

func (r *SourceRecordRepository) ListSourceRecords(ctx context.Context, from, to time.Time) ([]game.SourceRecord, error) {
	query, args, err := qb.Select("*").From("game_source_records").
		Where(qb.Between("game_date", dateOnly(from), dateOnly(to))).
		OrderBy("game_date", "provider", "provider_game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select source records query: %w", err)
	}

	var rows []sourceRecordModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select source records: %w", err)
	}
	return sourceRecordsToDomain(rows), nil
}

func (r *SourceRecordRepository) ListSourceRecordsByRefs(ctx context.Context, refs []game.SourceRef) ([]game.SourceRecord, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("game_source_records").
		Where(refsCondition(refs)).
		OrderBy("provider", "provider_game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select source records by refs query: %w", err)
	}

	var rows []sourceRecordModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select source records by refs: %w", err)
	}
	return sourceRecordsToDomain(rows), nil
}

func sourceRecordsToDomain(rows []sourceRecordModel) []game.SourceRecord {
	out := make([]game.SourceRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// refsCondition matches (provider, provider_game_id) pairs.
func refsCondition(refs []game.SourceRef) qb.Condition {
	parts := make([]qb.Condition, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, qb.Expr("(provider = ? AND provider_game_id = ?)", string(ref.Provider), ref.ProviderGameID))
	}
	return qb.Or(parts...)
}
