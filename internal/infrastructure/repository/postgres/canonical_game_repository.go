package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type CanonicalGameRepository struct {
	db *sqlx.DB
}

func NewCanonicalGameRepository(db *sqlx.DB) *CanonicalGameRepository {
	return &CanonicalGameRepository{db: db}
}

func (r *CanonicalGameRepository) GetByID(ctx context.Context, canonicalID string) (game.CanonicalGame, bool, error) {
	items, err := r.List(ctx, game.Query{GameID: canonicalID})
	if err != nil {
		return game.CanonicalGame{}, false, err
	}
	if len(items) == 0 {
		return game.CanonicalGame{}, false, nil
	}
	return items[0], true, nil
}

func (r *CanonicalGameRepository) List(ctx context.Context, query game.Query) ([]game.CanonicalGame, error) {
	sqlQuery, args, err := BuildGameQuery(query)
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", ClassifyGameQuery(query), err)
	}

	var rows []canonicalGameModel
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("select canonical games (%s): %w", ClassifyGameQuery(query), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CanonicalID)
	}
	links, err := r.listLinksByCanonical(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]game.CanonicalGame, 0, len(rows))
	for _, row := range rows {
		item := row.toDomain()
		item.Sources = links[item.ID]
		item.SortSources()
		out = append(out, item)
	}
	return out, nil
}

func (r *CanonicalGameRepository) FindLinks(ctx context.Context, refs []game.SourceRef) ([]game.Link, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("provider", "provider_game_id", "canonical_id", "linked_at").
		From("game_source_links").
		Where(refsCondition(refs)).
		OrderBy("provider", "provider_game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select source links query: %w", err)
	}

	var rows []sourceLinkModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select source links: %w", err)
	}

	out := make([]game.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Link{
			Ref:         game.SourceRef{Provider: game.Provider(row.Provider), ProviderGameID: row.ProviderGameID},
			CanonicalID: row.CanonicalID,
		})
	}
	return out, nil
}

func (r *CanonicalGameRepository) SaveGroup(ctx context.Context, item game.CanonicalGame, mergedIDs []string) error {
	canonicalID := strings.TrimSpace(item.ID)
	if canonicalID == "" {
		return fmt.Errorf("canonical id is required")
	}

	updatedAt := item.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	merged := make([]string, 0, len(mergedIDs))
	for _, id := range mergedIDs {
		if id = strings.TrimSpace(id); id != "" && id != canonicalID {
			merged = append(merged, id)
		}
	}

	return withTx(ctx, r.db, "save canonical group", func(tx *sqlx.Tx) error {
		model := canonicalGameInsertModel{
			CanonicalID:          canonicalID,
			GameDate:             dateOnly(item.Date),
			StartTime:            item.StartTime,
			HomeTeamID:           item.HomeTeamID,
			AwayTeamID:           item.AwayTeamID,
			Status:               string(item.Status),
			HomeScore:            item.HomeScore,
			AwayScore:            item.AwayScore,
			Venue:                item.Venue,
			ChosenProvider:       string(item.ChosenSource.Provider),
			ChosenProviderGameID: item.ChosenSource.ProviderGameID,
			UpdatedAt:            updatedAt,
		}
		query, args, err := qb.InsertModel("canonical_games", model, `ON CONFLICT (canonical_id)
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    start_time = EXCLUDED.start_time,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    venue = EXCLUDED.venue,
    chosen_provider = EXCLUDED.chosen_provider,
    chosen_provider_game_id = EXCLUDED.chosen_provider_game_id,
    merged_into = NULL,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert canonical game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert canonical game id=%s: %w", canonicalID, err)
		}

		if len(merged) > 0 {
			query, args, err = qb.Update("game_source_links").
				Set("canonical_id", canonicalID).
				Set("linked_at", updatedAt).
				Where(qb.In("canonical_id", stringArgs(merged))).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build repoint source links query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("repoint source links into id=%s: %w", canonicalID, err)
			}

			query, args, err = qb.Update("canonical_games").
				Set("merged_into", canonicalID).
				Set("updated_at", updatedAt).
				Where(qb.In("canonical_id", stringArgs(merged))).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build mark merged query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("mark canonical games merged into id=%s: %w", canonicalID, err)
			}
		}

		if len(item.Sources) == 0 {
			return nil
		}
		links := make([]sourceLinkModel, 0, len(item.Sources))
		for _, ref := range item.Sources {
			links = append(links, sourceLinkModel{
				Provider:       string(ref.Provider),
				ProviderGameID: ref.ProviderGameID,
				CanonicalID:    canonicalID,
				LinkedAt:       updatedAt,
			})
		}
		query, args, err = qb.InsertModels("game_source_links", links, `ON CONFLICT (provider, provider_game_id)
DO UPDATE SET
    canonical_id = EXCLUDED.canonical_id,
    linked_at = CASE
        WHEN game_source_links.canonical_id = EXCLUDED.canonical_id THEN game_source_links.linked_at
        ELSE EXCLUDED.linked_at
    END`)
		if err != nil {
			return fmt.Errorf("build upsert source links query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert source links for id=%s: %w", canonicalID, err)
		}
		return nil
	})
}

func (r *CanonicalGameRepository) listLinksByCanonical(ctx context.Context, canonicalIDs []string) (map[string][]game.SourceRef, error) {
	query, args, err := qb.Select("provider", "provider_game_id", "canonical_id", "linked_at").
		From("game_source_links").
		Where(qb.In("canonical_id", stringArgs(canonicalIDs))).
		OrderBy("canonical_id", "provider", "provider_game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select links by canonical query: %w", err)
	}

	var rows []sourceLinkModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select links by canonical: %w", err)
	}

	out := make(map[string][]game.SourceRef, len(canonicalIDs))
	for _, row := range rows {
		out[row.CanonicalID] = append(out[row.CanonicalID], game.SourceRef{
			Provider:       game.Provider(row.Provider),
			ProviderGameID: row.ProviderGameID,
		})
	}
	return out, nil
}
