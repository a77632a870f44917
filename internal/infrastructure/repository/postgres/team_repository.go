package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/team"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

// TeamRepository stores the franchise catalog. Provider ids live in
// provider_id_map so team and player mappings share one table.
type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").OrderBy("team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	return r.attachProviderIDs(ctx, rows)
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("team_id", strings.ToUpper(strings.TrimSpace(teamID)))).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by id query: %w", err)
	}

	var rows []teamModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return team.Team{}, false, fmt.Errorf("select team by id: %w", err)
	}
	if len(rows) == 0 {
		return team.Team{}, false, nil
	}
	items, err := r.attachProviderIDs(ctx, rows)
	if err != nil {
		return team.Team{}, false, err
	}
	return items[0], true, nil
}

func (r *TeamRepository) UpsertTeams(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return withTx(ctx, r.db, "upsert teams", func(tx *sqlx.Tx) error {
		models := make([]teamInsertModel, 0, len(items))
		mappings := make([]identity.Mapping, 0, len(items)*4)
		for _, item := range items {
			aliases := item.Aliases
			if aliases == nil {
				aliases = []string{}
			}
			models = append(models, teamInsertModel{
				TeamID:       item.ID,
				Abbreviation: item.Abbreviation,
				City:         item.City,
				Nickname:     item.Nickname,
				Aliases:      aliases,
				UpdatedAt:    now,
			})
			for provider, providerID := range item.ProviderIDs {
				if strings.TrimSpace(providerID) == "" {
					continue
				}
				mappings = append(mappings, identity.Mapping{
					EntityType: identity.EntityTeam,
					Provider:   game.NormalizeProvider(provider),
					ProviderID: providerID,
					InternalID: item.ID,
					UpdatedAt:  now,
				})
			}
		}

		query, args, err := qb.InsertModels("teams", models, `ON CONFLICT (team_id)
DO UPDATE SET
    abbreviation = EXCLUDED.abbreviation,
    city = EXCLUDED.city,
    nickname = EXCLUDED.nickname,
    aliases = EXCLUDED.aliases,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert teams query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert teams: %w", err)
		}
		return upsertMappingsTx(ctx, tx, mappings)
	})
}

func (r *TeamRepository) attachProviderIDs(ctx context.Context, rows []teamModel) ([]team.Team, error) {
	mappings, err := NewMappingRepository(r.db).ListMappings(ctx, identity.EntityTeam)
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		index[row.TeamID] = len(out)
		out = append(out, row.toDomain())
	}
	for _, m := range mappings {
		if i, ok := index[m.InternalID]; ok {
			out[i].ProviderIDs[string(m.Provider)] = m.ProviderID
		}
	}
	return out, nil
}
