package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type identityIssueModel struct {
	Provider         string         `db:"provider"`
	ProviderRef      string         `db:"provider_ref"`
	GameID           string         `db:"game_id"`
	PlayerName       string         `db:"player_name"`
	TeamID           string         `db:"team_id"`
	Status           string         `db:"status"`
	Candidates       pq.StringArray `db:"candidates"`
	CreatedAt        time.Time      `db:"created_at"`
	ResolvedPlayerID sql.NullString `db:"resolved_player_id"`
	ResolvedAt       sql.NullTime   `db:"resolved_at"`
}

type identityIssueInsertModel struct {
	Provider    string         `db:"provider"`
	ProviderRef string         `db:"provider_ref"`
	GameID      string         `db:"game_id"`
	PlayerName  string         `db:"player_name"`
	TeamID      string         `db:"team_id"`
	Status      string         `db:"status"`
	Candidates  pq.StringArray `db:"candidates"`
	CreatedAt   time.Time      `db:"created_at"`
}

type IdentityIssueRepository struct {
	db *sqlx.DB
}

func NewIdentityIssueRepository(db *sqlx.DB) *IdentityIssueRepository {
	return &IdentityIssueRepository{db: db}
}

// UpsertIssues refreshes open issues. A resolved issue is left resolved.
func (r *IdentityIssueRepository) UpsertIssues(ctx context.Context, issues []identity.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	return withTx(ctx, r.db, "upsert identity issues", func(tx *sqlx.Tx) error {
		for _, issue := range issues {
			candidates := issue.Candidates
			if candidates == nil {
				candidates = []string{}
			}
			createdAt := issue.CreatedAt.UTC()
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			model := identityIssueInsertModel{
				Provider:    string(issue.Provider),
				ProviderRef: issue.ProviderRef,
				GameID:      issue.GameID,
				PlayerName:  issue.PlayerName,
				TeamID:      issue.TeamID,
				Status:      string(issue.Status),
				Candidates:  candidates,
				CreatedAt:   createdAt,
			}
			query, args, err := qb.InsertModel("identity_issues", model, `ON CONFLICT (provider, provider_ref, game_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    team_id = EXCLUDED.team_id,
    status = EXCLUDED.status,
    candidates = EXCLUDED.candidates
WHERE identity_issues.resolved_at IS NULL`)
			if err != nil {
				return fmt.Errorf("build upsert identity issue query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert identity issue %s:%s game=%s: %w", issue.Provider, issue.ProviderRef, issue.GameID, err)
			}
		}
		return nil
	})
}

func (r *IdentityIssueRepository) ListOpen(ctx context.Context, limit, offset int) ([]identity.Issue, error) {
	query, args, err := qb.Select("*").From("identity_issues").
		Where(qb.IsNull("resolved_at")).
		OrderBy("created_at", "provider", "provider_ref", "game_id").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select open identity issues query: %w", err)
	}

	var rows []identityIssueModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select open identity issues: %w", err)
	}

	out := make([]identity.Issue, 0, len(rows))
	for _, row := range rows {
		out = append(out, identity.Issue{
			Provider:         game.Provider(row.Provider),
			ProviderRef:      row.ProviderRef,
			PlayerName:       row.PlayerName,
			TeamID:           row.TeamID,
			GameID:           row.GameID,
			Status:           identity.IssueStatus(row.Status),
			Candidates:       []string(row.Candidates),
			CreatedAt:        row.CreatedAt,
			ResolvedPlayerID: nullStringValue(row.ResolvedPlayerID),
			ResolvedAt:       nullTimePtr(row.ResolvedAt),
		})
	}
	return out, nil
}

func (r *IdentityIssueRepository) MarkResolved(ctx context.Context, provider game.Provider, providerRef, playerID string, at time.Time) (int, error) {
	query, args, err := markResolvedQuery(provider, providerRef, playerID, at)
	if err != nil {
		return 0, fmt.Errorf("build resolve identity issue query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("resolve identity issues %s:%s: %w", provider, providerRef, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read resolved identity issue count: %w", err)
	}
	return int(affected), nil
}

// markResolvedQuery closes open issues for the reference raised at or before at.
func markResolvedQuery(provider game.Provider, providerRef, playerID string, at time.Time) (string, []any, error) {
	return qb.Update("identity_issues").
		Set("resolved_player_id", strings.TrimSpace(playerID)).
		Set("resolved_at", at.UTC()).
		Where(
			qb.Eq("provider", string(provider)),
			qb.Eq("provider_ref", strings.TrimSpace(providerRef)),
			qb.IsNull("resolved_at"),
			qb.Lte("created_at", at.UTC()),
		).
		ToSQL()
}
