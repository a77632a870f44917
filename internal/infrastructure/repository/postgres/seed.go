package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/team"
)

// BootstrapSeed loads the embedded team catalog into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return 0, fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	teams, err := team.Catalog()
	if err != nil {
		return 0, fmt.Errorf("load team catalog: %w", err)
	}
	if err := NewTeamRepository(db).UpsertTeams(ctx, teams); err != nil {
		return 0, fmt.Errorf("seed teams: %w", err)
	}
	return len(teams), nil
}
