package memory

import (
	"fmt"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/team"
)

// SeedTeams returns the embedded catalog for an in-memory store.
func SeedTeams() ([]team.Team, error) {
	teams, err := team.Catalog()
	if err != nil {
		return nil, fmt.Errorf("load team catalog: %w", err)
	}
	return teams, nil
}
