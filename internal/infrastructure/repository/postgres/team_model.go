package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/team"
)

type teamModel struct {
	TeamID       string         `db:"team_id"`
	Abbreviation string         `db:"abbreviation"`
	City         string         `db:"city"`
	Nickname     string         `db:"nickname"`
	Aliases      pq.StringArray `db:"aliases"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	TeamID       string         `db:"team_id"`
	Abbreviation string         `db:"abbreviation"`
	City         string         `db:"city"`
	Nickname     string         `db:"nickname"`
	Aliases      pq.StringArray `db:"aliases"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (m teamModel) toDomain() team.Team {
	return team.Team{
		ID:           m.TeamID,
		Abbreviation: m.Abbreviation,
		City:         m.City,
		Nickname:     m.Nickname,
		Aliases:      []string(m.Aliases),
		ProviderIDs:  map[string]string{},
	}
}

type mappingModel struct {
	EntityType string    `db:"entity_type"`
	Provider   string    `db:"provider"`
	ProviderID string    `db:"provider_id"`
	InternalID string    `db:"internal_id"`
	Metadata   string    `db:"metadata"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type mappingInsertModel struct {
	EntityType string    `db:"entity_type"`
	Provider   string    `db:"provider"`
	ProviderID string    `db:"provider_id"`
	InternalID string    `db:"internal_id"`
	Metadata   string    `db:"metadata"`
	UpdatedAt  time.Time `db:"updated_at"`
}
