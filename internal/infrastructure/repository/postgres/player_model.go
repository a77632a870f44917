package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
)

type playerModel struct {
	PlayerID  string         `db:"player_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	TeamID    sql.NullString `db:"team_id"`
	Active    bool           `db:"active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type playerInsertModel struct {
	PlayerID  string    `db:"player_id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	TeamID    *string   `db:"team_id"`
	Active    bool      `db:"active"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m playerModel) toDomain() player.Player {
	return player.Player{
		ID:        m.PlayerID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		TeamID:    nullStringValue(m.TeamID),
		Active:    m.Active,
	}
}
