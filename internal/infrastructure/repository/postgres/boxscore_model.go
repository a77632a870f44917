package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

// countingColumns mirrors boxscore.Counting in every stat table.
type countingColumns struct {
	Points         int `db:"points"`
	Rebounds       int `db:"rebounds"`
	OffRebounds    int `db:"off_rebounds"`
	Assists        int `db:"assists"`
	Steals         int `db:"steals"`
	Blocks         int `db:"blocks"`
	Turnovers      int `db:"turnovers"`
	Fouls          int `db:"fouls"`
	FieldGoalsMade int `db:"fgm"`
	FieldGoalsAtt  int `db:"fga"`
	ThreesMade     int `db:"fg3m"`
	ThreesAtt      int `db:"fg3a"`
	FreeThrowsMade int `db:"ftm"`
	FreeThrowsAtt  int `db:"fta"`
	PlusMinus      int `db:"plus_minus"`
}

var countingColumnNames = []string{
	"points", "rebounds", "off_rebounds", "assists", "steals", "blocks", "turnovers", "fouls",
	"fgm", "fga", "fg3m", "fg3a", "ftm", "fta", "plus_minus",
}

// countingValues lines up with countingColumnNames. The insert helpers in
// querybuilder skip embedded structs, so stat rows are built column by column.
func countingValues(c boxscore.Counting) []any {
	return []any{
		c.Points, c.Rebounds, c.OffRebounds, c.Assists, c.Steals, c.Blocks, c.Turnovers, c.Fouls,
		c.FieldGoalsMade, c.FieldGoalsAtt, c.ThreesMade, c.ThreesAtt, c.FreeThrowsMade, c.FreeThrowsAtt, c.PlusMinus,
	}
}

func countingSet() string {
	parts := make([]string, 0, len(countingColumnNames))
	for _, col := range countingColumnNames {
		parts = append(parts, "    "+col+" = EXCLUDED."+col)
	}
	return strings.Join(parts, ",\n")
}

func (c countingColumns) toDomain() boxscore.Counting {
	return boxscore.Counting(c)
}

type statLineModel struct {
	Provider         string    `db:"provider"`
	ProviderGameID   string    `db:"provider_game_id"`
	PlayerRef        string    `db:"player_ref"`
	TeamRef          string    `db:"team_ref"`
	PlayerName       string    `db:"player_name"`
	ProviderPlayerID string    `db:"provider_player_id"`
	MinutesRaw       string    `db:"minutes_raw"`
	Comment          string    `db:"comment"`
	Starter          bool      `db:"starter"`
	IngestedAt       time.Time `db:"ingested_at"`
	countingColumns
}

func (m statLineModel) toDomain() boxscore.StatLine {
	return boxscore.StatLine{
		Provider:         game.Provider(m.Provider),
		ProviderGameID:   m.ProviderGameID,
		PlayerName:       m.PlayerName,
		ProviderPlayerID: m.ProviderPlayerID,
		TeamRef:          m.TeamRef,
		Minutes:          m.MinutesRaw,
		Comment:          m.Comment,
		Starter:          m.Starter,
		Stats:            m.countingColumns.toDomain(),
		IngestedAt:       m.IngestedAt,
	}
}

type playerGameStatModel struct {
	GameID    string          `db:"game_id"`
	PlayerID  string          `db:"player_id"`
	TeamID    string          `db:"team_id"`
	Provider  string          `db:"provider"`
	Minutes   sql.NullFloat64 `db:"minutes"`
	Started   bool            `db:"started"`
	DNPReason sql.NullString  `db:"dnp_reason"`
	UpdatedAt time.Time       `db:"updated_at"`
	countingColumns
}

func (m playerGameStatModel) toDomain() boxscore.PlayerGameStat {
	out := boxscore.PlayerGameStat{
		GameID:   m.GameID,
		PlayerID: m.PlayerID,
		TeamID:   m.TeamID,
		Provider: game.Provider(m.Provider),
		Minutes:  nullFloatPtr(m.Minutes),
		Started:  m.Started,
		Stats:    m.countingColumns.toDomain(),
	}
	if m.DNPReason.Valid {
		reason := m.DNPReason.String
		out.DNPReason = &reason
	}
	return out
}

type teamGameStatModel struct {
	GameID      string    `db:"game_id"`
	TeamID      string    `db:"team_id"`
	IsHome      bool      `db:"is_home"`
	Minutes     float64   `db:"minutes"`
	PlayerCount int       `db:"player_count"`
	UpdatedAt   time.Time `db:"updated_at"`
	countingColumns
}

func (m teamGameStatModel) toDomain() boxscore.TeamGameStat {
	return boxscore.TeamGameStat{
		GameID:      m.GameID,
		TeamID:      m.TeamID,
		IsHome:      m.IsHome,
		Minutes:     m.Minutes,
		PlayerCount: m.PlayerCount,
		Stats:       m.countingColumns.toDomain(),
	}
}
