package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

type sourceRecordModel struct {
	Provider       string        `db:"provider"`
	ProviderGameID string        `db:"provider_game_id"`
	GameDate       time.Time     `db:"game_date"`
	StartTime      sql.NullTime  `db:"start_time"`
	HomeTeamRef    string        `db:"home_team_ref"`
	AwayTeamRef    string        `db:"away_team_ref"`
	Status         string        `db:"status"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	Venue          string        `db:"venue"`
	IngestedAt     time.Time     `db:"ingested_at"`
}

type sourceRecordInsertModel struct {
	Provider       string     `db:"provider"`
	ProviderGameID string     `db:"provider_game_id"`
	GameDate       string     `db:"game_date"`
	StartTime      *time.Time `db:"start_time"`
	HomeTeamRef    string     `db:"home_team_ref"`
	AwayTeamRef    string     `db:"away_team_ref"`
	Status         string     `db:"status"`
	HomeScore      *int       `db:"home_score"`
	AwayScore      *int       `db:"away_score"`
	Venue          string     `db:"venue"`
	IngestedAt     time.Time  `db:"ingested_at"`
}

func (m sourceRecordModel) toDomain() game.SourceRecord {
	return game.SourceRecord{
		Provider:       game.Provider(m.Provider),
		ProviderGameID: m.ProviderGameID,
		Date:           etDate(m.GameDate),
		StartTime:      nullTimePtr(m.StartTime),
		HomeTeamRef:    m.HomeTeamRef,
		AwayTeamRef:    m.AwayTeamRef,
		Status:         game.Status(m.Status),
		HomeScore:      nullIntPtr(m.HomeScore),
		AwayScore:      nullIntPtr(m.AwayScore),
		Venue:          m.Venue,
		IngestedAt:     m.IngestedAt,
	}
}

type canonicalGameModel struct {
	CanonicalID          string        `db:"canonical_id"`
	GameDate             time.Time     `db:"game_date"`
	StartTime            sql.NullTime  `db:"start_time"`
	HomeTeamID           string        `db:"home_team_id"`
	AwayTeamID           string        `db:"away_team_id"`
	Status               string        `db:"status"`
	HomeScore            sql.NullInt64 `db:"home_score"`
	AwayScore            sql.NullInt64 `db:"away_score"`
	Venue                string        `db:"venue"`
	ChosenProvider       string        `db:"chosen_provider"`
	ChosenProviderGameID string        `db:"chosen_provider_game_id"`
	UpdatedAt            time.Time     `db:"updated_at"`
}

type canonicalGameInsertModel struct {
	CanonicalID          string     `db:"canonical_id"`
	GameDate             string     `db:"game_date"`
	StartTime            *time.Time `db:"start_time"`
	HomeTeamID           string     `db:"home_team_id"`
	AwayTeamID           string     `db:"away_team_id"`
	Status               string     `db:"status"`
	HomeScore            *int       `db:"home_score"`
	AwayScore            *int       `db:"away_score"`
	Venue                string     `db:"venue"`
	ChosenProvider       string     `db:"chosen_provider"`
	ChosenProviderGameID string     `db:"chosen_provider_game_id"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

func (m canonicalGameModel) toDomain() game.CanonicalGame {
	return game.CanonicalGame{
		ID:         m.CanonicalID,
		Date:       etDate(m.GameDate),
		StartTime:  nullTimePtr(m.StartTime),
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Status:     game.Status(m.Status),
		HomeScore:  nullIntPtr(m.HomeScore),
		AwayScore:  nullIntPtr(m.AwayScore),
		Venue:      m.Venue,
		ChosenSource: game.SourceRef{
			Provider:       game.Provider(m.ChosenProvider),
			ProviderGameID: m.ChosenProviderGameID,
		},
		UpdatedAt: m.UpdatedAt,
	}
}

type sourceLinkModel struct {
	Provider       string    `db:"provider"`
	ProviderGameID string    `db:"provider_game_id"`
	CanonicalID    string    `db:"canonical_id"`
	LinkedAt       time.Time `db:"linked_at"`
}

// etDate maps a DATE column, which the driver returns as UTC midnight, onto
// midnight ET of the same calendar day.
func etDate(t time.Time) time.Time {
	return game.DateOnly(t.Year(), t.Month(), t.Day())
}
