package boxscore

import (
	"strings"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

// Counting is the per-line stat set shared by inbound lines, player rows and
// team totals.
type Counting struct {
	Points         int
	Rebounds       int
	OffRebounds    int
	Assists        int
	Steals         int
	Blocks         int
	Turnovers      int
	Fouls          int
	FieldGoalsMade int
	FieldGoalsAtt  int
	ThreesMade     int
	ThreesAtt      int
	FreeThrowsMade int
	FreeThrowsAtt  int
	PlusMinus      int
}

// HasActivity reports any positive counting stat. Plus-minus is excluded
// since bench players can carry one without touching the ball.
func (c Counting) HasActivity() bool {
	return c.Points > 0 || c.Rebounds > 0 || c.Assists > 0 || c.Steals > 0 || c.Blocks > 0 ||
		c.Turnovers > 0 || c.Fouls > 0 || c.FieldGoalsAtt > 0 || c.ThreesAtt > 0 || c.FreeThrowsAtt > 0 ||
		c.FieldGoalsMade > 0 || c.ThreesMade > 0 || c.FreeThrowsMade > 0 || c.OffRebounds > 0
}

func (c *Counting) Add(other Counting) {
	c.Points += other.Points
	c.Rebounds += other.Rebounds
	c.OffRebounds += other.OffRebounds
	c.Assists += other.Assists
	c.Steals += other.Steals
	c.Blocks += other.Blocks
	c.Turnovers += other.Turnovers
	c.Fouls += other.Fouls
	c.FieldGoalsMade += other.FieldGoalsMade
	c.FieldGoalsAtt += other.FieldGoalsAtt
	c.ThreesMade += other.ThreesMade
	c.ThreesAtt += other.ThreesAtt
	c.FreeThrowsMade += other.FreeThrowsMade
	c.FreeThrowsAtt += other.FreeThrowsAtt
	c.PlusMinus += other.PlusMinus
}

// StatLine is one provider's raw player line before identity resolution.
type StatLine struct {
	Provider         game.Provider
	ProviderGameID   string
	PlayerName       string
	ProviderPlayerID string
	TeamRef          string
	Minutes          string
	Comment          string
	Starter          bool
	Stats            Counting
	IngestedAt       time.Time
}

func (l StatLine) GameRef() game.SourceRef {
	return game.SourceRef{Provider: l.Provider, ProviderGameID: l.ProviderGameID}
}

// PlayerRef is the key used for provider mappings. Lines without a provider
// player id fall back to the normalized display name.
func (l StatLine) PlayerRef() string {
	if id := strings.TrimSpace(l.ProviderPlayerID); id != "" {
		return id
	}
	return "name:" + strings.ToLower(strings.Join(strings.Fields(l.PlayerName), " "))
}

// PlayerGameStat is a resolved player line tied to a canonical game.
// DNPReason nil means the player was active.
type PlayerGameStat struct {
	GameID    string
	PlayerID  string
	TeamID    string
	Provider  game.Provider
	Minutes   *float64
	Started   bool
	DNPReason *string
	Stats     Counting
}

func (s PlayerGameStat) Active() bool {
	return s.DNPReason == nil
}

// MinutesOrZero treats unknown minutes as zero.
func (s PlayerGameStat) MinutesOrZero() float64 {
	if s.Minutes == nil {
		return 0
	}
	return *s.Minutes
}

// TeamGameStat holds team totals derived from active player lines.
type TeamGameStat struct {
	GameID      string
	TeamID      string
	IsHome      bool
	Minutes     float64
	PlayerCount int
	Stats       Counting
}

// FromStatLine resolves minutes and DNP status for a linked line.
func FromStatLine(line StatLine, gameID, playerID, teamID string) PlayerGameStat {
	minutes := ParseMinutes(line.Minutes)
	return PlayerGameStat{
		GameID:    gameID,
		PlayerID:  playerID,
		TeamID:    teamID,
		Provider:  line.Provider,
		Minutes:   minutes,
		Started:   line.Starter,
		DNPReason: DNPReason(minutes, line.Comment, line.Stats),
		Stats:     line.Stats,
	}
}

// DNPReason returns the provider comment when minutes are missing. A line
// with no minutes, no comment and no activity is recorded as "DNP".
func DNPReason(minutes *float64, comment string, stats Counting) *string {
	if minutes != nil {
		return nil
	}
	comment = strings.TrimSpace(comment)
	if comment != "" {
		return &comment
	}
	if !stats.HasActivity() {
		reason := "DNP"
		return &reason
	}
	return nil
}

// AggregateTeam sums active lines for one team.
func AggregateTeam(gameID, teamID string, isHome bool, lines []PlayerGameStat) TeamGameStat {
	out := TeamGameStat{GameID: gameID, TeamID: teamID, IsHome: isHome}
	for _, line := range lines {
		if line.TeamID != teamID || !line.Active() {
			continue
		}
		out.PlayerCount++
		out.Minutes += line.MinutesOrZero()
		out.Stats.Add(line.Stats)
	}
	return out
}
