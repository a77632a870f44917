// Package nbastats normalizes documents from the league's own stats feed:
// scoreboard, box score and roster endpoints.
package nbastats

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hoops-reconciler/external/feed"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

type Normalizer struct {
	logger *logging.Logger
	now    func() time.Time
}

func NewNormalizer(logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Normalizer{logger: logger.Named("nbastats"), now: time.Now}
}

func (n *Normalizer) Provider() game.Provider {
	return game.ProviderNBA
}

func (n *Normalizer) Normalize(ctx context.Context, kind usecase.PayloadKind, raw []byte) (usecase.ExternalBatch, error) {
	batch := usecase.ExternalBatch{Provider: game.ProviderNBA, Kind: kind}
	var err error
	switch kind {
	case usecase.PayloadGames:
		batch.Games, batch.Rejections, err = n.games(raw)
	case usecase.PayloadStats:
		batch.StatLines, batch.Rejections, err = n.statLines(raw)
	case usecase.PayloadPlayers:
		batch.Players, batch.Rejections, err = n.players(raw)
	default:
		return batch, fmt.Errorf("%w: nba %s", usecase.ErrUnsupportedPayload, kind)
	}
	if err != nil {
		return batch, err
	}
	for _, rej := range batch.Rejections {
		n.logger.WarnContext(ctx, "nba row rejected", "kind", kind, "raw_id", rej.RawID, "reason", rej.Reason)
	}
	return batch, nil
}

type scoreboardEnvelope struct {
	Scoreboard struct {
		GameDate string           `json:"gameDate"`
		Games    []scoreboardGame `json:"games"`
	} `json:"scoreboard"`
}

type scoreboardGame struct {
	GameID         string         `json:"gameId"`
	GameCode       string         `json:"gameCode"`
	GameStatus     any            `json:"gameStatus"`
	GameStatusText string         `json:"gameStatusText"`
	GameTimeUTC    string         `json:"gameTimeUTC"`
	GameEt         string         `json:"gameEt"`
	ArenaName      string         `json:"arenaName"`
	HomeTeam       scoreboardTeam `json:"homeTeam"`
	AwayTeam       scoreboardTeam `json:"awayTeam"`
}

type scoreboardTeam struct {
	TeamID      any    `json:"teamId"`
	TeamTricode string `json:"teamTricode"`
	Score       any    `json:"score"`
}

func (t scoreboardTeam) ref() string {
	if id := feed.String(t.TeamID); id != "" && id != "0" {
		return id
	}
	return strings.ToUpper(strings.TrimSpace(t.TeamTricode))
}

func (n *Normalizer) games(raw []byte) ([]game.SourceRecord, []game.Rejection, error) {
	var doc scoreboardEnvelope
	if err := feed.Decode(game.ProviderNBA, raw, &doc); err != nil {
		return nil, nil, err
	}

	ingestedAt := n.now().UTC()
	records := make([]game.SourceRecord, 0, len(doc.Scoreboard.Games))
	var rejected []game.Rejection
	for _, item := range doc.Scoreboard.Games {
		rec, err := n.gameRecord(doc.Scoreboard.GameDate, item)
		if err != nil {
			rejected = append(rejected, feed.Reject(game.ProviderNBA, item.GameID, err))
			continue
		}
		rec.IngestedAt = ingestedAt
		records = append(records, rec)
	}
	return records, rejected, nil
}

func (n *Normalizer) gameRecord(boardDate string, item scoreboardGame) (game.SourceRecord, error) {
	start := feed.Time(item.GameTimeUTC)
	rec := game.SourceRecord{
		Provider:       game.ProviderNBA,
		ProviderGameID: strings.TrimSpace(item.GameID),
		StartTime:      start,
		HomeTeamRef:    item.HomeTeam.ref(),
		AwayTeamRef:    item.AwayTeam.ref(),
		Status:         gameStatus(item),
		Venue:          strings.TrimSpace(item.ArenaName),
	}

	switch {
	case start != nil:
		rec.Date = game.ETDate(*start)
	case boardDate != "":
		date, err := game.ParseDate(boardDate)
		if err != nil {
			return rec, crerr.Wrapf(game.ErrMalformedRecord, "%s: bad scoreboard date %q", rec.ProviderGameID, boardDate)
		}
		rec.Date = date
	}

	if rec.Status == game.StatusFinal || rec.Status == game.StatusInProgress {
		rec.HomeScore = feed.Int(item.HomeTeam.Score)
		rec.AwayScore = feed.Int(item.AwayTeam.Score)
	}
	return rec, rec.Validate()
}

// gameStatus prefers the numeric code (1 scheduled, 2 live, 3 final) and
// falls back to the status text, which carries postponements.
func gameStatus(item scoreboardGame) game.Status {
	text := game.ParseStatus(item.GameStatusText)
	if text == game.StatusPostponed || text == game.StatusCancelled {
		return text
	}
	if code := feed.String(item.GameStatus); code != "" {
		if status := game.ParseStatus(code); status != game.StatusUnknown {
			return status
		}
	}
	return text
}

type boxscoreEnvelope struct {
	Game struct {
		GameID   string       `json:"gameId"`
		HomeTeam boxscoreTeam `json:"homeTeam"`
		AwayTeam boxscoreTeam `json:"awayTeam"`
	} `json:"game"`
}

type boxscoreTeam struct {
	TeamID      any              `json:"teamId"`
	TeamTricode string           `json:"teamTricode"`
	Players     []boxscorePlayer `json:"players"`
}

type boxscorePlayer struct {
	PersonID   any            `json:"personId"`
	FirstName  string         `json:"firstName"`
	FamilyName string         `json:"familyName"`
	Name       string         `json:"name"`
	Starter    any            `json:"starter"`
	Comment    string         `json:"comment"`
	Statistics map[string]any `json:"statistics"`
}

func (n *Normalizer) statLines(raw []byte) ([]boxscore.StatLine, []game.Rejection, error) {
	var doc boxscoreEnvelope
	if err := feed.Decode(game.ProviderNBA, raw, &doc); err != nil {
		return nil, nil, err
	}
	gameID := strings.TrimSpace(doc.Game.GameID)
	if gameID == "" {
		return nil, nil, crerr.Wrap(feed.ErrUnreadablePayload, "nba: box score without gameId")
	}

	ingestedAt := n.now().UTC()
	var (
		lines    []boxscore.StatLine
		rejected []game.Rejection
	)
	for _, team := range []boxscoreTeam{doc.Game.HomeTeam, doc.Game.AwayTeam} {
		teamRef := scoreboardTeam{TeamID: team.TeamID, TeamTricode: team.TeamTricode}.ref()
		for _, p := range team.Players {
			name := strings.TrimSpace(p.FirstName + " " + p.FamilyName)
			if name == "" {
				name = strings.TrimSpace(p.Name)
			}
			playerID := feed.String(p.PersonID)
			if name == "" || teamRef == "" {
				rejected = append(rejected, game.Rejection{
					Provider: game.ProviderNBA,
					RawID:    gameID + "/" + playerID,
					Reason:   "player name or team missing",
				})
				continue
			}
			lines = append(lines, boxscore.StatLine{
				Provider:         game.ProviderNBA,
				ProviderGameID:   gameID,
				PlayerName:       name,
				ProviderPlayerID: playerID,
				TeamRef:          teamRef,
				Minutes:          feed.String(p.Statistics["minutes"]),
				Comment:          strings.TrimSpace(p.Comment),
				Starter:          feed.Bool(p.Starter),
				Stats:            counting(p.Statistics),
				IngestedAt:       ingestedAt,
			})
		}
	}
	return lines, rejected, nil
}

func counting(s map[string]any) boxscore.Counting {
	return boxscore.Counting{
		Points:         feed.IntOrZero(s["points"]),
		Rebounds:       feed.IntOrZero(s["reboundsTotal"]),
		OffRebounds:    feed.IntOrZero(s["reboundsOffensive"]),
		Assists:        feed.IntOrZero(s["assists"]),
		Steals:         feed.IntOrZero(s["steals"]),
		Blocks:         feed.IntOrZero(s["blocks"]),
		Turnovers:      feed.IntOrZero(s["turnovers"]),
		Fouls:          feed.IntOrZero(s["foulsPersonal"]),
		FieldGoalsMade: feed.IntOrZero(s["fieldGoalsMade"]),
		FieldGoalsAtt:  feed.IntOrZero(s["fieldGoalsAttempted"]),
		ThreesMade:     feed.IntOrZero(s["threePointersMade"]),
		ThreesAtt:      feed.IntOrZero(s["threePointersAttempted"]),
		FreeThrowsMade: feed.IntOrZero(s["freeThrowsMade"]),
		FreeThrowsAtt:  feed.IntOrZero(s["freeThrowsAttempted"]),
		PlusMinus:      feed.IntOrZero(s["plusMinusPoints"]),
	}
}

type rosterEnvelope struct {
	Players []struct {
		PersonID     any    `json:"personId"`
		FirstName    string `json:"firstName"`
		FamilyName   string `json:"familyName"`
		TeamID       any    `json:"teamId"`
		TeamTricode  string `json:"teamTricode"`
		RosterStatus any    `json:"rosterStatus"`
	} `json:"players"`
}

func (n *Normalizer) players(raw []byte) ([]usecase.ExternalPlayer, []game.Rejection, error) {
	var doc rosterEnvelope
	if err := feed.Decode(game.ProviderNBA, raw, &doc); err != nil {
		return nil, nil, err
	}

	out := make([]usecase.ExternalPlayer, 0, len(doc.Players))
	var rejected []game.Rejection
	for _, p := range doc.Players {
		id := feed.String(p.PersonID)
		if id == "" || strings.TrimSpace(p.FamilyName) == "" {
			rejected = append(rejected, game.Rejection{Provider: game.ProviderNBA, RawID: id, Reason: "player id or name missing"})
			continue
		}
		out = append(out, usecase.ExternalPlayer{
			Provider:         game.ProviderNBA,
			ProviderPlayerID: id,
			FirstName:        strings.TrimSpace(p.FirstName),
			LastName:         strings.TrimSpace(p.FamilyName),
			TeamRef:          scoreboardTeam{TeamID: p.TeamID, TeamTricode: p.TeamTricode}.ref(),
			Active:           p.RosterStatus == nil || feed.Bool(p.RosterStatus),
		})
	}
	return out, rejected, nil
}
