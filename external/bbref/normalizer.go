// Package bbref normalizes scraped reference-site schedule and box score
// tables. Values arrive as display strings.
package bbref

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

var scheduleDateLayouts = []string{"Mon, Jan 2, 2006", "Jan 2, 2006", "2006-01-02"}

type Normalizer struct {
	logger *logging.Logger
	now    func() time.Time
}

func NewNormalizer(logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Normalizer{logger: logger.Named("bbref"), now: time.Now}
}

func (n *Normalizer) Provider() game.Provider {
	return game.ProviderBBRef
}

func (n *Normalizer) Normalize(ctx context.Context, kind usecase.PayloadKind, raw []byte) (usecase.ExternalBatch, error) {
	batch := usecase.ExternalBatch{Provider: game.ProviderBBRef, Kind: kind}
	var err error
	switch kind {
	case usecase.PayloadGames:
		batch.Games, batch.Rejections, err = n.games(raw)
	case usecase.PayloadStats:
		batch.StatLines, batch.Rejections, err = n.statLines(raw)
	default:
		return batch, fmt.Errorf("%w: bbref %s", usecase.ErrUnsupportedPayload, kind)
	}
	if err != nil {
		return batch, err
	}
	for _, rej := range batch.Rejections {
		n.logger.WarnContext(ctx, "bbref row rejected", "kind", kind, "raw_id", rej.RawID, "reason", rej.Reason)
	}
	return batch, nil
}

type scheduleRow struct {
	GameID     string `json:"game_id"`
	Date       string `json:"date"`
	StartET    string `json:"start_et"`
	Visitor    string `json:"visitor"`
	VisitorPts any    `json:"visitor_pts"`
	Home       string `json:"home"`
	HomePts    any    `json:"home_pts"`
	Arena      string `json:"arena"`
	Notes      string `json:"notes"`
}

func (n *Normalizer) games(raw []byte) ([]game.SourceRecord, []game.Rejection, error) {
	var doc struct {
		Games []scheduleRow `json:"games"`
	}
	if err := feed.Decode(game.ProviderBBRef, raw, &doc); err != nil {
		return nil, nil, err
	}

	ingestedAt := n.now().UTC()
	records := make([]game.SourceRecord, 0, len(doc.Games))
	var rejected []game.Rejection
	for _, row := range doc.Games {
		rec, err := gameRecord(row)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			rejected = append(rejected, feed.Reject(game.ProviderBBRef, row.GameID, err))
			continue
		}
		rec.IngestedAt = ingestedAt
		records = append(records, rec)
	}
	return records, rejected, nil
}

func gameRecord(row scheduleRow) (game.SourceRecord, error) {
	rec := game.SourceRecord{
		Provider:       game.ProviderBBRef,
		ProviderGameID: strings.TrimSpace(row.GameID),
		HomeTeamRef:    strings.TrimSpace(row.Home),
		AwayTeamRef:    strings.TrimSpace(row.Visitor),
		Venue:          strings.TrimSpace(row.Arena),
		HomeScore:      feed.Int(row.HomePts),
		AwayScore:      feed.Int(row.VisitorPts),
	}

	date, err := parseScheduleDate(row.Date)
	if err != nil {
		return rec, crerr.Wrapf(game.ErrMalformedRecord, "%s: %v", rec.ProviderGameID, err)
	}
	rec.Date = date
	rec.StartTime = parseStartET(date, row.StartET)

	notes := game.ParseStatus(row.Notes)
	switch {
	case notes == game.StatusPostponed || notes == game.StatusCancelled:
		rec.Status = notes
		rec.HomeScore, rec.AwayScore = nil, nil
	case rec.HasScores():
		// The schedule table only fills the points columns once a game is over.
		rec.Status = game.StatusFinal
	default:
		rec.Status = game.StatusScheduled
		rec.HomeScore, rec.AwayScore = nil, nil
	}
	return rec, nil
}

func parseScheduleDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range scheduleDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, game.Eastern); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// parseStartET reads "7:30p" style tip-off times. Unknown times return nil.
func parseStartET(date time.Time, raw string) *time.Time {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}
	if strings.HasSuffix(raw, "p") || strings.HasSuffix(raw, "a") {
		raw += "m"
	}
	for _, layout := range []string{"3:04pm", "3:04 pm", "15:04"} {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		start := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, game.Eastern)
		return &start
	}
	return nil
}

type boxscoreDoc struct {
	GameID string `json:"game_id"`
	Teams  []struct {
		Team    string      `json:"team"`
		Players []playerRow `json:"players"`
	} `json:"teams"`
}

type playerRow struct {
	Player    string `json:"player"`
	PlayerID  string `json:"player_id"`
	MP        string `json:"mp"`
	FG        any    `json:"fg"`
	FGA       any    `json:"fga"`
	FG3       any    `json:"fg3"`
	FG3A      any    `json:"fg3a"`
	FT        any    `json:"ft"`
	FTA       any    `json:"fta"`
	ORB       any    `json:"orb"`
	TRB       any    `json:"trb"`
	AST       any    `json:"ast"`
	STL       any    `json:"stl"`
	BLK       any    `json:"blk"`
	TOV       any    `json:"tov"`
	PF        any    `json:"pf"`
	PTS       any    `json:"pts"`
	PlusMinus any    `json:"plus_minus"`
	Reason    string `json:"reason"`
	Starter   bool   `json:"starter"`
}

func (n *Normalizer) statLines(raw []byte) ([]boxscore.StatLine, []game.Rejection, error) {
	var doc boxscoreDoc
	if err := feed.Decode(game.ProviderBBRef, raw, &doc); err != nil {
		return nil, nil, err
	}
	gameID := strings.TrimSpace(doc.GameID)
	if gameID == "" {
		return nil, nil, crerr.Wrap(feed.ErrUnreadablePayload, "bbref: box score without game_id")
	}

	ingestedAt := n.now().UTC()
	var (
		lines    []boxscore.StatLine
		rejected []game.Rejection
	)
	for _, team := range doc.Teams {
		teamRef := strings.TrimSpace(team.Team)
		for _, row := range team.Players {
			name := strings.TrimSpace(row.Player)
			if name == "" || teamRef == "" {
				rejected = append(rejected, game.Rejection{Provider: game.ProviderBBRef, RawID: gameID + "/" + row.PlayerID, Reason: "player name or team missing"})
				continue
			}
			lines = append(lines, boxscore.StatLine{
				Provider:         game.ProviderBBRef,
				ProviderGameID:   gameID,
				PlayerName:       name,
				ProviderPlayerID: strings.TrimSpace(row.PlayerID),
				TeamRef:          teamRef,
				Minutes:          strings.TrimSpace(row.MP),
				Comment:          strings.TrimSpace(row.Reason),
				Starter:          row.Starter,
				Stats: boxscore.Counting{
					Points:         feed.IntOrZero(row.PTS),
					Rebounds:       feed.IntOrZero(row.TRB),
					OffRebounds:    feed.IntOrZero(row.ORB),
					Assists:        feed.IntOrZero(row.AST),
					Steals:         feed.IntOrZero(row.STL),
					Blocks:         feed.IntOrZero(row.BLK),
					Turnovers:      feed.IntOrZero(row.TOV),
					Fouls:          feed.IntOrZero(row.PF),
					FieldGoalsMade: feed.IntOrZero(row.FG),
					FieldGoalsAtt:  feed.IntOrZero(row.FGA),
					ThreesMade:     feed.IntOrZero(row.FG3),
					ThreesAtt:      feed.IntOrZero(row.FG3A),
					FreeThrowsMade: feed.IntOrZero(row.FT),
					FreeThrowsAtt:  feed.IntOrZero(row.FTA),
					PlusMinus:      feed.IntOrZero(row.PlusMinus),
				},
				IngestedAt: ingestedAt,
			})
		}
	}
	return lines, rejected, nil
}
