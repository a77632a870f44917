package balldontlie

import (
	"context"
	"fmt"
	"strings"
	"time"

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
	return &Normalizer{logger: logger.Named("balldontlie"), now: time.Now}
}

func (n *Normalizer) Provider() game.Provider {
	return game.ProviderBallDontLie
}

func (n *Normalizer) Normalize(ctx context.Context, kind usecase.PayloadKind, raw []byte) (usecase.ExternalBatch, error) {
	batch := usecase.ExternalBatch{Provider: game.ProviderBallDontLie, Kind: kind}
	var err error
	switch kind {
	case usecase.PayloadGames:
		batch.Games, batch.Rejections, err = n.games(raw)
	case usecase.PayloadStats:
		batch.StatLines, batch.Rejections, err = n.statLines(raw)
	case usecase.PayloadPlayers:
		batch.Players, batch.Rejections, err = n.players(raw)
	default:
		return batch, fmt.Errorf("%w: balldontlie %s", usecase.ErrUnsupportedPayload, kind)
	}
	if err != nil {
		return batch, err
	}
	for _, rej := range batch.Rejections {
		n.logger.WarnContext(ctx, "balldontlie row rejected", "kind", kind, "raw_id", rej.RawID, "reason", rej.Reason)
	}
	return batch, nil
}

type team struct {
	ID           any    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	FullName     string `json:"full_name"`
}

func (t team) ref() string {
	if id := feed.String(t.ID); id != "" {
		return id
	}
	return strings.ToUpper(strings.TrimSpace(t.Abbreviation))
}

type gameItem struct {
	ID               any    `json:"id"`
	Date             string `json:"date"`
	Datetime         string `json:"datetime"`
	Status           string `json:"status"`
	Period           any    `json:"period"`
	HomeTeam         team   `json:"home_team"`
	VisitorTeam      team   `json:"visitor_team"`
	HomeTeamScore    any    `json:"home_team_score"`
	VisitorTeamScore any    `json:"visitor_team_score"`
}

type gamesEnvelope struct {
	Data []gameItem `json:"data"`
}

func (n *Normalizer) games(raw []byte) ([]game.SourceRecord, []game.Rejection, error) {
	var doc gamesEnvelope
	if err := feed.Decode(game.ProviderBallDontLie, raw, &doc); err != nil {
		return nil, nil, err
	}

	ingestedAt := n.now().UTC()
	records := make([]game.SourceRecord, 0, len(doc.Data))
	var rejected []game.Rejection
	for _, item := range doc.Data {
		rec := gameRecord(item)
		if err := rec.Validate(); err != nil {
			rejected = append(rejected, feed.Reject(game.ProviderBallDontLie, feed.String(item.ID), err))
			continue
		}
		rec.IngestedAt = ingestedAt
		records = append(records, rec)
	}
	return records, rejected, nil
}

func gameRecord(item gameItem) game.SourceRecord {
	rec := game.SourceRecord{
		Provider:       game.ProviderBallDontLie,
		ProviderGameID: feed.String(item.ID),
		HomeTeamRef:    item.HomeTeam.ref(),
		AwayTeamRef:    item.VisitorTeam.ref(),
		Status:         game.ParseStatus(item.Status),
	}
	// Scheduled games carry the tip-off time as their status text and
	// report period 0.
	if rec.Status == game.StatusUnknown && feed.IntOrZero(item.Period) == 0 {
		rec.Status = game.StatusScheduled
	}

	rec.StartTime = feed.Time(item.Datetime)
	if date := strings.TrimSpace(item.Date); date != "" {
		if len(date) > len("2006-01-02") {
			date = date[:len("2006-01-02")]
		}
		if parsed, err := game.ParseDate(date); err == nil {
			rec.Date = parsed
		}
	}
	if rec.Date.IsZero() && rec.StartTime != nil {
		// An unknown tip-off arrives as 00:00Z on the game date.
		if u := rec.StartTime.UTC(); u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 {
			rec.Date = game.DateOnly(u.Year(), u.Month(), u.Day())
		} else {
			rec.Date = game.ETDate(*rec.StartTime)
		}
	}

	if rec.Status != game.StatusScheduled {
		rec.HomeScore = feed.Int(item.HomeTeamScore)
		rec.AwayScore = feed.Int(item.VisitorTeamScore)
	}
	return rec
}

type statsEnvelope struct {
	Data []struct {
		ID       any    `json:"id"`
		Min      any    `json:"min"`
		Pts      any    `json:"pts"`
		Reb      any    `json:"reb"`
		Oreb     any    `json:"oreb"`
		Ast      any    `json:"ast"`
		Stl      any    `json:"stl"`
		Blk      any    `json:"blk"`
		Turnover any    `json:"turnover"`
		PF       any    `json:"pf"`
		FGM      any    `json:"fgm"`
		FGA      any    `json:"fga"`
		FG3M     any    `json:"fg3m"`
		FG3A     any    `json:"fg3a"`
		FTM      any    `json:"ftm"`
		FTA      any    `json:"fta"`
		Player   player `json:"player"`
		Team     team   `json:"team"`
		Game     struct {
			ID any `json:"id"`
		} `json:"game"`
	} `json:"data"`
}

type player struct {
	ID        any    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Team      *team  `json:"team"`
}

func (p player) name() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

func (n *Normalizer) statLines(raw []byte) ([]boxscore.StatLine, []game.Rejection, error) {
	var doc statsEnvelope
	if err := feed.Decode(game.ProviderBallDontLie, raw, &doc); err != nil {
		return nil, nil, err
	}

	ingestedAt := n.now().UTC()
	lines := make([]boxscore.StatLine, 0, len(doc.Data))
	var rejected []game.Rejection
	for _, row := range doc.Data {
		gameID := feed.String(row.Game.ID)
		if gameID == "" || row.Player.name() == "" || row.Team.ref() == "" {
			rejected = append(rejected, game.Rejection{
				Provider: game.ProviderBallDontLie,
				RawID:    feed.String(row.ID),
				Reason:   "game, player or team missing",
			})
			continue
		}
		// The API reports "00" or "" for players who did not get in.
		minutes := feed.String(row.Min)
		lines = append(lines, boxscore.StatLine{
			Provider:         game.ProviderBallDontLie,
			ProviderGameID:   gameID,
			PlayerName:       row.Player.name(),
			ProviderPlayerID: feed.String(row.Player.ID),
			TeamRef:          row.Team.ref(),
			Minutes:          minutes,
			Stats: boxscore.Counting{
				Points:         feed.IntOrZero(row.Pts),
				Rebounds:       feed.IntOrZero(row.Reb),
				OffRebounds:    feed.IntOrZero(row.Oreb),
				Assists:        feed.IntOrZero(row.Ast),
				Steals:         feed.IntOrZero(row.Stl),
				Blocks:         feed.IntOrZero(row.Blk),
				Turnovers:      feed.IntOrZero(row.Turnover),
				Fouls:          feed.IntOrZero(row.PF),
				FieldGoalsMade: feed.IntOrZero(row.FGM),
				FieldGoalsAtt:  feed.IntOrZero(row.FGA),
				ThreesMade:     feed.IntOrZero(row.FG3M),
				ThreesAtt:      feed.IntOrZero(row.FG3A),
				FreeThrowsMade: feed.IntOrZero(row.FTM),
				FreeThrowsAtt:  feed.IntOrZero(row.FTA),
			},
			IngestedAt: ingestedAt,
		})
	}
	return lines, rejected, nil
}

type playersEnvelope struct {
	Data []player `json:"data"`
}

func (n *Normalizer) players(raw []byte) ([]usecase.ExternalPlayer, []game.Rejection, error) {
	var doc playersEnvelope
	if err := feed.Decode(game.ProviderBallDontLie, raw, &doc); err != nil {
		return nil, nil, err
	}

	out := make([]usecase.ExternalPlayer, 0, len(doc.Data))
	var rejected []game.Rejection
	for _, p := range doc.Data {
		id := feed.String(p.ID)
		if id == "" || strings.TrimSpace(p.LastName) == "" {
			rejected = append(rejected, game.Rejection{Provider: game.ProviderBallDontLie, RawID: id, Reason: "player id or name missing"})
			continue
		}
		ext := usecase.ExternalPlayer{
			Provider:         game.ProviderBallDontLie,
			ProviderPlayerID: id,
			FirstName:        strings.TrimSpace(p.FirstName),
			LastName:         strings.TrimSpace(p.LastName),
			Active:           p.Team != nil,
		}
		if p.Team != nil {
			ext.TeamRef = p.Team.ref()
		}
		out = append(out, ext)
	}
	return out, rejected, nil
}
