// Package oddsfeed normalizes event listings from a betting odds feed. The
// feed only describes games; it never carries box scores.
package oddsfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-reconciler/external/feed"
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
	return &Normalizer{logger: logger.Named("oddsfeed"), now: time.Now}
}

func (n *Normalizer) Provider() game.Provider {
	return game.ProviderOddsFeed
}

type event struct {
	EventID      string  `json:"id"`
	CommenceTime string  `json:"commence_time"`
	HomeTeam     string  `json:"home_team"`
	AwayTeam     string  `json:"away_team"`
	Completed    bool    `json:"completed"`
	Scores       []score `json:"scores"`
}

type score struct {
	Name  string `json:"name"`
	Score any    `json:"score"`
}

func (n *Normalizer) Normalize(ctx context.Context, kind usecase.PayloadKind, raw []byte) (usecase.ExternalBatch, error) {
	batch := usecase.ExternalBatch{Provider: game.ProviderOddsFeed, Kind: kind}
	if kind != usecase.PayloadGames {
		return batch, fmt.Errorf("%w: oddsfeed %s", usecase.ErrUnsupportedPayload, kind)
	}

	var events []event
	if err := feed.Decode(game.ProviderOddsFeed, raw, &events); err != nil {
		return batch, err
	}

	ingestedAt := n.now().UTC()
	for _, ev := range events {
		rec := gameRecord(ev)
		if err := rec.Validate(); err != nil {
			rej := feed.Reject(game.ProviderOddsFeed, ev.EventID, err)
			n.logger.WarnContext(ctx, "oddsfeed row rejected", "raw_id", rej.RawID, "reason", rej.Reason)
			batch.Rejections = append(batch.Rejections, rej)
			continue
		}
		rec.IngestedAt = ingestedAt
		batch.Games = append(batch.Games, rec)
	}
	return batch, nil
}

func gameRecord(ev event) game.SourceRecord {
	rec := game.SourceRecord{
		Provider:       game.ProviderOddsFeed,
		ProviderGameID: strings.TrimSpace(ev.EventID),
		HomeTeamRef:    strings.TrimSpace(ev.HomeTeam),
		AwayTeamRef:    strings.TrimSpace(ev.AwayTeam),
		Status:         game.StatusScheduled,
		StartTime:      feed.Time(ev.CommenceTime),
	}
	if rec.StartTime != nil {
		rec.Date = game.ETDate(*rec.StartTime)
	}

	// Scores are keyed by team name and appear once a game has started.
	for _, s := range ev.Scores {
		switch strings.TrimSpace(s.Name) {
		case rec.HomeTeamRef:
			rec.HomeScore = feed.Int(s.Score)
		case rec.AwayTeamRef:
			rec.AwayScore = feed.Int(s.Score)
		}
	}
	switch {
	case ev.Completed:
		rec.Status = game.StatusFinal
	case rec.HasScores():
		rec.Status = game.StatusInProgress
	}
	return rec
}
