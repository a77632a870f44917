package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

var ErrUnsupportedPayload = errors.New("unsupported payload kind")

type PayloadKind string

const (
	PayloadGames   PayloadKind = "games"
	PayloadStats   PayloadKind = "stats"
	PayloadPlayers PayloadKind = "players"
)

func ParsePayloadKind(v string) (PayloadKind, bool) {
	switch PayloadKind(strings.ToLower(strings.TrimSpace(v))) {
	case PayloadGames:
		return PayloadGames, true
	case PayloadStats:
		return PayloadStats, true
	case PayloadPlayers:
		return PayloadPlayers, true
	default:
		return "", false
	}
}

// ExternalPlayer is a roster entry as a provider describes it.
type ExternalPlayer struct {
	Provider         game.Provider
	ProviderPlayerID string
	FirstName        string
	LastName         string
	TeamRef          string
	Active           bool
}

// ExternalBatch is the normalized content of one provider document. Only the
// slice matching Kind is populated.
type ExternalBatch struct {
	Provider   game.Provider
	Kind       PayloadKind
	Games      []game.SourceRecord
	StatLines  []boxscore.StatLine
	Players    []ExternalPlayer
	Rejections []game.Rejection
}

// ProviderNormalizer turns a provider document into common shapes. Rows it
// cannot use are reported as rejections, not errors; an error means the
// document itself is unreadable.
type ProviderNormalizer interface {
	Provider() game.Provider
	Normalize(ctx context.Context, kind PayloadKind, raw []byte) (ExternalBatch, error)
}
