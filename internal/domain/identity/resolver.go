package identity

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/capability"
)

// Directory is the read side the resolver needs.
type Directory interface {
	// PlayerMapping returns the mapped internal id, or ErrNotFound.
	PlayerMapping(ctx context.Context, provider game.Provider, providerRef string) (string, error)
	TeamRoster(ctx context.Context, teamID string) ([]player.Player, error)
	AllPlayers(ctx context.Context) ([]player.Player, error)
	// RecentStatPlayers returns players with a stat line for any of the
	// teams since the given instant.
	RecentStatPlayers(ctx context.Context, teamIDs []string, since time.Time) ([]player.Player, error)
}

type Resolver struct {
	dir          Directory
	recentStats  *capability.Flag
	recentWindow time.Duration
	now          func() time.Time
}

// NewResolver builds the resolution chain. recentStats gates the last
// strategy; a nil flag disables it.
func NewResolver(dir Directory, recentStats *capability.Flag, recentWindow time.Duration) *Resolver {
	if recentWindow <= 0 {
		recentWindow = 30 * 24 * time.Hour
	}
	return &Resolver{
		dir:          dir,
		recentStats:  recentStats,
		recentWindow: recentWindow,
		now:          time.Now,
	}
}

func (r *Resolver) Resolve(ctx context.Context, q Query) (Result, error) {
	return FirstMatch(ctx, q, r.Strategies()...)
}

// Strategies returns the chain in priority order: mapping, the game's team
// roster, every player, then recent stat lines for either team.
func (r *Resolver) Strategies() []Strategy {
	out := []Strategy{{Name: "mapping", Resolve: r.byMapping}}
	out = append(out, NameStrategies("team", r.teamPool)...)
	out = append(out, NameStrategies("all", r.allPool)...)
	out = append(out, NameStrategies("recent", r.recentPool)...)
	return out
}

func (r *Resolver) byMapping(ctx context.Context, q Query) (Result, error) {
	ref := strings.TrimSpace(q.ProviderRef)
	if ref == "" || q.Provider == "" {
		return NotFound(), nil
	}
	playerID, err := r.dir.PlayerMapping(ctx, q.Provider, ref)
	if errors.Is(err, ErrNotFound) {
		return NotFound(), nil
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "lookup player mapping")
	}
	return Result{Outcome: OutcomeFound, PlayerID: playerID}, nil
}

func (r *Resolver) teamPool(ctx context.Context, q Query) ([]player.Player, error) {
	if q.TeamID == "" {
		return nil, nil
	}
	return r.dir.TeamRoster(ctx, q.TeamID)
}

func (r *Resolver) allPool(ctx context.Context, _ Query) ([]player.Player, error) {
	return r.dir.AllPlayers(ctx)
}

func (r *Resolver) recentPool(ctx context.Context, q Query) ([]player.Player, error) {
	enabled, err := r.recentStats.Enabled(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "probe stat history")
	}
	if !enabled {
		return nil, nil
	}

	var teams []string
	for _, teamID := range []string{q.TeamID, q.OpponentTeamID} {
		if teamID != "" {
			teams = append(teams, teamID)
		}
	}
	if len(teams) == 0 {
		return nil, nil
	}

	anchor := q.GameDate
	if anchor.IsZero() {
		anchor = r.now()
	}
	return r.dir.RecentStatPlayers(ctx, teams, anchor.Add(-r.recentWindow))
}
