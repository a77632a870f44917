package boxscore

import (
	"context"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

// LineRepository stages raw provider lines until they are linked.
type LineRepository interface {
	UpsertStatLines(ctx context.Context, lines []StatLine) error
	ListStatLines(ctx context.Context, refs []game.SourceRef) ([]StatLine, error)
}

type Repository interface {
	// ReplaceGameStats swaps every player and team row for the game in one
	// transaction.
	ReplaceGameStats(ctx context.Context, gameID string, players []PlayerGameStat, teams []TeamGameStat) error
	ListPlayerStats(ctx context.Context, gameIDs []string) ([]PlayerGameStat, error)
	ListTeamStats(ctx context.Context, gameID string) ([]TeamGameStat, error)
	HasPlayerStats(ctx context.Context) (bool, error)
	// RecentPlayerIDs lists players with a line for any of the teams in games
	// dated on or after since.
	RecentPlayerIDs(ctx context.Context, teamIDs []string, since time.Time) ([]string, error)
}
