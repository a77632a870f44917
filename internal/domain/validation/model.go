package validation

import (
	"context"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

const (
	CheckScoreReconciliation = "score_reconciliation"
	CheckCrossSourceScores   = "cross_source_scores"
	CheckPointsFormula       = "points_formula"
	CheckShootingMath        = "shooting_math"
	CheckMinutesSanity       = "minutes_sanity"
	CheckStatBounds          = "stat_bounds"
	CheckCompleteness        = "completeness"
)

// CheckNames lists every check in execution order.
func CheckNames() []string {
	return []string{
		CheckScoreReconciliation,
		CheckCrossSourceScores,
		CheckPointsFormula,
		CheckShootingMath,
		CheckMinutesSanity,
		CheckStatBounds,
		CheckCompleteness,
	}
}

// Result is one row per (game, check). Reruns overwrite.
type Result struct {
	GameID      string
	CheckName   string
	Status      Status
	Severity    Severity
	Detail      map[string]any
	ValidatedAt time.Time
}

// AltScore is a final score reported by another source linked to the game,
// already oriented to the canonical home/away.
type AltScore struct {
	Source    game.SourceRef
	HomeScore int
	AwayScore int
}

// Input is everything a validation pass needs for one game.
type Input struct {
	Game      game.CanonicalGame
	Players   []boxscore.PlayerGameStat
	AltScores []AltScore
}

// Filter narrows result listings.
type Filter struct {
	GameIDs   []string
	CheckName string
	Status    Status
	// ExcludeStatus drops rows with this status. Ignored when Status is set.
	ExcludeStatus Status
	Limit         int
}

type Repository interface {
	UpsertResults(ctx context.Context, results []Result) error
	ListResults(ctx context.Context, filter Filter) ([]Result, error)
}
