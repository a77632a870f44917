package validation

import (
	"fmt"
	"time"
)

// Outcome is what a single check reports before it is stamped into a Result.
type Outcome struct {
	Status   Status
	Severity Severity
	Detail   map[string]any
}

// Check is one independent rule. Run must not mutate its input.
type Check struct {
	Name string
	Run  func(in Input, bounds Bounds) Outcome
}

type Options struct {
	Bounds Bounds
	Checks []Check
	Now    func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Bounds: DefaultBounds(),
		Checks: DefaultChecks(),
		Now:    time.Now,
	}
}

// DefaultChecks returns the full battery in execution order.
func DefaultChecks() []Check {
	return []Check{
		{Name: CheckScoreReconciliation, Run: checkScoreReconciliation},
		{Name: CheckCrossSourceScores, Run: checkCrossSourceScores},
		{Name: CheckPointsFormula, Run: checkPointsFormula},
		{Name: CheckShootingMath, Run: checkShootingMath},
		{Name: CheckMinutesSanity, Run: checkMinutesSanity},
		{Name: CheckStatBounds, Run: checkStatBounds},
		{Name: CheckCompleteness, Run: checkCompleteness},
	}
}

// Validate runs every check against one game and returns one result per
// check. It performs no I/O. A check that panics yields a failed result
// instead of aborting the others.
func Validate(in Input, opts Options) []Result {
	if opts.Checks == nil {
		opts.Checks = DefaultChecks()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Bounds == (Bounds{}) {
		opts.Bounds = DefaultBounds()
	}

	validatedAt := opts.Now().UTC()
	out := make([]Result, 0, len(opts.Checks))
	for _, check := range opts.Checks {
		outcome := runCheck(check, in, opts.Bounds)
		if outcome.Detail == nil {
			outcome.Detail = map[string]any{}
		}
		out = append(out, Result{
			GameID:      in.Game.ID,
			CheckName:   check.Name,
			Status:      outcome.Status,
			Severity:    outcome.Severity,
			Detail:      outcome.Detail,
			ValidatedAt: validatedAt,
		})
	}
	return out
}

// ErrorResult records that a check could not run at all, e.g. when the
// per-game deadline expired before validation finished.
func ErrorResult(gameID, checkName string, err error, at time.Time) Result {
	return Result{
		GameID:      gameID,
		CheckName:   checkName,
		Status:      StatusFail,
		Severity:    SeverityError,
		Detail:      map[string]any{"check_error": true, "message": err.Error()},
		ValidatedAt: at.UTC(),
	}
}

func runCheck(check Check, in Input, bounds Bounds) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Status:   StatusFail,
				Severity: SeverityError,
				Detail: map[string]any{
					"check_error": true,
					"message":     fmt.Sprintf("check %s panicked: %v", check.Name, r),
				},
			}
		}
	}()
	return check.Run(in, bounds)
}

func pass(detail map[string]any) Outcome {
	if detail == nil {
		detail = map[string]any{}
	}
	return Outcome{Status: StatusPass, Severity: SeverityInfo, Detail: detail}
}

func fail(detail map[string]any) Outcome {
	return Outcome{Status: StatusFail, Severity: SeverityError, Detail: detail}
}

func warn(detail map[string]any) Outcome {
	return Outcome{Status: StatusWarn, Severity: SeverityWarning, Detail: detail}
}
