package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/validation"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

type ValidationConfig struct {
	Options     validation.Options
	Workers     int
	GameTimeout time.Duration
}

type ValidateInput struct {
	WindowStart     time.Time
	WindowEnd       time.Time
	TeamID          string
	CanonicalID     string
	UnvalidatedOnly bool
}

type ValidateSummary struct {
	RunID          string         `json:"run_id"`
	Games          int            `json:"games"`
	Validated      int            `json:"validated"`
	NotValidatable int            `json:"not_validatable"`
	GamesFailed    int            `json:"games_failed"`
	GamesWarned    int            `json:"games_warned"`
	Errored        int            `json:"errored"`
	Checks         map[string]int `json:"checks"`
}

func (s ValidateSummary) payload() map[string]any {
	return map[string]any{
		"games":           s.Games,
		"validated":       s.Validated,
		"not_validatable": s.NotValidatable,
		"games_failed":    s.GamesFailed,
		"games_warned":    s.GamesWarned,
		"errored":         s.Errored,
		"checks":          s.Checks,
	}
}

// ValidationService runs the check battery over linked box scores.
type ValidationService struct {
	canonical game.CanonicalRepository
	sources   game.SourceRepository
	stats     boxscore.Repository
	results   validation.Repository
	teams     TeamResolver
	cfg       ValidationConfig
	runs      *runRecorder
	logger    *logging.Logger
	now       func() time.Time
}

func NewValidationService(
	canonical game.CanonicalRepository,
	sources game.SourceRepository,
	stats boxscore.Repository,
	results validation.Repository,
	teams TeamResolver,
	runs pipeline.Repository,
	observer RunObserver,
	cfg ValidationConfig,
	logger *logging.Logger,
) *ValidationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.GameTimeout <= 0 {
		cfg.GameTimeout = 5 * time.Second
	}
	logger = logger.Named("validation")
	return &ValidationService{
		canonical: canonical,
		sources:   sources,
		stats:     stats,
		results:   results,
		teams:     teams,
		cfg:       cfg,
		runs:      newRunRecorder(runs, observer, logger),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ValidationService) Run(ctx context.Context, input ValidateInput) (ValidateSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValidationService.Run")
	defer span.End()

	query, err := gameQuery(input.WindowStart, input.WindowEnd, input.TeamID, input.CanonicalID, input.UnvalidatedOnly)
	if err != nil {
		return ValidateSummary{}, err
	}
	run := pipeline.Run{
		ID:          s.runs.newRunID(),
		Kind:        pipeline.KindValidate,
		WindowStart: query.From,
		WindowEnd:   query.To,
		StartedAt:   s.now().UTC(),
	}
	summary, err := s.run(ctx, query)
	summary.RunID = run.ID
	run.Payload = summary.payload()
	s.runs.record(ctx, run, err)
	if err != nil {
		return summary, err
	}

	s.logger.InfoContext(ctx, "validation finished",
		"run_id", run.ID,
		"games", summary.Games,
		"validated", summary.Validated,
		"games_failed", summary.GamesFailed,
		"games_warned", summary.GamesWarned,
		"errored", summary.Errored,
	)
	return summary, nil
}

func (s *ValidationService) run(ctx context.Context, query game.Query) (ValidateSummary, error) {
	summary := ValidateSummary{Checks: make(map[string]int)}
	games, err := s.canonical.List(ctx, query)
	if err != nil {
		return summary, fmt.Errorf("list canonical games: %w", err)
	}
	if query.GameID != "" && len(games) == 0 {
		return summary, fmt.Errorf("%w: canonical game %s", ErrNotFound, query.GameID)
	}
	summary.Games = len(games)

	workerPool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return summary, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		mu      sync.Mutex
		workers sync.WaitGroup
		errs    []error
	)
	for _, g := range games {
		if !g.Validatable() {
			summary.NotValidatable++
			continue
		}
		g := g
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			results, gameErr := s.validateGame(ctx, g)

			mu.Lock()
			defer mu.Unlock()
			if gameErr != nil {
				errs = append(errs, gameErr)
				return
			}
			summary.tally(results)
		}); err != nil {
			workers.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("submit validation of %s: %w", g.ID, err))
			mu.Unlock()
		}
	}
	workers.Wait()
	return summary, errors.Join(errs...)
}

func (s *ValidateSummary) tally(results []validation.Result) {
	s.Validated++
	failed, warned, errored := false, false, false
	for _, r := range results {
		s.Checks[string(r.Status)]++
		switch r.Status {
		case validation.StatusFail:
			failed = true
			if isCheckError(r) {
				errored = true
			}
		case validation.StatusWarn:
			warned = true
		}
	}
	switch {
	case errored:
		s.Errored++
	case failed:
		s.GamesFailed++
	case warned:
		s.GamesWarned++
	}
}

func isCheckError(r validation.Result) bool {
	v, ok := r.Detail["check_error"].(bool)
	return ok && v
}

// validateGame runs every check under the per-game deadline. When inputs
// cannot be loaded, each check is recorded as an error instead.
func (s *ValidationService) validateGame(ctx context.Context, g game.CanonicalGame) ([]validation.Result, error) {
	gameCtx, cancel := context.WithTimeout(ctx, s.cfg.GameTimeout)
	defer cancel()

	opts := s.cfg.Options
	if opts.Now == nil {
		opts.Now = s.now
	}

	var results []validation.Result
	in, err := s.loadInput(gameCtx, g)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WarnContext(ctx, "validation inputs unavailable", "canonical_id", g.ID, "error", err)
		results = errorResults(g.ID, opts, err, s.now())
	} else {
		results = validation.Validate(in, opts)
	}

	// Results are written even when the game deadline expired.
	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.GameTimeout)
	defer saveCancel()
	if err := s.results.UpsertResults(saveCtx, results); err != nil {
		return nil, fmt.Errorf("upsert validation results for %s: %w", g.ID, err)
	}
	return results, nil
}

func errorResults(gameID string, opts validation.Options, err error, at time.Time) []validation.Result {
	checks := opts.Checks
	if checks == nil {
		checks = validation.DefaultChecks()
	}
	out := make([]validation.Result, 0, len(checks))
	for _, check := range checks {
		out = append(out, validation.ErrorResult(gameID, check.Name, err, at))
	}
	return out
}

func (s *ValidationService) loadInput(ctx context.Context, g game.CanonicalGame) (validation.Input, error) {
	players, err := s.stats.ListPlayerStats(ctx, []string{g.ID})
	if err != nil {
		return validation.Input{}, fmt.Errorf("list player stats: %w", err)
	}
	alt, err := s.altScores(ctx, g)
	if err != nil {
		return validation.Input{}, err
	}
	return validation.Input{Game: g, Players: players, AltScores: alt}, nil
}

// altScores collects final scores reported by the other members of the
// group, oriented to the canonical home team.
func (s *ValidationService) altScores(ctx context.Context, g game.CanonicalGame) ([]validation.AltScore, error) {
	var refs []game.SourceRef
	for _, ref := range g.Sources {
		if ref != g.ChosenSource {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return nil, nil
	}
	records, err := s.sources.ListSourceRecordsByRefs(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("list member records: %w", err)
	}

	var out []validation.AltScore
	for _, r := range records {
		if !r.Status.IsFinal() || !r.HasScores() {
			continue
		}
		home, err := s.teams.ResolveTeam(ctx, r.Provider, r.HomeTeamRef)
		if errors.Is(err, identity.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		alt := validation.AltScore{Source: r.Ref(), HomeScore: *r.HomeScore, AwayScore: *r.AwayScore}
		switch home {
		case g.HomeTeamID:
		case g.AwayTeamID:
			alt.HomeScore, alt.AwayScore = alt.AwayScore, alt.HomeScore
		default:
			continue
		}
		out = append(out, alt)
	}
	return out, nil
}
