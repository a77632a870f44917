package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/reconcile"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

type CanonicalizationConfig struct {
	Options reconcile.Options
	// ExtendLoadWindowBy widens the source load on both sides so groups that
	// straddle the window edge are still seen whole.
	ExtendLoadWindowBy time.Duration
	Workers            int
	GroupTimeout       time.Duration
}

type ReconcileInput struct {
	WindowStart    time.Time
	WindowEnd      time.Time
	TeamID         string
	ProviderGameID string
	DryRun         bool
}

type RunSummary struct {
	RunID            string               `json:"run_id"`
	WindowStart      string               `json:"window_start"`
	WindowEnd        string               `json:"window_end"`
	RecordsLoaded    int                  `json:"records_loaded"`
	Excluded         int                  `json:"excluded"`
	Groups           int                  `json:"groups"`
	Singletons       int                  `json:"singletons"`
	MultiMember      int                  `json:"multi_member"`
	OrientationSwaps int                  `json:"orientation_swaps"`
	Reassignments    int                  `json:"reassignments"`
	NewCanonical     int                  `json:"new_canonical"`
	Merged           int                  `json:"merged"`
	Splits           int                  `json:"splits"`
	QualityFlags     int                  `json:"quality_flags"`
	DryRun           bool                 `json:"dry_run"`
	Exclusions       []game.Rejection     `json:"exclusions,omitempty"`
	Games            []game.CanonicalGame `json:"-"`
}

func (s RunSummary) payload() map[string]any {
	return map[string]any{
		"records_loaded":    s.RecordsLoaded,
		"excluded":          s.Excluded,
		"groups":            s.Groups,
		"singletons":        s.Singletons,
		"multi_member":      s.MultiMember,
		"orientation_swaps": s.OrientationSwaps,
		"reassignments":     s.Reassignments,
		"new_canonical":     s.NewCanonical,
		"merged":            s.Merged,
		"splits":            s.Splits,
		"quality_flags":     s.QualityFlags,
	}
}

// CanonicalizationService groups provider observations into canonical games
// and persists them with stable ids.
type CanonicalizationService struct {
	sources   game.SourceRepository
	canonical game.CanonicalRepository
	teams     TeamResolver
	cfg       CanonicalizationConfig
	runs      *runRecorder
	logger    *logging.Logger
	now       func() time.Time
}

func NewCanonicalizationService(
	sources game.SourceRepository,
	canonical game.CanonicalRepository,
	teams TeamResolver,
	runs pipeline.Repository,
	observer RunObserver,
	cfg CanonicalizationConfig,
	logger *logging.Logger,
) *CanonicalizationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Options.MatchWindow <= 0 {
		cfg.Options = reconcile.DefaultOptions()
	}
	if cfg.ExtendLoadWindowBy <= 0 {
		cfg.ExtendLoadWindowBy = cfg.Options.MatchWindow
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.GroupTimeout <= 0 {
		cfg.GroupTimeout = 10 * time.Second
	}
	logger = logger.Named("canonicalization")
	return &CanonicalizationService{
		sources:   sources,
		canonical: canonical,
		teams:     teams,
		cfg:       cfg,
		runs:      newRunRecorder(runs, observer, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Reconcile canonicalizes every group whose date falls inside the window.
// Running it twice over unchanged input produces identical rows.
func (s *CanonicalizationService) Reconcile(ctx context.Context, input ReconcileInput) (RunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CanonicalizationService.Reconcile")
	defer span.End()

	from, to, err := normalizeWindow(input.WindowStart, input.WindowEnd)
	if err != nil {
		return RunSummary{}, err
	}
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.ProviderGameID = strings.TrimSpace(input.ProviderGameID)

	run := pipeline.Run{
		ID:          s.runs.newRunID(),
		Kind:        pipeline.KindReconcile,
		WindowStart: from,
		WindowEnd:   to,
		DryRun:      input.DryRun,
		StartedAt:   s.now().UTC(),
	}
	summary, err := s.reconcile(ctx, input, from, to)
	summary.RunID = run.ID
	run.Payload = summary.payload()
	s.runs.record(ctx, run, err)
	if err != nil {
		return summary, err
	}

	s.logger.InfoContext(ctx, "reconcile finished",
		"run_id", run.ID,
		"window_start", summary.WindowStart,
		"window_end", summary.WindowEnd,
		"groups", summary.Groups,
		"multi_member", summary.MultiMember,
		"new_canonical", summary.NewCanonical,
		"reassignments", summary.Reassignments,
		"excluded", summary.Excluded,
		"dry_run", input.DryRun,
	)
	return summary, nil
}

func (s *CanonicalizationService) reconcile(ctx context.Context, input ReconcileInput, from, to time.Time) (RunSummary, error) {
	summary := RunSummary{
		WindowStart: dateOnly(from),
		WindowEnd:   dateOnly(to),
		DryRun:      input.DryRun,
	}

	records, err := s.sources.ListSourceRecords(ctx, from.Add(-s.cfg.ExtendLoadWindowBy), to.Add(s.cfg.ExtendLoadWindowBy))
	if err != nil {
		return summary, fmt.Errorf("list source records: %w", err)
	}
	summary.RecordsLoaded = len(records)

	candidates, exclusions, err := s.candidates(ctx, records)
	if err != nil {
		return summary, err
	}
	summary.Exclusions = exclusions
	summary.Excluded = len(exclusions)
	for _, ex := range exclusions {
		s.logger.WarnContext(ctx, "source record excluded",
			"provider", ex.Provider,
			"raw_id", ex.RawID,
			"reason", ex.Reason,
		)
	}

	groups := filterGroups(reconcile.Build(candidates, s.cfg.Options), input, from, to)
	if len(groups) == 0 {
		return summary, nil
	}

	assignments, stored, err := s.assignIDs(ctx, groups)
	if err != nil {
		return summary, err
	}

	now := s.now().UTC()
	games := make([]game.CanonicalGame, len(groups))
	merged := make([][]string, len(groups))
	for i, g := range groups {
		a := assignments[i]
		games[i] = g.Canonical(a.CanonicalID, now)
		merged[i] = a.Merged

		summary.Groups++
		if g.Singleton() {
			summary.Singletons++
		} else {
			summary.MultiMember++
		}
		summary.OrientationSwaps += g.Swaps
		summary.Merged += len(a.Merged)
		if a.Split() {
			summary.Splits++
			s.logger.InfoContext(ctx, "canonical group split from a linked game",
				"canonical_id", a.CanonicalID,
				"lost", a.Lost,
				"sources", len(g.Members),
			)
		}
		if g.QualityFlag {
			summary.QualityFlags++
			s.logger.WarnContext(ctx, "representative is not the best quality member",
				"canonical_id", a.CanonicalID,
				"chosen_source", games[i].ChosenSource.String(),
				"score", g.WinnerScore,
			)
		}
	}
	summary.Games = games

	reassigned, created, err := s.persist(ctx, games, merged, stored, input.DryRun)
	summary.Reassignments = reassigned
	summary.NewCanonical = created
	if err != nil {
		return summary, err
	}
	return summary, nil
}

// candidates resolves team references; records that cannot be used are
// returned as exclusions with a reason.
func (s *CanonicalizationService) candidates(ctx context.Context, records []game.SourceRecord) ([]reconcile.Candidate, []game.Rejection, error) {
	out := make([]reconcile.Candidate, 0, len(records))
	var exclusions []game.Rejection
	exclude := func(r game.SourceRecord, reason string) {
		exclusions = append(exclusions, game.Rejection{Provider: r.Provider, RawID: r.ProviderGameID, Reason: reason})
	}

	for _, r := range records {
		if err := r.Validate(); err != nil {
			exclude(r, err.Error())
			continue
		}
		home, err := s.teams.ResolveTeam(ctx, r.Provider, r.HomeTeamRef)
		if err != nil {
			if !errors.Is(err, identity.ErrNotFound) {
				return nil, nil, err
			}
			exclude(r, "unresolved home team "+r.HomeTeamRef)
			continue
		}
		away, err := s.teams.ResolveTeam(ctx, r.Provider, r.AwayTeamRef)
		if err != nil {
			if !errors.Is(err, identity.ErrNotFound) {
				return nil, nil, err
			}
			exclude(r, "unresolved away team "+r.AwayTeamRef)
			continue
		}
		if home == away {
			exclude(r, "home and away resolve to the same team "+home)
			continue
		}
		out = append(out, reconcile.Candidate{Record: r, HomeTeamID: home, AwayTeamID: away})
	}
	return out, exclusions, nil
}

func filterGroups(groups []reconcile.Group, input ReconcileInput, from, to time.Time) []reconcile.Group {
	out := groups[:0]
	for _, g := range groups {
		date := g.Date()
		if date.Before(from) || date.After(to) {
			continue
		}
		if input.TeamID != "" && g.Pair.A != input.TeamID && g.Pair.B != input.TeamID {
			continue
		}
		if input.ProviderGameID != "" && !groupHasProviderGameID(g, input.ProviderGameID) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func groupHasProviderGameID(g reconcile.Group, providerGameID string) bool {
	if ref, err := game.ParseSourceRef(providerGameID); err == nil && g.Contains(ref) {
		return true
	}
	for _, m := range g.Members {
		if m.Record.ProviderGameID == providerGameID {
			return true
		}
	}
	return false
}

// assignIDs decides the canonical id of every group in one pass over the
// run, so two groups never share an id. Stored rows are loaded for linked
// ids first and for the fresh ids of groups left without one second.
func (s *CanonicalizationService) assignIDs(ctx context.Context, groups []reconcile.Group) ([]reconcile.Assignment, map[string]game.CanonicalGame, error) {
	var refs []game.SourceRef
	for _, g := range groups {
		refs = append(refs, g.Refs()...)
	}
	links, err := s.canonical.FindLinks(ctx, refs)
	if err != nil {
		return nil, nil, fmt.Errorf("find existing links: %w", err)
	}
	existing := make(map[game.SourceRef]string, len(links))
	linkedIDs := make([]string, 0, len(links))
	for _, link := range links {
		existing[link.Ref] = link.CanonicalID
		linkedIDs = append(linkedIDs, link.CanonicalID)
	}

	stored := make(map[string]game.CanonicalGame)
	if err := s.loadStored(ctx, linkedIDs, stored); err != nil {
		return nil, nil, err
	}
	assignments := reconcile.ClaimLinkedIDs(groups, existing, chosenSources(stored))

	var fresh []string
	for i, a := range assignments {
		if a.CanonicalID == "" {
			fresh = append(fresh, groups[i].FreshID())
		}
	}
	if err := s.loadStored(ctx, fresh, stored); err != nil {
		return nil, nil, err
	}
	reconcile.MintIDs(groups, assignments, chosenSources(stored))
	return assignments, stored, nil
}

type storedGame struct {
	id     string
	game   game.CanonicalGame
	exists bool
}

// loadStored fetches the live canonical rows for ids not yet in into.
func (s *CanonicalizationService) loadStored(ctx context.Context, ids []string, into map[string]game.CanonicalGame) error {
	seen := make(map[string]struct{}, len(ids))
	p := pool.NewWithResults[storedGame]().WithContext(ctx).WithMaxGoroutines(s.cfg.Workers).WithCancelOnError()
	for _, cid := range ids {
		if _, ok := into[cid]; ok {
			continue
		}
		if _, dup := seen[cid]; dup {
			continue
		}
		seen[cid] = struct{}{}
		p.Go(func(ctx context.Context) (storedGame, error) {
			g, exists, err := s.canonical.GetByID(ctx, cid)
			if err != nil {
				return storedGame{}, fmt.Errorf("load canonical game %s: %w", cid, err)
			}
			return storedGame{id: cid, game: g, exists: exists}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.exists {
			into[r.id] = r.game
		}
	}
	return nil
}

func chosenSources(stored map[string]game.CanonicalGame) map[string]game.SourceRef {
	out := make(map[string]game.SourceRef, len(stored))
	for cid, g := range stored {
		out[cid] = g.ChosenSource
	}
	return out
}

// persist saves groups concurrently. Each group is one transaction, so a
// failure leaves earlier groups committed and the next run picks up the rest.
func (s *CanonicalizationService) persist(ctx context.Context, games []game.CanonicalGame, merged [][]string, stored map[string]game.CanonicalGame, dryRun bool) (int, int, error) {
	var reassigned, created atomic.Int32
	var mu sync.Mutex
	var failedIDs []string

	p := pool.New().WithMaxGoroutines(s.cfg.Workers).WithContext(ctx).WithCancelOnError()
	for i := range games {
		g := games[i]
		mergedIDs := merged[i]
		p.Go(func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.GroupTimeout)
			defer cancel()

			previous, exists := stored[g.ID]
			if !exists {
				created.Add(1)
			} else if previous.ChosenSource != g.ChosenSource {
				reassigned.Add(1)
				s.logger.InfoContext(ctx, "canonical source reassigned",
					"canonical_id", g.ID,
					"from", previous.ChosenSource.String(),
					"to", g.ChosenSource.String(),
				)
			}
			if dryRun {
				return nil
			}
			if err := s.canonical.SaveGroup(ctx, g, mergedIDs); err != nil {
				mu.Lock()
				failedIDs = append(failedIDs, g.ID)
				mu.Unlock()
				return fmt.Errorf("save canonical game %s: %w", g.ID, err)
			}
			return nil
		})
	}
	err := p.Wait()
	if err != nil {
		sort.Strings(failedIDs)
		s.logger.WarnContext(ctx, "canonical persistence stopped early", "failed", failedIDs, "error", err)
	}
	return int(reassigned.Load()), int(created.Load()), err
}

// normalizeWindow truncates both ends to ET dates. An open window is
// rejected so a batch never scans everything by accident.
func normalizeWindow(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window start and end are required", ErrInvalidInput)
	}
	from, to := game.ETDate(start), game.ETDate(end)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window end %s before start %s", ErrInvalidInput, dateOnly(to), dateOnly(from))
	}
	return from, to, nil
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
