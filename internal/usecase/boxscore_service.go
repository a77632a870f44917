package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/capability"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

type LinkInput struct {
	WindowStart time.Time
	WindowEnd   time.Time
	TeamID      string
	CanonicalID string
}

type LinkSummary struct {
	RunID          string `json:"run_id"`
	Games          int    `json:"games"`
	Linked         int    `json:"linked"`
	SkippedNoLines int    `json:"skipped_no_lines"`
	PlayersLinked  int    `json:"players_linked"`
	Ambiguous      int    `json:"ambiguous"`
	NotFound       int    `json:"not_found"`
	TeamMismatch   int    `json:"team_mismatch"`
	Duplicates     int    `json:"duplicates"`
	Failed         int    `json:"failed"`
}

func (s LinkSummary) payload() map[string]any {
	return map[string]any{
		"games":            s.Games,
		"linked":           s.Linked,
		"skipped_no_lines": s.SkippedNoLines,
		"players_linked":   s.PlayersLinked,
		"ambiguous":        s.Ambiguous,
		"not_found":        s.NotFound,
		"team_mismatch":    s.TeamMismatch,
		"duplicates":       s.Duplicates,
		"failed":           s.Failed,
	}
}

func (s *LinkSummary) add(other gameLinkResult) {
	if other.source == (game.SourceRef{}) {
		s.SkippedNoLines++
		return
	}
	s.Linked++
	s.PlayersLinked += other.players
	s.Ambiguous += other.ambiguous
	s.NotFound += other.notFound
	s.TeamMismatch += other.teamMismatch
	s.Duplicates += other.duplicates
}

// BoxScoreService attaches provider stat lines to canonical games under
// internal player and team ids.
type BoxScoreService struct {
	canonical   game.CanonicalRepository
	lines       boxscore.LineRepository
	stats       boxscore.Repository
	identity    *IdentityService
	recentStats *capability.Flag
	workers     int
	runs        *runRecorder
	logger      *logging.Logger
	now         func() time.Time
}

func NewBoxScoreService(
	canonical game.CanonicalRepository,
	lines boxscore.LineRepository,
	stats boxscore.Repository,
	identitySvc *IdentityService,
	recentStats *capability.Flag,
	runs pipeline.Repository,
	observer RunObserver,
	workers int,
	logger *logging.Logger,
) *BoxScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	logger = logger.Named("boxscore")
	return &BoxScoreService{
		canonical:   canonical,
		lines:       lines,
		stats:       stats,
		identity:    identitySvc,
		recentStats: recentStats,
		workers:     workers,
		runs:        newRunRecorder(runs, observer, logger),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *BoxScoreService) Link(ctx context.Context, input LinkInput) (LinkSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoxScoreService.Link")
	defer span.End()

	query, err := gameQuery(input.WindowStart, input.WindowEnd, input.TeamID, input.CanonicalID, false)
	if err != nil {
		return LinkSummary{}, err
	}
	run := pipeline.Run{
		ID:          s.runs.newRunID(),
		Kind:        pipeline.KindLink,
		WindowStart: query.From,
		WindowEnd:   query.To,
		StartedAt:   s.now().UTC(),
	}
	summary, err := s.link(ctx, query)
	summary.RunID = run.ID
	run.Payload = summary.payload()
	s.runs.record(ctx, run, err)
	if err != nil {
		return summary, err
	}

	s.logger.InfoContext(ctx, "box score link finished",
		"run_id", run.ID,
		"games", summary.Games,
		"linked", summary.Linked,
		"players_linked", summary.PlayersLinked,
		"ambiguous", summary.Ambiguous,
		"not_found", summary.NotFound,
	)
	return summary, nil
}

func (s *BoxScoreService) link(ctx context.Context, query game.Query) (LinkSummary, error) {
	var summary LinkSummary
	games, err := s.canonical.List(ctx, query)
	if err != nil {
		return summary, fmt.Errorf("list canonical games: %w", err)
	}
	if query.GameID != "" && len(games) == 0 {
		return summary, fmt.Errorf("%w: canonical game %s", ErrNotFound, query.GameID)
	}
	summary.Games = len(games)

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(s.workers).WithContext(ctx)
	for _, g := range games {
		g := g
		p.Go(func(ctx context.Context) error {
			res, err := s.linkGame(ctx, g)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				s.logger.WarnContext(ctx, "link game failed", "canonical_id", g.ID, "error", err)
				return err
			}
			summary.add(res)
			return nil
		})
	}
	err = p.Wait()
	if summary.Linked > 0 && s.recentStats != nil {
		s.recentStats.Invalidate()
	}
	return summary, err
}

type gameLinkResult struct {
	source       game.SourceRef
	players      int
	ambiguous    int
	notFound     int
	teamMismatch int
	duplicates   int
}

// linkGame replaces the player and team rows of one canonical game from its
// best source with stat lines. Unresolved players become identity issues.
func (s *BoxScoreService) linkGame(ctx context.Context, g game.CanonicalGame) (gameLinkResult, error) {
	var res gameLinkResult
	lines, err := s.lines.ListStatLines(ctx, g.Sources)
	if err != nil {
		return res, fmt.Errorf("list stat lines: %w", err)
	}
	source, picked := pickLineSource(g, lines)
	if len(picked) == 0 {
		return res, nil
	}
	res.source = source

	now := s.now().UTC()
	var players []boxscore.PlayerGameStat
	var issues []identity.Issue
	seen := make(map[string]struct{}, len(picked))
	for _, line := range picked {
		teamID, err := s.identity.ResolveTeam(ctx, line.Provider, line.TeamRef)
		if err != nil && !errors.Is(err, identity.ErrNotFound) {
			return res, err
		}
		if err != nil || !g.HasTeam(teamID) {
			res.teamMismatch++
			s.logger.DebugContext(ctx, "stat line team not in game",
				"canonical_id", g.ID,
				"team_ref", line.TeamRef,
				"player", line.PlayerName,
			)
			continue
		}

		opponent := g.HomeTeamID
		if teamID == g.HomeTeamID {
			opponent = g.AwayTeamID
		}
		q := identity.Query{
			Name:           line.PlayerName,
			TeamID:         teamID,
			OpponentTeamID: opponent,
			Provider:       line.Provider,
			ProviderRef:    line.PlayerRef(),
			GameDate:       g.Date,
		}
		result, err := s.identity.ResolvePlayer(ctx, q)
		if err != nil {
			return res, err
		}
		if !result.Found() {
			if result.Outcome == identity.OutcomeAmbiguous {
				res.ambiguous++
			} else {
				res.notFound++
			}
			issues = append(issues, identity.IssueFromResult(q, g.ID, result, now))
			continue
		}
		if _, dup := seen[result.PlayerID]; dup {
			res.duplicates++
			continue
		}
		seen[result.PlayerID] = struct{}{}
		players = append(players, boxscore.FromStatLine(line, g.ID, result.PlayerID, teamID))
	}

	teams := []boxscore.TeamGameStat{
		boxscore.AggregateTeam(g.ID, g.HomeTeamID, true, players),
		boxscore.AggregateTeam(g.ID, g.AwayTeamID, false, players),
	}
	if err := s.stats.ReplaceGameStats(ctx, g.ID, players, teams); err != nil {
		return res, fmt.Errorf("replace game stats: %w", err)
	}
	if err := s.identity.RecordIssues(ctx, issues); err != nil {
		return res, err
	}
	res.players = len(players)
	return res, nil
}

// pickLineSource prefers the chosen source, then the highest priority
// provider that delivered any lines.
func pickLineSource(g game.CanonicalGame, lines []boxscore.StatLine) (game.SourceRef, []boxscore.StatLine) {
	byRef := make(map[game.SourceRef][]boxscore.StatLine)
	for _, line := range lines {
		byRef[line.GameRef()] = append(byRef[line.GameRef()], line)
	}
	if picked := byRef[g.ChosenSource]; len(picked) > 0 {
		return g.ChosenSource, picked
	}

	refs := make([]game.SourceRef, 0, len(byRef))
	for ref := range byRef {
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return game.SourceRef{}, nil
	}
	sort.Slice(refs, func(i, j int) bool {
		if pi, pj := refs[i].Provider.Priority(), refs[j].Provider.Priority(); pi != pj {
			return pi > pj
		}
		return refs[i].Less(refs[j])
	})
	return refs[0], byRef[refs[0]]
}

// gameQuery builds a canonical game query. A canonical id needs no window.
func gameQuery(start, end time.Time, teamID, canonicalID string, unvalidatedOnly bool) (game.Query, error) {
	q := game.Query{
		TeamID:          strings.TrimSpace(teamID),
		GameID:          strings.TrimSpace(canonicalID),
		UnvalidatedOnly: unvalidatedOnly,
	}
	if q.GameID != "" && start.IsZero() && end.IsZero() {
		return q, nil
	}
	from, to, err := normalizeWindow(start, end)
	if err != nil {
		return game.Query{}, err
	}
	q.From, q.To = from, to
	return q, nil
}
