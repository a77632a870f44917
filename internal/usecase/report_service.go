package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/validation"
)

type ReportInput struct {
	WindowStart time.Time
	WindowEnd   time.Time
	TeamID      string
	CheckName   string
	Status      string
}

type CheckCounts struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (c *CheckCounts) add(status validation.Status) {
	switch status {
	case validation.StatusPass:
		c.Passed++
	case validation.StatusWarn:
		c.Warned++
	case validation.StatusFail:
		c.Failed++
	}
}

type CoverageReport struct {
	WindowStart     string                 `json:"window_start"`
	WindowEnd       string                 `json:"window_end"`
	Games           int                    `json:"games"`
	GamesValidated  int                    `json:"games_validated"`
	GamesWithIssues int                    `json:"games_with_issues"`
	Checks          CheckCounts            `json:"checks"`
	PerCheck        map[string]CheckCounts `json:"per_check"`
}

// FailureRow is one non-passing check with the game it belongs to.
type FailureRow struct {
	GameID      string         `json:"game_id"`
	GameDate    string         `json:"game_date"`
	Matchup     string         `json:"matchup"`
	CheckName   string         `json:"check_name"`
	Status      string         `json:"status"`
	Severity    string         `json:"severity"`
	Detail      map[string]any `json:"detail"`
	ValidatedAt time.Time      `json:"validated_at"`
}

type ReportService struct {
	canonical game.CanonicalRepository
	results   validation.Repository
	issues    identity.IssueRepository
	runs      pipeline.Repository
}

func NewReportService(
	canonical game.CanonicalRepository,
	results validation.Repository,
	issues identity.IssueRepository,
	runs pipeline.Repository,
) *ReportService {
	return &ReportService{
		canonical: canonical,
		results:   results,
		issues:    issues,
		runs:      runs,
	}
}

func (s *ReportService) Coverage(ctx context.Context, input ReportInput) (CoverageReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Coverage")
	defer span.End()

	games, results, err := s.load(ctx, input, "")
	if err != nil {
		return CoverageReport{}, err
	}

	report := CoverageReport{
		WindowStart: dateOnly(game.ETDate(input.WindowStart)),
		WindowEnd:   dateOnly(game.ETDate(input.WindowEnd)),
		Games:       len(games),
		PerCheck:    make(map[string]CheckCounts),
	}
	validated := make(map[string]bool)
	withIssues := make(map[string]bool)
	for _, r := range results {
		validated[r.GameID] = true
		if r.Status != validation.StatusPass {
			withIssues[r.GameID] = true
		}
		report.Checks.add(r.Status)
		perCheck := report.PerCheck[r.CheckName]
		perCheck.add(r.Status)
		report.PerCheck[r.CheckName] = perCheck
	}
	report.GamesValidated = len(validated)
	report.GamesWithIssues = len(withIssues)
	return report, nil
}

// Failures lists failing and warning rows, newest game first. A status
// filter of "pass" is honored so operators can confirm a clean check.
func (s *ReportService) Failures(ctx context.Context, input ReportInput) ([]FailureRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Failures")
	defer span.End()

	exclude := validation.Status("")
	if strings.TrimSpace(input.Status) == "" {
		exclude = validation.StatusPass
	}
	games, results, err := s.load(ctx, input, exclude)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]game.CanonicalGame, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	out := make([]FailureRow, 0)
	for _, r := range results {
		g := byID[r.GameID]
		out = append(out, FailureRow{
			GameID:      r.GameID,
			GameDate:    dateOnly(g.Date),
			Matchup:     g.Matchup(),
			CheckName:   r.CheckName,
			Status:      string(r.Status),
			Severity:    string(r.Severity),
			Detail:      r.Detail,
			ValidatedAt: r.ValidatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GameDate != out[j].GameDate {
			return out[i].GameDate > out[j].GameDate
		}
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		return checkOrder(out[i].CheckName) < checkOrder(out[j].CheckName)
	})
	return out, nil
}

func (s *ReportService) OpenIssues(ctx context.Context, limit, offset int) ([]identity.Issue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.OpenIssues")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	items, err := s.issues.ListOpen(ctx, limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list open identity issues: %w", err)
	}
	return items, nil
}

func (s *ReportService) RecentRuns(ctx context.Context, kind string, limit, offset int) ([]pipeline.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.RecentRuns")
	defer span.End()

	items, err := s.runs.ListRecent(ctx, pipeline.Kind(strings.ToLower(strings.TrimSpace(kind))), limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list pipeline runs: %w", err)
	}
	return items, nil
}

func (s *ReportService) load(ctx context.Context, input ReportInput, exclude validation.Status) ([]game.CanonicalGame, []validation.Result, error) {
	query, err := gameQuery(input.WindowStart, input.WindowEnd, input.TeamID, "", false)
	if err != nil {
		return nil, nil, err
	}
	status := validation.Status(strings.ToLower(strings.TrimSpace(input.Status)))
	switch status {
	case "", validation.StatusPass, validation.StatusWarn, validation.StatusFail:
	default:
		return nil, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
	}
	checkName := strings.TrimSpace(input.CheckName)
	if checkName != "" && checkOrder(checkName) < 0 {
		return nil, nil, fmt.Errorf("%w: unknown check %q", ErrInvalidInput, checkName)
	}

	games, err := s.canonical.List(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("list canonical games: %w", err)
	}
	if len(games) == 0 {
		return games, nil, nil
	}
	ids := make([]string, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	results, err := s.results.ListResults(ctx, validation.Filter{
		GameIDs:       ids,
		CheckName:     checkName,
		Status:        status,
		ExcludeStatus: exclude,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list validation results: %w", err)
	}
	return games, results, nil
}

func checkOrder(name string) int {
	for i, check := range validation.CheckNames() {
		if check == name {
			return i
		}
	}
	return -1
}
