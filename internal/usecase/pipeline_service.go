package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

type PipelineInput struct {
	WindowStart time.Time
	WindowEnd   time.Time
	TeamID      string
}

type PipelineSummary struct {
	Reconcile RunSummary      `json:"reconcile"`
	Link      LinkSummary     `json:"link"`
	Validate  ValidateSummary `json:"validate"`
}

// PipelineService chains reconcile, link and validate over one window. Each
// stage records its own run.
type PipelineService struct {
	canonicalization *CanonicalizationService
	boxScores        *BoxScoreService
	validation       *ValidationService
	logger           *logging.Logger
	now              func() time.Time
}

func NewPipelineService(
	canonicalization *CanonicalizationService,
	boxScores *BoxScoreService,
	validation *ValidationService,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		canonicalization: canonicalization,
		boxScores:        boxScores,
		validation:       validation,
		logger:           logger.Named("pipeline"),
		now:              time.Now,
	}
}

func (s *PipelineService) Run(ctx context.Context, input PipelineInput) (PipelineSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	var out PipelineSummary
	var err error
	out.Reconcile, err = s.canonicalization.Reconcile(ctx, ReconcileInput{
		WindowStart: input.WindowStart,
		WindowEnd:   input.WindowEnd,
		TeamID:      input.TeamID,
	})
	if err != nil {
		return out, fmt.Errorf("reconcile: %w", err)
	}
	out.Link, err = s.boxScores.Link(ctx, LinkInput{
		WindowStart: input.WindowStart,
		WindowEnd:   input.WindowEnd,
		TeamID:      input.TeamID,
	})
	if err != nil {
		return out, fmt.Errorf("link box scores: %w", err)
	}
	out.Validate, err = s.validation.Run(ctx, ValidateInput{
		WindowStart: input.WindowStart,
		WindowEnd:   input.WindowEnd,
		TeamID:      input.TeamID,
	})
	if err != nil {
		return out, fmt.Errorf("validate: %w", err)
	}
	return out, nil
}

// RunLookback processes the last lookbackDays ET dates up to today.
func (s *PipelineService) RunLookback(ctx context.Context, lookbackDays int) (PipelineSummary, error) {
	if lookbackDays < 0 {
		return PipelineSummary{}, fmt.Errorf("%w: lookback days must be >= 0", ErrInvalidInput)
	}
	end := game.ETDate(s.now())
	start := end.AddDate(0, 0, -lookbackDays)

	s.logger.InfoContext(ctx, "pipeline run started",
		"window_start", dateOnly(start),
		"window_end", dateOnly(end),
	)
	summary, err := s.Run(ctx, PipelineInput{WindowStart: start, WindowEnd: end})
	if err != nil {
		s.logger.ErrorContext(ctx, "pipeline run failed", "error", err)
		return summary, err
	}
	s.logger.InfoContext(ctx, "pipeline run finished",
		"groups", summary.Reconcile.Groups,
		"linked", summary.Link.Linked,
		"validated", summary.Validate.Validated,
		"games_failed", summary.Validate.GamesFailed,
	)
	return summary, nil
}
