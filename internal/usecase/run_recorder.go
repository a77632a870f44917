package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/id"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

// RunObserver is notified after every batch run, persisted or not.
type RunObserver interface {
	ObserveRun(run pipeline.Run)
}

type noopRunObserver struct{}

func (noopRunObserver) ObserveRun(pipeline.Run) {}

// runRecorder persists batch summaries. A failed write is logged and never
// fails the run it describes.
type runRecorder struct {
	repo     pipeline.Repository
	ids      id.Generator
	observer RunObserver
	logger   *logging.Logger
	now      func() time.Time
}

func newRunRecorder(repo pipeline.Repository, observer RunObserver, logger *logging.Logger) *runRecorder {
	if observer == nil {
		observer = noopRunObserver{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &runRecorder{
		repo:     repo,
		ids:      id.NewRandomGenerator(),
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *runRecorder) newRunID() string {
	runID, err := r.ids.NewID()
	if err != nil {
		return "run-" + r.now().UTC().Format("20060102T150405.000000000")
	}
	return runID
}

func (r *runRecorder) record(ctx context.Context, run pipeline.Run, runErr error) {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = r.now().UTC()
	}
	run.Status = pipeline.StatusSucceeded
	if runErr != nil {
		run.Status = pipeline.StatusFailed
		run.ErrorMessage = runErr.Error()
	}
	run.TraceID, run.SpanID = traceMetaFromContext(ctx)

	r.observer.ObserveRun(run)
	if run.DryRun || r.repo == nil {
		return
	}
	// Persist even when the run context was cancelled.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.repo.SaveRun(saveCtx, run); err != nil {
		r.logger.WarnContext(ctx, "record pipeline run failed",
			"run_id", run.ID,
			"kind", run.Kind,
			"error", err,
		)
	}
}
