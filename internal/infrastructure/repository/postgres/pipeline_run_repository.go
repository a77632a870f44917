package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type pipelineRunModel struct {
	RunID        string         `db:"run_id"`
	Kind         string         `db:"kind"`
	Status       string         `db:"status"`
	WindowStart  sql.NullTime   `db:"window_start"`
	WindowEnd    sql.NullTime   `db:"window_end"`
	DryRun       bool           `db:"dry_run"`
	Payload      string         `db:"payload"`
	ErrorMessage sql.NullString `db:"error_message"`
	StartedAt    time.Time      `db:"started_at"`
	FinishedAt   time.Time      `db:"finished_at"`
	TraceID      sql.NullString `db:"trace_id"`
	SpanID       sql.NullString `db:"span_id"`
}

type pipelineRunInsertModel struct {
	RunID        string    `db:"run_id"`
	Kind         string    `db:"kind"`
	Status       string    `db:"status"`
	WindowStart  *string   `db:"window_start"`
	WindowEnd    *string   `db:"window_end"`
	DryRun       bool      `db:"dry_run"`
	Payload      string    `db:"payload"`
	ErrorMessage *string   `db:"error_message"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
	TraceID      *string   `db:"trace_id"`
	SpanID       *string   `db:"span_id"`
}

type PipelineRunRepository struct {
	db *sqlx.DB
}

func NewPipelineRunRepository(db *sqlx.DB) *PipelineRunRepository {
	return &PipelineRunRepository{db: db}
}

func (r *PipelineRunRepository) SaveRun(ctx context.Context, run pipeline.Run) error {
	runID := strings.TrimSpace(run.ID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}

	payload, err := marshalJSON(run.Payload)
	if err != nil {
		return fmt.Errorf("marshal pipeline run payload: %w", err)
	}

	startedAt := run.StartedAt.UTC()
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	finishedAt := run.FinishedAt.UTC()
	if finishedAt.IsZero() {
		finishedAt = startedAt
	}

	model := pipelineRunInsertModel{
		RunID:        runID,
		Kind:         string(run.Kind),
		Status:       string(run.Status),
		WindowStart:  optionalDate(run.WindowStart),
		WindowEnd:    optionalDate(run.WindowEnd),
		DryRun:       run.DryRun,
		Payload:      payload,
		ErrorMessage: nullableString(run.ErrorMessage),
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		TraceID:      nullableString(run.TraceID),
		SpanID:       nullableString(run.SpanID),
	}

	query, args, err := qb.InsertModel("pipeline_runs", model, `ON CONFLICT (run_id)
DO UPDATE SET
    status = EXCLUDED.status,
    payload = EXCLUDED.payload,
    error_message = EXCLUDED.error_message,
    finished_at = EXCLUDED.finished_at,
    trace_id = COALESCE(EXCLUDED.trace_id, pipeline_runs.trace_id),
    span_id = COALESCE(EXCLUDED.span_id, pipeline_runs.span_id)`)
	if err != nil {
		return fmt.Errorf("build upsert pipeline run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert pipeline run id=%s kind=%s: %w", runID, run.Kind, err)
	}
	return nil
}

func (r *PipelineRunRepository) ListRecent(ctx context.Context, kind pipeline.Kind, limit, offset int) ([]pipeline.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	conditions := make([]qb.Condition, 0, 1)
	if kind != "" {
		conditions = append(conditions, qb.Eq("kind", string(kind)))
	}
	query, args, err := qb.Select("*").From("pipeline_runs").
		Where(conditions...).
		OrderBy("started_at DESC", "run_id").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pipeline runs query: %w", err)
	}

	var rows []pipelineRunModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pipeline runs: %w", err)
	}

	out := make([]pipeline.Run, 0, len(rows))
	for _, row := range rows {
		payload, err := unmarshalJSON(row.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode pipeline run payload id=%s: %w", row.RunID, err)
		}
		item := pipeline.Run{
			ID:           row.RunID,
			Kind:         pipeline.Kind(row.Kind),
			Status:       pipeline.Status(row.Status),
			DryRun:       row.DryRun,
			Payload:      payload,
			ErrorMessage: nullStringValue(row.ErrorMessage),
			StartedAt:    row.StartedAt,
			FinishedAt:   row.FinishedAt,
			TraceID:      nullStringValue(row.TraceID),
			SpanID:       nullStringValue(row.SpanID),
		}
		if row.WindowStart.Valid {
			item.WindowStart = etDate(row.WindowStart.Time)
		}
		if row.WindowEnd.Valid {
			item.WindowEnd = etDate(row.WindowEnd.Time)
		}
		out = append(out, item)
	}
	return out, nil
}

func optionalDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	v := dateOnly(t)
	return &v
}
