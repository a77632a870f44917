package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/validation"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type validationResultModel struct {
	GameID      string    `db:"game_id"`
	CheckName   string    `db:"check_name"`
	Status      string    `db:"status"`
	Severity    string    `db:"severity"`
	Detail      string    `db:"detail"`
	ValidatedAt time.Time `db:"validated_at"`
}

type ValidationRepository struct {
	db *sqlx.DB
}

func NewValidationRepository(db *sqlx.DB) *ValidationRepository {
	return &ValidationRepository{db: db}
}

// UpsertResults overwrites the row for each (game, check) pair.
func (r *ValidationRepository) UpsertResults(ctx context.Context, results []validation.Result) error {
	if len(results) == 0 {
		return nil
	}

	models := make([]validationResultModel, 0, len(results))
	for _, item := range results {
		detail, err := marshalJSON(item.Detail)
		if err != nil {
			return fmt.Errorf("marshal validation detail game=%s check=%s: %w", item.GameID, item.CheckName, err)
		}
		validatedAt := item.ValidatedAt.UTC()
		if validatedAt.IsZero() {
			validatedAt = time.Now().UTC()
		}
		models = append(models, validationResultModel{
			GameID:      item.GameID,
			CheckName:   item.CheckName,
			Status:      string(item.Status),
			Severity:    string(item.Severity),
			Detail:      detail,
			ValidatedAt: validatedAt,
		})
	}

	query, args, err := qb.InsertModels("validation_results", models, `ON CONFLICT (game_id, check_name)
DO UPDATE SET
    status = EXCLUDED.status,
    severity = EXCLUDED.severity,
    detail = EXCLUDED.detail,
    validated_at = EXCLUDED.validated_at`)
	if err != nil {
		return fmt.Errorf("build upsert validation results query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert validation results count=%d: %w", len(models), err)
	}
	return nil
}

func (r *ValidationRepository) ListResults(ctx context.Context, filter validation.Filter) ([]validation.Result, error) {
	query, args, err := listResultsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build select validation results query: %w", err)
	}

	var rows []validationResultModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select validation results: %w", err)
	}

	out := make([]validation.Result, 0, len(rows))
	for _, row := range rows {
		detail, err := unmarshalJSON(row.Detail)
		if err != nil {
			return nil, fmt.Errorf("decode validation detail game=%s check=%s: %w", row.GameID, row.CheckName, err)
		}
		out = append(out, validation.Result{
			GameID:      row.GameID,
			CheckName:   row.CheckName,
			Status:      validation.Status(row.Status),
			Severity:    validation.Severity(row.Severity),
			Detail:      detail,
			ValidatedAt: row.ValidatedAt,
		})
	}
	return out, nil
}

func listResultsQuery(filter validation.Filter) (string, []any, error) {
	conditions := make([]qb.Condition, 0, 3)
	if len(filter.GameIDs) > 0 {
		conditions = append(conditions, qb.In("game_id", stringArgs(filter.GameIDs)))
	}
	if name := strings.TrimSpace(filter.CheckName); name != "" {
		conditions = append(conditions, qb.Eq("check_name", name))
	}
	switch {
	case filter.Status != "":
		conditions = append(conditions, qb.Eq("status", string(filter.Status)))
	case filter.ExcludeStatus != "":
		conditions = append(conditions, qb.NotEq("status", string(filter.ExcludeStatus)))
	}

	return qb.Select("*").From("validation_results").
		Where(conditions...).
		OrderBy("validated_at DESC", "game_id", "check_name").
		Limit(filter.Limit).
		ToSQL()
}
