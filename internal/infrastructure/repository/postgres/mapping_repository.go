package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type MappingRepository struct {
	db *sqlx.DB
}

func NewMappingRepository(db *sqlx.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) GetMapping(ctx context.Context, entity identity.EntityType, provider game.Provider, providerID string) (identity.Mapping, error) {
	query, args, err := qb.Select("*").From("provider_id_map").
		Where(
			qb.Eq("entity_type", string(entity)),
			qb.Eq("provider", string(provider)),
			qb.Eq("provider_id", strings.TrimSpace(providerID)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return identity.Mapping{}, fmt.Errorf("build select mapping query: %w", err)
	}

	var row mappingModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return identity.Mapping{}, fmt.Errorf("%w: %s %s:%s", identity.ErrNotFound, entity, provider, providerID)
		}
		return identity.Mapping{}, fmt.Errorf("select mapping %s %s:%s: %w", entity, provider, providerID, err)
	}
	return mappingToDomain(row)
}

func (r *MappingRepository) ListMappings(ctx context.Context, entity identity.EntityType) ([]identity.Mapping, error) {
	query, args, err := qb.Select("*").From("provider_id_map").
		Where(qb.Eq("entity_type", string(entity))).
		OrderBy("provider", "provider_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list mappings query: %w", err)
	}

	var rows []mappingModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list %s mappings: %w", entity, err)
	}

	out := make([]identity.Mapping, 0, len(rows))
	for _, row := range rows {
		item, err := mappingToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MappingRepository) UpsertMappings(ctx context.Context, mappings []identity.Mapping) error {
	if len(mappings) == 0 {
		return nil
	}
	return withTx(ctx, r.db, "upsert mappings", func(tx *sqlx.Tx) error {
		return upsertMappingsTx(ctx, tx, mappings)
	})
}

func upsertMappingsTx(ctx context.Context, tx *sqlx.Tx, mappings []identity.Mapping) error {
	for _, m := range mappings {
		updatedAt := m.UpdatedAt.UTC()
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}
		metadata := "{}"
		if len(m.Metadata) > 0 {
			raw, err := sonic.MarshalString(m.Metadata)
			if err != nil {
				return fmt.Errorf("marshal mapping metadata: %w", err)
			}
			metadata = raw
		}

		model := mappingInsertModel{
			EntityType: string(m.EntityType),
			Provider:   string(m.Provider),
			ProviderID: strings.TrimSpace(m.ProviderID),
			InternalID: m.InternalID,
			Metadata:   metadata,
			UpdatedAt:  updatedAt,
		}
		query, args, err := qb.InsertModel("provider_id_map", model, `ON CONFLICT (entity_type, provider, provider_id)
DO UPDATE SET
    internal_id = EXCLUDED.internal_id,
    metadata = EXCLUDED.metadata,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert mapping query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert mapping %s %s:%s: %w", m.EntityType, m.Provider, m.ProviderID, err)
		}
	}
	return nil
}

func mappingToDomain(row mappingModel) (identity.Mapping, error) {
	metadata := map[string]string{}
	if row.Metadata != "" && row.Metadata != "{}" {
		if err := sonic.UnmarshalString(row.Metadata, &metadata); err != nil {
			return identity.Mapping{}, fmt.Errorf("decode mapping metadata %s:%s: %w", row.Provider, row.ProviderID, err)
		}
	}
	return identity.Mapping{
		EntityType: identity.EntityType(row.EntityType),
		Provider:   game.Provider(row.Provider),
		ProviderID: row.ProviderID,
		InternalID: row.InternalID,
		Metadata:   metadata,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}
