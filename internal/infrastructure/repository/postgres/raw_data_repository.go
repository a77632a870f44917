package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/rawdata"
	qb "github.com/riskibarqy/hoops-reconciler/internal/platform/querybuilder"
)

type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	return withTx(ctx, r.db, "upsert raw payloads", func(tx *sqlx.Tx) error {
		for _, item := range items {
			fetchedAt := item.FetchedAt.UTC()
			if fetchedAt.IsZero() {
				fetchedAt = time.Now().UTC()
			}
			insertModel := rawPayloadInsertModel{
				Provider:    item.Provider,
				Kind:        item.Kind,
				EntityKey:   item.EntityKey,
				Payload:     item.PayloadJSON,
				PayloadHash: item.PayloadHash,
				FetchedAt:   fetchedAt,
			}

			query, args, err := qb.InsertModel("raw_provider_payloads", insertModel, `ON CONFLICT (provider, kind, entity_key)
DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at
WHERE raw_provider_payloads.payload_hash IS DISTINCT FROM EXCLUDED.payload_hash`)
			if err != nil {
				return fmt.Errorf("build upsert raw payload query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert raw payload provider=%s kind=%s key=%s: %w", item.Provider, item.Kind, item.EntityKey, err)
			}
		}
		return nil
	})
}

type rawPayloadInsertModel struct {
	Provider    string    `db:"provider"`
	Kind        string    `db:"kind"`
	EntityKey   string    `db:"entity_key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
