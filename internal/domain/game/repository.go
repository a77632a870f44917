package game

import (
	"context"
	"time"
)

type SourceRepository interface {
	UpsertSourceRecords(ctx context.Context, items []SourceRecord) error
	ListSourceRecords(ctx context.Context, from, to time.Time) ([]SourceRecord, error)
	ListSourceRecordsByRefs(ctx context.Context, refs []SourceRef) ([]SourceRecord, error)
}

type CanonicalRepository interface {
	GetByID(ctx context.Context, canonicalID string) (CanonicalGame, bool, error)
	List(ctx context.Context, query Query) ([]CanonicalGame, error)
	FindLinks(ctx context.Context, refs []SourceRef) ([]Link, error)
	// SaveGroup upserts the canonical row and every member link in one
	// transaction. Canonical ids listed in mergedIDs are marked as merged
	// into game.ID.
	SaveGroup(ctx context.Context, game CanonicalGame, mergedIDs []string) error
}
