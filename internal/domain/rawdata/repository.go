package rawdata

import "context"

type Repository interface {
	// UpsertMany is keyed on (provider, kind, entity_key); unchanged hashes
	// are left alone.
	UpsertMany(ctx context.Context, items []Payload) error
}
