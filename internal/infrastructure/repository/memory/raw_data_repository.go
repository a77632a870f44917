package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/rawdata"
)

type rawKey struct {
	provider  string
	kind      string
	entityKey string
}

type RawDataRepository struct {
	mu       sync.RWMutex
	payloads map[rawKey]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{payloads: make(map[rawKey]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := rawKey{provider: item.Provider, kind: item.Kind, entityKey: item.EntityKey}
		if existing, ok := r.payloads[key]; ok && existing.PayloadHash == item.PayloadHash {
			continue
		}
		r.payloads[key] = item
	}
	return nil
}

func (r *RawDataRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.payloads)
}
