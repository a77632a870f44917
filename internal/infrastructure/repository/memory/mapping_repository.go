package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
)

type mappingKey struct {
	entity     identity.EntityType
	provider   game.Provider
	providerID string
}

type MappingRepository struct {
	mu       sync.RWMutex
	mappings map[mappingKey]identity.Mapping
}

func NewMappingRepository() *MappingRepository {
	return &MappingRepository{mappings: make(map[mappingKey]identity.Mapping)}
}

func (r *MappingRepository) GetMapping(_ context.Context, entity identity.EntityType, provider game.Provider, providerID string) (identity.Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.mappings[mappingKey{entity: entity, provider: provider, providerID: strings.TrimSpace(providerID)}]
	if !ok {
		return identity.Mapping{}, fmt.Errorf("%w: %s %s:%s", identity.ErrNotFound, entity, provider, providerID)
	}
	return m, nil
}

func (r *MappingRepository) ListMappings(_ context.Context, entity identity.EntityType) ([]identity.Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]identity.Mapping, 0)
	for key, m := range r.mappings {
		if key.entity == entity {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].ProviderID < out[j].ProviderID
	})
	return out, nil
}

func (r *MappingRepository) UpsertMappings(_ context.Context, mappings []identity.Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range mappings {
		m.ProviderID = strings.TrimSpace(m.ProviderID)
		r.mappings[mappingKey{entity: m.EntityType, provider: m.Provider, providerID: m.ProviderID}] = m
	}
	return nil
}
