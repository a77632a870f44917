package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/validation"
)

type resultKey struct {
	gameID    string
	checkName string
}

type ValidationRepository struct {
	mu      sync.RWMutex
	results map[resultKey]validation.Result
}

func NewValidationRepository() *ValidationRepository {
	return &ValidationRepository{results: make(map[resultKey]validation.Result)}
}

func (r *ValidationRepository) UpsertResults(_ context.Context, results []validation.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range results {
		r.results[resultKey{gameID: item.GameID, checkName: item.CheckName}] = item
	}
	return nil
}

func (r *ValidationRepository) ListResults(_ context.Context, filter validation.Filter) ([]validation.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make(map[string]struct{}, len(filter.GameIDs))
	for _, id := range filter.GameIDs {
		games[id] = struct{}{}
	}

	out := make([]validation.Result, 0)
	for _, item := range r.results {
		if len(games) > 0 {
			if _, ok := games[item.GameID]; !ok {
				continue
			}
		}
		if filter.CheckName != "" && item.CheckName != filter.CheckName {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Status == "" && filter.ExcludeStatus != "" && item.Status == filter.ExcludeStatus {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ValidatedAt.Equal(out[j].ValidatedAt) {
			return out[i].ValidatedAt.After(out[j].ValidatedAt)
		}
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		return out[i].CheckName < out[j].CheckName
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// HasResults reports whether any check has been recorded for the game.
func (r *ValidationRepository) HasResults(gameID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key := range r.results {
		if key.gameID == gameID {
			return true
		}
	}
	return false
}
