package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
)

type issueKey struct {
	provider    game.Provider
	providerRef string
	gameID      string
}

type IdentityIssueRepository struct {
	mu     sync.RWMutex
	issues map[issueKey]identity.Issue
}

func NewIdentityIssueRepository() *IdentityIssueRepository {
	return &IdentityIssueRepository{issues: make(map[issueKey]identity.Issue)}
}

func (r *IdentityIssueRepository) UpsertIssues(_ context.Context, issues []identity.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, issue := range issues {
		key := issueKey{provider: issue.Provider, providerRef: issue.ProviderRef, gameID: issue.GameID}
		if existing, ok := r.issues[key]; ok {
			if existing.Resolved() {
				continue
			}
			issue.CreatedAt = existing.CreatedAt
		}
		if issue.CreatedAt.IsZero() {
			issue.CreatedAt = time.Now().UTC()
		}
		r.issues[key] = issue
	}
	return nil
}

func (r *IdentityIssueRepository) ListOpen(_ context.Context, limit, offset int) ([]identity.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]identity.Issue, 0)
	for _, issue := range r.issues {
		if !issue.Resolved() {
			out = append(out, issue)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if out[i].ProviderRef != out[j].ProviderRef {
			return out[i].ProviderRef < out[j].ProviderRef
		}
		return out[i].GameID < out[j].GameID
	})
	return page(out, limit, offset), nil
}

func (r *IdentityIssueRepository) MarkResolved(_ context.Context, provider game.Provider, providerRef, playerID string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	resolvedAt := at.UTC()
	count := 0
	for key, issue := range r.issues {
		if key.provider != provider || key.providerRef != providerRef || issue.Resolved() {
			continue
		}
		if issue.CreatedAt.After(resolvedAt) {
			continue
		}
		issue.ResolvedPlayerID = playerID
		issue.ResolvedAt = &resolvedAt
		r.issues[key] = issue
		count++
	}
	return count, nil
}

// page applies LIMIT/OFFSET semantics to a sorted slice. A non-positive limit
// returns everything after offset.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
