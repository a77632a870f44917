package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

type SourceRecordRepository struct {
	mu      sync.RWMutex
	records map[game.SourceRef]game.SourceRecord
}

func NewSourceRecordRepository() *SourceRecordRepository {
	return &SourceRecordRepository{records: make(map[game.SourceRef]game.SourceRecord)}
}

func (r *SourceRecordRepository) UpsertSourceRecords(_ context.Context, items []game.SourceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.IngestedAt.IsZero() {
			item.IngestedAt = time.Now().UTC()
		}
		item.Date = game.ETDate(item.Date)
		r.records[item.Ref()] = item
	}
	return nil
}

func (r *SourceRecordRepository) ListSourceRecords(_ context.Context, from, to time.Time) ([]game.SourceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to = game.ETDate(from), game.ETDate(to)
	out := make([]game.SourceRecord, 0)
	for _, item := range r.records {
		if item.Date.Before(from) || item.Date.After(to) {
			continue
		}
		out = append(out, item)
	}
	sortRecords(out)
	return out, nil
}

func (r *SourceRecordRepository) ListSourceRecordsByRefs(_ context.Context, refs []game.SourceRef) ([]game.SourceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.SourceRecord, 0, len(refs))
	for _, ref := range refs {
		if item, ok := r.records[ref]; ok {
			out = append(out, item)
		}
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(items []game.SourceRecord) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].Ref().Less(items[j].Ref())
	})
}

// ValidatedLookup reports whether a canonical game already has validation
// results.
type ValidatedLookup interface {
	HasResults(gameID string) bool
}

type CanonicalGameRepository struct {
	mu         sync.RWMutex
	games      map[string]game.CanonicalGame
	mergedInto map[string]string
	links      map[game.SourceRef]string
	validated  ValidatedLookup
}

func NewCanonicalGameRepository(validated ValidatedLookup) *CanonicalGameRepository {
	return &CanonicalGameRepository{
		games:      make(map[string]game.CanonicalGame),
		mergedInto: make(map[string]string),
		links:      make(map[game.SourceRef]string),
		validated:  validated,
	}
}

func (r *CanonicalGameRepository) GetByID(ctx context.Context, canonicalID string) (game.CanonicalGame, bool, error) {
	items, err := r.List(ctx, game.Query{GameID: canonicalID})
	if err != nil || len(items) == 0 {
		return game.CanonicalGame{}, false, err
	}
	return items[0], true, nil
}

func (r *CanonicalGameRepository) List(_ context.Context, query game.Query) ([]game.CanonicalGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gameID := strings.TrimSpace(query.GameID)
	if gameID == "" {
		if query.From.IsZero() || query.To.IsZero() {
			return nil, fmt.Errorf("window query requires from and to")
		}
		if query.To.Before(query.From) {
			return nil, fmt.Errorf("window end is before start")
		}
	}
	from, to := game.ETDate(query.From), game.ETDate(query.To)

	out := make([]game.CanonicalGame, 0)
	for id, item := range r.games {
		if _, merged := r.mergedInto[id]; merged {
			continue
		}
		switch {
		case gameID != "":
			if id != gameID {
				continue
			}
		default:
			if item.Date.Before(from) || item.Date.After(to) {
				continue
			}
			if teamID := strings.TrimSpace(query.TeamID); teamID != "" && !item.HasTeam(teamID) {
				continue
			}
			if query.UnvalidatedOnly && r.validated != nil && r.validated.HasResults(id) {
				continue
			}
		}
		item.Sources = r.sourcesFor(id)
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CanonicalGameRepository) FindLinks(_ context.Context, refs []game.SourceRef) ([]game.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Link, 0, len(refs))
	for _, ref := range refs {
		if id, ok := r.links[ref]; ok {
			out = append(out, game.Link{Ref: ref, CanonicalID: id})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref.Less(out[j].Ref) })
	return out, nil
}

func (r *CanonicalGameRepository) SaveGroup(_ context.Context, item game.CanonicalGame, mergedIDs []string) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("canonical id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now().UTC()
	}
	item.Date = game.ETDate(item.Date)
	stored := item
	stored.Sources = nil
	r.games[item.ID] = stored
	delete(r.mergedInto, item.ID)

	for _, mergedID := range mergedIDs {
		if mergedID == "" || mergedID == item.ID {
			continue
		}
		r.mergedInto[mergedID] = item.ID
		for ref, id := range r.links {
			if id == mergedID {
				r.links[ref] = item.ID
			}
		}
	}
	for _, ref := range item.Sources {
		r.links[ref] = item.ID
	}
	return nil
}

// MergedInto reports the surviving id for a merged canonical game.
func (r *CanonicalGameRepository) MergedInto(canonicalID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.mergedInto[canonicalID]
	return id, ok
}

// GameDate returns the date of a live canonical game.
func (r *CanonicalGameRepository) GameDate(canonicalID string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, merged := r.mergedInto[canonicalID]; merged {
		return time.Time{}, false
	}
	item, ok := r.games[canonicalID]
	return item.Date, ok
}

func (r *CanonicalGameRepository) sourcesFor(canonicalID string) []game.SourceRef {
	out := make([]game.SourceRef, 0)
	for ref, id := range r.links {
		if id == canonicalID {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
