package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

type statLineKey struct {
	ref       game.SourceRef
	playerRef string
	teamRef   string
}

type StatLineRepository struct {
	mu    sync.RWMutex
	lines map[statLineKey]boxscore.StatLine
}

func NewStatLineRepository() *StatLineRepository {
	return &StatLineRepository{lines: make(map[statLineKey]boxscore.StatLine)}
}

func (r *StatLineRepository) UpsertStatLines(_ context.Context, lines []boxscore.StatLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, line := range lines {
		if line.IngestedAt.IsZero() {
			line.IngestedAt = time.Now().UTC()
		}
		r.lines[statLineKey{ref: line.GameRef(), playerRef: line.PlayerRef(), teamRef: line.TeamRef}] = line
	}
	return nil
}

func (r *StatLineRepository) ListStatLines(_ context.Context, refs []game.SourceRef) ([]boxscore.StatLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[game.SourceRef]struct{}, len(refs))
	for _, ref := range refs {
		wanted[ref] = struct{}{}
	}

	out := make([]boxscore.StatLine, 0)
	for key, line := range r.lines {
		if _, ok := wanted[key.ref]; ok {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.GameRef() != b.GameRef() {
			return a.GameRef().Less(b.GameRef())
		}
		if a.TeamRef != b.TeamRef {
			return a.TeamRef < b.TeamRef
		}
		return a.PlayerRef() < b.PlayerRef()
	})
	return out, nil
}

// GameDates resolves canonical game dates for recency lookups.
type GameDates interface {
	GameDate(canonicalID string) (time.Time, bool)
}

type BoxScoreRepository struct {
	mu      sync.RWMutex
	players map[string][]boxscore.PlayerGameStat
	teams   map[string][]boxscore.TeamGameStat
	dates   GameDates
}

func NewBoxScoreRepository(dates GameDates) *BoxScoreRepository {
	return &BoxScoreRepository{
		players: make(map[string][]boxscore.PlayerGameStat),
		teams:   make(map[string][]boxscore.TeamGameStat),
		dates:   dates,
	}
}

func (r *BoxScoreRepository) ReplaceGameStats(_ context.Context, gameID string, players []boxscore.PlayerGameStat, teams []boxscore.TeamGameStat) error {
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[gameID] = append([]boxscore.PlayerGameStat(nil), players...)
	r.teams[gameID] = append([]boxscore.TeamGameStat(nil), teams...)
	return nil
}

func (r *BoxScoreRepository) ListPlayerStats(_ context.Context, gameIDs []string) ([]boxscore.PlayerGameStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boxscore.PlayerGameStat, 0)
	for _, id := range gameIDs {
		out = append(out, r.players[id]...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *BoxScoreRepository) ListTeamStats(_ context.Context, gameID string) ([]boxscore.TeamGameStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]boxscore.TeamGameStat(nil), r.teams[gameID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsHome != out[j].IsHome {
			return out[i].IsHome
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (r *BoxScoreRepository) HasPlayerStats(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rows := range r.players {
		if len(rows) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *BoxScoreRepository) RecentPlayerIDs(_ context.Context, teamIDs []string, since time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		teams[id] = struct{}{}
	}
	since = game.ETDate(since)

	seen := make(map[string]struct{})
	for gameID, rows := range r.players {
		if r.dates != nil {
			date, ok := r.dates.GameDate(gameID)
			if !ok || date.Before(since) {
				continue
			}
		}
		for _, row := range rows {
			if _, ok := teams[row.TeamID]; ok {
				seen[row.PlayerID] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
