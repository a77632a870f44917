package identity

import (
	"context"
	"sort"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
)

// Strategy is one independent resolution attempt.
type Strategy struct {
	Name    string
	Resolve func(ctx context.Context, q Query) (Result, error)
}

// FirstMatch runs strategies in order and stops at the first Found or
// Ambiguous result.
func FirstMatch(ctx context.Context, q Query, strategies ...Strategy) (Result, error) {
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		res, err := s.Resolve(ctx, q)
		if err != nil {
			return Result{}, err
		}
		if res.Decided() {
			res.Strategy = s.Name
			return res, nil
		}
	}
	return NotFound(), nil
}

// KeyFunc reduces a display name to a comparison key. An empty key never
// matches.
type KeyFunc func(name string) string

type matcher struct {
	name         string
	key          KeyFunc
	lowPrecision bool
}

var nameMatchers = []matcher{
	{name: "exact", key: ExactKey},
	{name: "suffix", key: SuffixKey},
	{name: "normalized", key: NormalizedKey},
	{name: "first_last", key: FirstLastKey},
	{name: "last_name", key: LastNameKey, lowPrecision: true},
}

// MatchPool matches a name against a pool of players with one key function.
func MatchPool(pool []player.Player, name string, key KeyFunc) Result {
	want := key(name)
	if want == "" {
		return NotFound()
	}

	seen := make(map[string]struct{})
	var hits []Candidate
	for _, p := range pool {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		if key(p.FullName()) != want {
			continue
		}
		seen[p.ID] = struct{}{}
		hits = append(hits, Candidate{PlayerID: p.ID, Name: p.FullName(), TeamID: p.TeamID})
	}

	switch len(hits) {
	case 0:
		return NotFound()
	case 1:
		return Result{Outcome: OutcomeFound, PlayerID: hits[0].PlayerID, Candidates: hits}
	default:
		sort.Slice(hits, func(i, j int) bool { return hits[i].PlayerID < hits[j].PlayerID })
		return Result{Outcome: OutcomeAmbiguous, Candidates: hits}
	}
}

// PoolFunc loads the players a group of strategies matches against.
type PoolFunc func(ctx context.Context, q Query) ([]player.Player, error)

// NameStrategies builds the name matchers for one pool, most precise first.
func NameStrategies(prefix string, pool PoolFunc) []Strategy {
	out := make([]Strategy, 0, len(nameMatchers))
	for _, m := range nameMatchers {
		out = append(out, Strategy{
			Name: prefix + ":" + m.name,
			Resolve: func(ctx context.Context, q Query) (Result, error) {
				players, err := pool(ctx, q)
				if err != nil {
					return Result{}, err
				}
				res := MatchPool(players, q.Name, m.key)
				res.LowPrecision = m.lowPrecision && res.Found()
				return res, nil
			},
		})
	}
	return out
}
