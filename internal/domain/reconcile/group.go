// Package reconcile groups provider observations of the same game and picks
// the representative record for each group. It is pure: persistence and id
// lookups live in the usecase layer.
package reconcile

import (
	"sort"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

// Candidate is a source record whose team refs have been resolved to
// internal team ids.
type Candidate struct {
	Record     game.SourceRecord
	HomeTeamID string
	AwayTeamID string
}

func (c Candidate) Ref() game.SourceRef {
	return c.Record.Ref()
}

func (c Candidate) Pair() Pair {
	return NewPair(c.HomeTeamID, c.AwayTeamID)
}

// Pair is an unordered team pair, stored with A <= B.
type Pair struct {
	A string
	B string
}

func NewPair(teamA, teamB string) Pair {
	if teamB < teamA {
		teamA, teamB = teamB, teamA
	}
	return Pair{A: teamA, B: teamB}
}

func (p Pair) String() string {
	return p.A + "-" + p.B
}

type Options struct {
	MatchWindow time.Duration
	Weights     Weights
}

func DefaultOptions() Options {
	return Options{
		MatchWindow: 48 * time.Hour,
		Weights:     DefaultWeights(),
	}
}

// Group is one real-world game as observed by one or more providers.
type Group struct {
	Pair        Pair
	Members     []Candidate
	Winner      Candidate
	WinnerScore int
	// Swaps counts members whose home/away orientation differs from the
	// winner's.
	Swaps int
	// QualityFlag is set when some member has a strictly better quality
	// tuple than the winner.
	QualityFlag bool
}

// Build groups candidates that share an unordered team pair and whose
// effective start instants fall within MatchWindow of the group's earliest
// member. The boundary is inclusive. Groups come back ordered by date and
// team pair.
func Build(candidates []Candidate, opts Options) []Group {
	if opts.MatchWindow <= 0 {
		opts.MatchWindow = DefaultOptions().MatchWindow
	}

	buckets := make(map[Pair][]Candidate)
	for _, c := range dedupe(candidates) {
		buckets[c.Pair()] = append(buckets[c.Pair()], c)
	}

	groups := make([]Group, 0, len(buckets))
	for pair, members := range buckets {
		sortMembers(members)

		var current []Candidate
		var anchor time.Time
		for _, c := range members {
			start := c.Record.EffectiveStart()
			if len(current) > 0 && start.Sub(anchor) > opts.MatchWindow {
				groups = append(groups, newGroup(pair, current, opts.Weights))
				current = nil
			}
			if len(current) == 0 {
				anchor = start
			}
			current = append(current, c)
		}
		if len(current) > 0 {
			groups = append(groups, newGroup(pair, current, opts.Weights))
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if !a.Date().Equal(b.Date()) {
			return a.Date().Before(b.Date())
		}
		if a.Pair != b.Pair {
			if a.Pair.A != b.Pair.A {
				return a.Pair.A < b.Pair.A
			}
			return a.Pair.B < b.Pair.B
		}
		return a.Members[0].Record.EffectiveStart().Before(b.Members[0].Record.EffectiveStart())
	})
	return groups
}

func newGroup(pair Pair, members []Candidate, weights Weights) Group {
	winner, score := PickWinner(members, weights)
	g := Group{
		Pair:        pair,
		Members:     members,
		Winner:      winner,
		WinnerScore: score,
	}
	winnerQuality := QualityOf(winner.Record)
	for _, m := range members {
		if m.HomeTeamID != winner.HomeTeamID {
			g.Swaps++
		}
		if QualityOf(m.Record).Better(winnerQuality) {
			g.QualityFlag = true
		}
	}
	return g
}

// dedupe keeps the most recently ingested observation per source ref.
func dedupe(candidates []Candidate) []Candidate {
	latest := make(map[game.SourceRef]int, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if idx, ok := latest[c.Ref()]; ok {
			if c.Record.IngestedAt.After(out[idx].Record.IngestedAt) {
				out[idx] = c
			}
			continue
		}
		latest[c.Ref()] = len(out)
		out = append(out, c)
	}
	return out
}

func sortMembers(members []Candidate) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		as, bs := a.Record.EffectiveStart(), b.Record.EffectiveStart()
		if !as.Equal(bs) {
			return as.Before(bs)
		}
		if pa, pb := a.Record.Provider.Priority(), b.Record.Provider.Priority(); pa != pb {
			return pa > pb
		}
		return a.Ref().Less(b.Ref())
	})
}

// Date is the ET date of the earliest member.
func (g Group) Date() time.Time {
	earliest := g.Members[0].Record.Date
	for _, m := range g.Members[1:] {
		if m.Record.Date.Before(earliest) {
			earliest = m.Record.Date
		}
	}
	return game.ETDate(earliest)
}

func (g Group) Refs() []game.SourceRef {
	refs := make([]game.SourceRef, 0, len(g.Members))
	for _, m := range g.Members {
		refs = append(refs, m.Ref())
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

func (g Group) Singleton() bool {
	return len(g.Members) == 1
}

func (g Group) Contains(ref game.SourceRef) bool {
	for _, m := range g.Members {
		if m.Ref() == ref {
			return true
		}
	}
	return false
}
