package reconcile

import (
	"sort"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/id"
)

// Assignment is the canonical id decision for one group of a run.
type Assignment struct {
	CanonicalID string
	// Merged are linked ids owned by this group besides CanonicalID. Their
	// rows are folded into CanonicalID.
	Merged []string
	// Lost are linked ids that went to another group of the same run.
	Lost []string
}

// Split reports whether the group gave up a linked id to another group.
func (a Assignment) Split() bool {
	return len(a.Lost) > 0
}

// LinkedIDs returns the distinct canonical ids already linked to members,
// sorted.
func (g Group) LinkedIDs(existing map[game.SourceRef]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range g.Members {
		cid := existing[m.Ref()]
		if cid == "" {
			continue
		}
		if _, dup := seen[cid]; dup {
			continue
		}
		seen[cid] = struct{}{}
		out = append(out, cid)
	}
	sort.Strings(out)
	return out
}

// FreshID is the deterministic id of a group with no usable link.
func (g Group) FreshID() string {
	return id.CanonicalGameID(g.Date(), g.Pair.A, g.Pair.B)
}

// ClaimLinkedIDs hands every linked id to exactly one group. When several
// groups of the run link to the same id, the group holding the stored
// chosen source keeps it; failing that, the group with the earliest member.
// Each group then takes its smallest owned id and merges the rest. Groups
// that own nothing come back with an empty CanonicalID for MintIDs.
//
// chosen maps stored canonical ids to their chosen source.
func ClaimLinkedIDs(groups []Group, existing map[game.SourceRef]string, chosen map[string]game.SourceRef) []Assignment {
	linked := make([][]string, len(groups))
	claims := make(map[string][]int)
	for i, g := range groups {
		linked[i] = g.LinkedIDs(existing)
		for _, cid := range linked[i] {
			claims[cid] = append(claims[cid], i)
		}
	}

	owner := make(map[string]int, len(claims))
	for cid, idx := range claims {
		source, stored := chosen[cid]
		owner[cid] = pickOwner(groups, idx, source, stored)
	}

	out := make([]Assignment, len(groups))
	for i := range groups {
		var owned []string
		for _, cid := range linked[i] {
			if owner[cid] == i {
				owned = append(owned, cid)
			} else {
				out[i].Lost = append(out[i].Lost, cid)
			}
		}
		if len(owned) > 0 {
			out[i].CanonicalID = owned[0]
			out[i].Merged = owned[1:]
		}
	}
	return out
}

// MintIDs gives every group still without an id a new one. The group's
// FreshID is used unless another group of the run holds it or a stored row
// already exists under it; then an id anchored on the group's smallest
// source ref is derived instead.
func MintIDs(groups []Group, assignments []Assignment, stored map[string]game.SourceRef) {
	taken := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		if a.CanonicalID != "" {
			taken[a.CanonicalID] = struct{}{}
		}
		for _, cid := range a.Merged {
			taken[cid] = struct{}{}
		}
	}
	free := func(cid string) bool {
		if _, ok := taken[cid]; ok {
			return false
		}
		_, exists := stored[cid]
		return !exists
	}

	for i, g := range groups {
		if assignments[i].CanonicalID != "" {
			continue
		}
		cid := g.FreshID()
		if !free(cid) {
			anchor := g.Refs()[0].String()
			for attempt := 0; ; attempt++ {
				cid = id.SplitCanonicalGameID(g.Date(), g.Pair.A, g.Pair.B, anchor, attempt)
				if free(cid) {
					break
				}
			}
		}
		assignments[i].CanonicalID = cid
		taken[cid] = struct{}{}
	}
}

func pickOwner(groups []Group, idx []int, chosen game.SourceRef, stored bool) int {
	if stored {
		for _, i := range idx {
			if groups[i].Contains(chosen) {
				return i
			}
		}
	}
	best := idx[0]
	for _, i := range idx[1:] {
		if groups[i].startsBefore(groups[best]) {
			best = i
		}
	}
	return best
}

// startsBefore orders groups by their earliest member start, then by the
// smallest source ref.
func (g Group) startsBefore(other Group) bool {
	a, b := g.earliestStart(), other.earliestStart()
	if !a.Equal(b) {
		return a.Before(b)
	}
	return g.Refs()[0].Less(other.Refs()[0])
}

func (g Group) earliestStart() time.Time {
	earliest := g.Members[0].Record.EffectiveStart()
	for _, m := range g.Members[1:] {
		if start := m.Record.EffectiveStart(); start.Before(earliest) {
			earliest = start
		}
	}
	return earliest
}

// Canonical builds the canonical row from the winner. Orientation, status,
// scores, venue and start time all come from the winner.
func (g Group) Canonical(canonicalID string, now time.Time) game.CanonicalGame {
	w := g.Winner
	out := game.CanonicalGame{
		ID:           canonicalID,
		Date:         game.ETDate(w.Record.Date),
		HomeTeamID:   w.HomeTeamID,
		AwayTeamID:   w.AwayTeamID,
		Status:       w.Record.Status,
		Venue:        w.Record.Venue,
		ChosenSource: w.Ref(),
		Sources:      g.Refs(),
		UpdatedAt:    now.UTC(),
	}
	out.StartTime = w.Record.ReportedStart()
	if w.Record.HomeScore != nil {
		out.HomeScore = game.IntPtr(*w.Record.HomeScore)
	}
	if w.Record.AwayScore != nil {
		out.AwayScore = game.IntPtr(*w.Record.AwayScore)
	}
	return out
}
