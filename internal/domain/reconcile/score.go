package reconcile

import (
	"strings"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

// Weights control representative selection only; they never affect which
// records are grouped together.
type Weights struct {
	FinalScored      int
	Final            int
	Timed            int
	ProviderPriority int
	NumericID        int
}

func DefaultWeights() Weights {
	return Weights{
		FinalScored:      40,
		Final:            20,
		Timed:            10,
		ProviderPriority: 5,
		NumericID:        5,
	}
}

// Score rates one record as a candidate representative.
func Score(r game.SourceRecord, w Weights) int {
	score := 0
	if r.Status.IsFinal() && r.HasScores() {
		score += w.FinalScored
	}
	if r.Status.IsFinal() {
		score += w.Final
	}
	if r.HasRealStartTime() {
		score += w.Timed
	}
	score += r.Provider.Priority() * w.ProviderPriority
	if isNumeric(r.ProviderGameID) {
		score += w.NumericID
	}
	return score
}

// PickWinner returns the highest scoring member. Ties go to the higher
// priority provider, then the smallest provider game id.
func PickWinner(members []Candidate, w Weights) (Candidate, int) {
	var (
		best      Candidate
		bestScore int
	)
	for i, c := range members {
		score := Score(c.Record, w)
		if i == 0 || beats(c, score, best, bestScore) {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

func beats(c Candidate, score int, best Candidate, bestScore int) bool {
	if score != bestScore {
		return score > bestScore
	}
	if pc, pb := c.Record.Provider.Priority(), best.Record.Provider.Priority(); pc != pb {
		return pc > pb
	}
	if c.Record.ProviderGameID != best.Record.ProviderGameID {
		return c.Record.ProviderGameID < best.Record.ProviderGameID
	}
	return c.Record.Provider < best.Record.Provider
}

// Quality is the ordered tuple used to flag lower-quality winners.
type Quality struct {
	FinalScored bool
	Final       bool
	Timed       bool
}

func QualityOf(r game.SourceRecord) Quality {
	return Quality{
		FinalScored: r.Status.IsFinal() && r.HasScores(),
		Final:       r.Status.IsFinal(),
		Timed:       r.HasRealStartTime(),
	}
}

// Better compares lexicographically.
func (q Quality) Better(other Quality) bool {
	if q.FinalScored != other.FinalScored {
		return q.FinalScored
	}
	if q.Final != other.Final {
		return q.Final
	}
	return q.Timed && !other.Timed
}

func isNumeric(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
