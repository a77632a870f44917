package id

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for rows that have no natural key.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate random uuid: %w", err)
	}
	return id.String(), nil
}

var (
	canonicalGameNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hoops-reconciler/canonical-game"))
	playerNamespace        = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hoops-reconciler/player"))
)

// CanonicalGameID derives a stable id from the ET date and the unordered
// team pair, so the same matchup on the same day always hashes identically.
func CanonicalGameID(date time.Time, teamA, teamB string) string {
	pair := []string{strings.ToUpper(strings.TrimSpace(teamA)), strings.ToUpper(strings.TrimSpace(teamB))}
	sort.Strings(pair)
	name := date.Format("2006-01-02") + "|" + pair[0] + "|" + pair[1]
	return uuid.NewSHA1(canonicalGameNamespace, []byte(name)).String()
}

// SplitCanonicalGameID derives the id for a group that shares its date and
// team pair with another group. anchorRef is the group's smallest source ref;
// attempt is bumped only when an earlier derivation is already taken.
func SplitCanonicalGameID(date time.Time, teamA, teamB, anchorRef string, attempt int) string {
	pair := []string{strings.ToUpper(strings.TrimSpace(teamA)), strings.ToUpper(strings.TrimSpace(teamB))}
	sort.Strings(pair)
	name := date.Format("2006-01-02") + "|" + pair[0] + "|" + pair[1] + "|" + strings.TrimSpace(anchorRef)
	if attempt > 0 {
		name += "|" + strconv.Itoa(attempt)
	}
	return uuid.NewSHA1(canonicalGameNamespace, []byte(name)).String()
}

// PlayerID derives the internal id for a player first seen through a provider.
func PlayerID(provider, providerPlayerID string) string {
	name := strings.ToLower(strings.TrimSpace(provider)) + ":" + strings.TrimSpace(providerPlayerID)
	return uuid.NewSHA1(playerNamespace, []byte(name)).String()
}
