package identity

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

var ErrNotFound = errors.New("identity not found")

type Outcome string

const (
	OutcomeNotFound  Outcome = "not_found"
	OutcomeFound     Outcome = "found"
	OutcomeAmbiguous Outcome = "ambiguous"
)

type Candidate struct {
	PlayerID string
	Name     string
	TeamID   string
}

// Result is the outcome of one strategy or of the whole chain. Strategy
// names the strategy that produced it.
type Result struct {
	Outcome      Outcome
	PlayerID     string
	Candidates   []Candidate
	Strategy     string
	LowPrecision bool
}

func (r Result) Found() bool {
	return r.Outcome == OutcomeFound
}

// Decided is true for Found and Ambiguous, both of which stop the chain.
func (r Result) Decided() bool {
	return r.Outcome == OutcomeFound || r.Outcome == OutcomeAmbiguous
}

func NotFound() Result {
	return Result{Outcome: OutcomeNotFound}
}

// Query describes one player reference from a provider stat line.
type Query struct {
	Name           string
	TeamID         string
	OpponentTeamID string
	Provider       game.Provider
	ProviderRef    string
	GameDate       time.Time
}

type EntityType string

const (
	EntityTeam   EntityType = "team"
	EntityPlayer EntityType = "player"
)

// Mapping pins a provider identifier to an internal id. Manual overrides
// from resolve-player are stored the same way.
type Mapping struct {
	EntityType EntityType
	Provider   game.Provider
	ProviderID string
	InternalID string
	Metadata   map[string]string
	UpdatedAt  time.Time
}

type MappingRepository interface {
	// GetMapping returns ErrNotFound when nothing is mapped.
	GetMapping(ctx context.Context, entity EntityType, provider game.Provider, providerID string) (Mapping, error)
	ListMappings(ctx context.Context, entity EntityType) ([]Mapping, error)
	UpsertMappings(ctx context.Context, mappings []Mapping) error
}

type IssueStatus string

const (
	IssueAmbiguous IssueStatus = "ambiguous"
	IssueNotFound  IssueStatus = "not_found"
)

// Issue is an unresolved player reference waiting for an operator.
type Issue struct {
	Provider         game.Provider
	ProviderRef      string
	PlayerName       string
	TeamID           string
	GameID           string
	Status           IssueStatus
	Candidates       []string
	CreatedAt        time.Time
	ResolvedPlayerID string
	ResolvedAt       *time.Time
}

func (i Issue) Resolved() bool {
	return i.ResolvedAt != nil
}

// IssueFromResult converts a non-found resolution into an issue row.
func IssueFromResult(q Query, gameID string, res Result, at time.Time) Issue {
	status := IssueNotFound
	if res.Outcome == OutcomeAmbiguous {
		status = IssueAmbiguous
	}
	candidates := make([]string, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		candidates = append(candidates, c.PlayerID)
	}
	return Issue{
		Provider:    q.Provider,
		ProviderRef: q.ProviderRef,
		PlayerName:  q.Name,
		TeamID:      q.TeamID,
		GameID:      gameID,
		Status:      status,
		Candidates:  candidates,
		CreatedAt:   at.UTC(),
	}
}

type IssueRepository interface {
	// UpsertIssues keys on (provider, provider_ref, game_id).
	UpsertIssues(ctx context.Context, issues []Issue) error
	// ListOpen pages through unresolved issues, oldest first.
	ListOpen(ctx context.Context, limit, offset int) ([]Issue, error)
	// MarkResolved closes every open issue for the provider reference raised
	// at or before at.
	MarkResolved(ctx context.Context, provider game.Provider, providerRef, playerID string, at time.Time) (int, error)
}
