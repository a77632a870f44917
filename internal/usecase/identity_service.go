package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/team"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/cache"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/capability"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/id"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

// TeamResolver maps a provider team reference to an internal team id.
type TeamResolver interface {
	ResolveTeam(ctx context.Context, provider game.Provider, ref string) (string, error)
}

type IdentityServiceConfig struct {
	RecentWindow time.Duration
	TeamCacheTTL time.Duration
}

type IdentityService struct {
	teams     team.Repository
	players   player.Repository
	mappings  identity.MappingRepository
	issues    identity.IssueRepository
	stats     boxscore.Repository
	resolver  *identity.Resolver
	teamIndex *cache.Store[teamIndex]
	logger    *logging.Logger
	now       func() time.Time
}

func NewIdentityService(
	teams team.Repository,
	players player.Repository,
	mappings identity.MappingRepository,
	issues identity.IssueRepository,
	stats boxscore.Repository,
	recentStats *capability.Flag,
	cfg IdentityServiceConfig,
	logger *logging.Logger,
) *IdentityService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TeamCacheTTL <= 0 {
		cfg.TeamCacheTTL = 10 * time.Minute
	}

	s := &IdentityService{
		teams:     teams,
		players:   players,
		mappings:  mappings,
		issues:    issues,
		stats:     stats,
		teamIndex: cache.NewStore[teamIndex](cfg.TeamCacheTTL),
		logger:    logger.Named("identity"),
		now:       time.Now,
	}
	s.resolver = identity.NewResolver(identityDirectory{svc: s}, recentStats, cfg.RecentWindow)
	return s
}

// teamIndex answers team lookups by provider id and by every known name.
type teamIndex struct {
	byProvider map[string]string
	byName     map[string]string
}

const teamIndexKey = "teams"

func (s *IdentityService) loadTeamIndex(ctx context.Context) (teamIndex, error) {
	return s.teamIndex.GetOrLoad(ctx, teamIndexKey, func(ctx context.Context) (teamIndex, error) {
		items, err := s.teams.List(ctx)
		if err != nil {
			return teamIndex{}, fmt.Errorf("list teams: %w", err)
		}
		idx := teamIndex{
			byProvider: make(map[string]string, len(items)*4),
			byName:     make(map[string]string, len(items)*4),
		}
		for _, item := range items {
			for provider, providerID := range item.ProviderIDs {
				idx.byProvider[providerKey(game.NormalizeProvider(provider), providerID)] = item.ID
			}
			for _, name := range item.Names() {
				if name == "" {
					continue
				}
				if _, taken := idx.byName[name]; !taken {
					idx.byName[name] = item.ID
				}
			}
		}
		return idx, nil
	})
}

func providerKey(provider game.Provider, ref string) string {
	return string(provider) + "|" + strings.ToUpper(strings.TrimSpace(ref))
}

// ResolveTeam tries the provider mapping table, then the catalog's provider
// ids, then abbreviation, full name, nickname and aliases.
func (s *IdentityService) ResolveTeam(ctx context.Context, provider game.Provider, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty team reference", identity.ErrNotFound)
	}

	mapping, err := s.mappings.GetMapping(ctx, identity.EntityTeam, provider, ref)
	switch {
	case err == nil:
		return mapping.InternalID, nil
	case !errors.Is(err, identity.ErrNotFound):
		return "", fmt.Errorf("lookup team mapping: %w", err)
	}

	idx, err := s.loadTeamIndex(ctx)
	if err != nil {
		return "", err
	}
	if teamID, ok := idx.byProvider[providerKey(provider, ref)]; ok {
		return teamID, nil
	}
	name := strings.ToUpper(strings.Join(strings.Fields(ref), " "))
	if teamID, ok := idx.byName[name]; ok {
		return teamID, nil
	}
	return "", fmt.Errorf("%w: team %s:%s", identity.ErrNotFound, provider, ref)
}

// ResolvePlayer runs the strategy chain. Ambiguous and not-found results are
// returned as results, not errors.
func (s *IdentityService) ResolvePlayer(ctx context.Context, q identity.Query) (identity.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.ResolvePlayer")
	defer span.End()

	res, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		return identity.Result{}, fmt.Errorf("resolve player %q: %w", q.Name, err)
	}
	if res.LowPrecision && res.Found() {
		s.logger.DebugContext(ctx, "player resolved by low precision strategy",
			"provider", q.Provider,
			"provider_ref", q.ProviderRef,
			"name", q.Name,
			"strategy", res.Strategy,
			"player_id", res.PlayerID,
		)
	}
	return res, nil
}

// RecordIssues persists unresolved identities for operators.
func (s *IdentityService) RecordIssues(ctx context.Context, issues []identity.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	if err := s.issues.UpsertIssues(ctx, issues); err != nil {
		return fmt.Errorf("upsert identity issues: %w", err)
	}
	return nil
}

type ResolveIssueInput struct {
	Provider    string `validate:"required"`
	ProviderRef string `validate:"required"`
	PlayerID    string `validate:"required"`
}

// ResolveIssue pins a provider player reference to an internal player and
// closes every open issue for that reference. The next link pass picks the
// mapping up through the first strategy.
func (s *IdentityService) ResolveIssue(ctx context.Context, input ResolveIssueInput) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.ResolveIssue")
	defer span.End()

	provider := game.NormalizeProvider(input.Provider)
	ref := strings.TrimSpace(input.ProviderRef)
	playerID := strings.TrimSpace(input.PlayerID)
	if provider == "" || ref == "" || playerID == "" {
		return 0, fmt.Errorf("%w: provider, ref and player are required", ErrInvalidInput)
	}

	found, err := s.players.GetByIDs(ctx, []string{playerID})
	if err != nil {
		return 0, fmt.Errorf("load player %s: %w", playerID, err)
	}
	if len(found) == 0 {
		return 0, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	now := s.now().UTC()
	if err := s.mappings.UpsertMappings(ctx, []identity.Mapping{{
		EntityType: identity.EntityPlayer,
		Provider:   provider,
		ProviderID: ref,
		InternalID: playerID,
		Metadata:   map[string]string{"source": "manual"},
		UpdatedAt:  now,
	}}); err != nil {
		return 0, fmt.Errorf("upsert manual player mapping: %w", err)
	}

	closed, err := s.issues.MarkResolved(ctx, provider, ref, playerID, now)
	if err != nil {
		return 0, fmt.Errorf("mark identity issues resolved: %w", err)
	}
	s.logger.InfoContext(ctx, "player reference pinned",
		"provider", provider,
		"provider_ref", ref,
		"player_id", playerID,
		"issues_closed", closed,
	)
	return closed, nil
}

type RosterSummary struct {
	Upserted   int              `json:"upserted"`
	Rejections []game.Rejection `json:"rejections,omitempty"`
}

// UpsertRoster stores provider roster entries as players and maps each
// provider id onto the internal player id.
func (s *IdentityService) UpsertRoster(ctx context.Context, provider game.Provider, items []ExternalPlayer) (RosterSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.UpsertRoster")
	defer span.End()

	summary := RosterSummary{}
	now := s.now().UTC()
	players := make([]player.Player, 0, len(items))
	mappings := make([]identity.Mapping, 0, len(items))
	for _, item := range items {
		ref := strings.TrimSpace(item.ProviderPlayerID)
		if ref == "" {
			summary.Rejections = append(summary.Rejections, game.Rejection{Provider: provider, Reason: "player id is missing"})
			continue
		}

		teamID := ""
		if strings.TrimSpace(item.TeamRef) != "" {
			resolved, err := s.ResolveTeam(ctx, provider, item.TeamRef)
			if err != nil && !errors.Is(err, identity.ErrNotFound) {
				return RosterSummary{}, err
			}
			teamID = resolved
		}

		playerID := id.PlayerID(string(provider), ref)
		mapped := false
		existing, err := s.mappings.GetMapping(ctx, identity.EntityPlayer, provider, ref)
		switch {
		case err == nil:
			playerID = existing.InternalID
			mapped = true
		case !errors.Is(err, identity.ErrNotFound):
			return RosterSummary{}, fmt.Errorf("lookup player mapping: %w", err)
		}

		p := player.Player{
			ID:        playerID,
			FirstName: strings.TrimSpace(item.FirstName),
			LastName:  strings.TrimSpace(item.LastName),
			TeamID:    teamID,
			Active:    item.Active && teamID != "",
		}
		if err := p.Validate(); err != nil {
			summary.Rejections = append(summary.Rejections, game.Rejection{Provider: provider, RawID: ref, Reason: err.Error()})
			continue
		}
		players = append(players, p)
		if mapped {
			continue
		}
		mappings = append(mappings, identity.Mapping{
			EntityType: identity.EntityPlayer,
			Provider:   provider,
			ProviderID: ref,
			InternalID: playerID,
			Metadata:   map[string]string{"source": "roster"},
			UpdatedAt:  now,
		})
	}

	if err := s.players.UpsertPlayers(ctx, players); err != nil {
		return RosterSummary{}, fmt.Errorf("upsert players: %w", err)
	}
	if err := s.mappings.UpsertMappings(ctx, mappings); err != nil {
		return RosterSummary{}, fmt.Errorf("upsert player mappings: %w", err)
	}
	summary.Upserted = len(players)
	return summary, nil
}

// SeedTeams loads the embedded catalog and drops the cached team index.
func (s *IdentityService) SeedTeams(ctx context.Context) (int, error) {
	items, err := team.Catalog()
	if err != nil {
		return 0, err
	}
	if err := s.teams.UpsertTeams(ctx, items); err != nil {
		return 0, fmt.Errorf("upsert teams: %w", err)
	}
	s.teamIndex.Delete(ctx, teamIndexKey)
	return len(items), nil
}

// identityDirectory adapts repositories to identity.Directory.
type identityDirectory struct {
	svc *IdentityService
}

func (d identityDirectory) PlayerMapping(ctx context.Context, provider game.Provider, providerRef string) (string, error) {
	mapping, err := d.svc.mappings.GetMapping(ctx, identity.EntityPlayer, provider, providerRef)
	if err != nil {
		return "", err
	}
	return mapping.InternalID, nil
}

func (d identityDirectory) TeamRoster(ctx context.Context, teamID string) ([]player.Player, error) {
	return d.svc.players.ListByTeam(ctx, teamID)
}

func (d identityDirectory) AllPlayers(ctx context.Context) ([]player.Player, error) {
	return d.svc.players.ListAll(ctx)
}

func (d identityDirectory) RecentStatPlayers(ctx context.Context, teamIDs []string, since time.Time) ([]player.Player, error) {
	ids, err := d.svc.stats.RecentPlayerIDs(ctx, teamIDs, since)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return d.svc.players.GetByIDs(ctx, ids)
}
