package cache

import (
	"context"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/team"
	basecache "github.com/riskibarqy/hoops-reconciler/internal/platform/cache"
)

// TeamRepository fronts the catalog. Teams change only on seeding, so every
// read after the first is served from memory.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store[[]team.Team]
}

func NewTeamRepository(next team.Repository, cache *basecache.Store[[]team.Team]) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	items, err := r.List(ctx)
	if err != nil {
		return team.Team{}, false, err
	}
	for _, item := range items {
		if item.ID == teamID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) UpsertTeams(ctx context.Context, items []team.Team) error {
	if err := r.next.UpsertTeams(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store[[]player.Player]
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store[[]player.Player]) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.load(ctx, "player:team:"+teamID, func(ctx context.Context) ([]player.Player, error) {
		return r.next.ListByTeam(ctx, teamID)
	})
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	return r.load(ctx, "player:all", r.next.ListAll)
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	return r.next.GetByIDs(ctx, playerIDs)
}

func (r *PlayerRepository) UpsertPlayers(ctx context.Context, items []player.Player) error {
	if err := r.next.UpsertPlayers(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) load(ctx context.Context, key string, loader func(context.Context) ([]player.Player, error)) ([]player.Player, error) {
	items, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]player.Player, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}
