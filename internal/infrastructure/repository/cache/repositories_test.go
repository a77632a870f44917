package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	"github.com/riskibarqy/hoops-reconciler/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/hoops-reconciler/internal/platform/cache"
)

type countingPlayers struct {
	*memory.PlayerRepository
	listAllCalls int
}

func (c *countingPlayers) ListAll(ctx context.Context) ([]player.Player, error) {
	c.listAllCalls++
	return c.PlayerRepository.ListAll(ctx)
}

func TestPlayerRepository_CachesUntilUpsert(t *testing.T) {
	ctx := context.Background()
	next := &countingPlayers{PlayerRepository: memory.NewPlayerRepository([]player.Player{
		{ID: "p1", FirstName: "Cade", LastName: "Cunningham", TeamID: "DET", Active: true},
	})}
	repo := NewPlayerRepository(next, basecache.NewStore[[]player.Player](time.Minute))

	for i := 0; i < 3; i++ {
		items, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("unexpected players: %+v", items)
		}
	}
	if next.listAllCalls != 1 {
		t.Fatalf("expected one backend call, got %d", next.listAllCalls)
	}

	if err := repo.UpsertPlayers(ctx, []player.Player{{ID: "p2", FirstName: "Jalen", LastName: "Duren", TeamID: "DET", Active: true}}); err != nil {
		t.Fatalf("upsert players: %v", err)
	}
	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(items) != 2 || next.listAllCalls != 2 {
		t.Fatalf("expected reload after upsert, got %d players and %d calls", len(items), next.listAllCalls)
	}
}
