package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/validation"
)

func TestListResultsQuery(t *testing.T) {
	cases := []struct {
		name     string
		filter   validation.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "exclude pass",
			filter:   validation.Filter{GameIDs: []string{"g1", "g2"}, ExcludeStatus: validation.StatusPass},
			wantSQL:  "SELECT * FROM validation_results WHERE game_id IN ($1, $2) AND status <> $3 ORDER BY validated_at DESC, game_id, check_name",
			wantArgs: []any{"g1", "g2", "pass"},
		},
		{
			name:     "status wins over exclude",
			filter:   validation.Filter{CheckName: validation.CheckMinutesSanity, Status: validation.StatusWarn, ExcludeStatus: validation.StatusPass, Limit: 5},
			wantSQL:  "SELECT * FROM validation_results WHERE check_name = $1 AND status = $2 ORDER BY validated_at DESC, game_id, check_name LIMIT 5",
			wantArgs: []any{validation.CheckMinutesSanity, "warn"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args, err := listResultsQuery(tc.filter)
			if err != nil {
				t.Fatalf("build query: %v", err)
			}
			if sql != tc.wantSQL {
				t.Fatalf("unexpected sql:\n got=%s\nwant=%s", sql, tc.wantSQL)
			}
			if len(args) != len(tc.wantArgs) {
				t.Fatalf("unexpected args: got=%v want=%v", args, tc.wantArgs)
			}
			for i := range args {
				if args[i] != tc.wantArgs[i] {
					t.Fatalf("unexpected arg %d: got=%v want=%v", i, args[i], tc.wantArgs[i])
				}
			}
		})
	}
}

func TestRecentPlayerIDsQuery(t *testing.T) {
	sql, args, err := recentPlayerIDsQuery([]string{"DET", "DAL"}, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	want := "SELECT pgs.player_id FROM player_game_stats pgs JOIN canonical_games cg ON cg.canonical_id = pgs.game_id " +
		"WHERE pgs.team_id IN ($1, $2) AND cg.game_date >= $3 AND cg.merged_into IS NULL GROUP BY pgs.player_id ORDER BY pgs.player_id"
	if sql != want {
		t.Fatalf("unexpected sql:\n got=%s\nwant=%s", sql, want)
	}
	if len(args) != 3 || args[2] != "2025-10-15" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestMarkResolvedQuery(t *testing.T) {
	at := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	sql, args, err := markResolvedQuery(game.ProviderBBRef, " thompau01 ", "p-ausar", at)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	want := "UPDATE identity_issues SET resolved_player_id = $1, resolved_at = $2 " +
		"WHERE provider = $3 AND provider_ref = $4 AND resolved_at IS NULL AND created_at <= $5"
	if sql != want {
		t.Fatalf("unexpected sql:\n got=%s\nwant=%s", sql, want)
	}
	if len(args) != 5 || args[3] != "thompau01" || args[4] != at {
		t.Fatalf("unexpected args: %v", args)
	}
}
