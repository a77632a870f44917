package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("canonical_id", "status").
		From("canonical_games").
		Where(Eq("home_team_id", "DAL"), IsNull("merged_into")).
		OrderBy("game_date", "canonical_id").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT canonical_id, status FROM canonical_games WHERE home_team_id = $1 AND merged_into IS NULL ORDER BY game_date, canonical_id LIMIT 10 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "DAL" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RangeAndOr(t *testing.T) {
	from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	query, args, err := Select("*").
		From("canonical_games").
		Where(
			Gte("game_date", from),
			Lte("game_date", to),
			Or(Eq("home_team_id", "DET"), Eq("away_team_id", "DET")),
			Expr("NOT EXISTS (SELECT 1 FROM validation_results vr WHERE vr.game_id = canonical_id)"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM canonical_games WHERE game_date >= $1 AND game_date <= $2 AND (home_team_id = $3 OR away_team_id = $4) AND NOT EXISTS (SELECT 1 FROM validation_results vr WHERE vr.game_id = canonical_id)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "DET" || args[3] != "DET" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_BetweenAndEmptyIn(t *testing.T) {
	query, args, err := Select("id").
		From("game_source_records").
		Where(Between("game_date", "2025-11-01", "2025-11-03"), In("provider", nil), Lte("home_score", 0), NotEq("status", "Final")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM game_source_records WHERE game_date BETWEEN $1 AND $2 AND 1=0 AND home_score <= $3 AND status <> $4"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("team_id", "abbreviation").
		Values("DAL", "DAL").
		Suffix("ON CONFLICT (team_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (team_id, abbreviation) VALUES ($1, $2) ON CONFLICT (team_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "DAL" || args[1] != "DAL" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("identity_issues").
		Set("resolved_player_id", "p-1").
		Set("resolved_at", "2025-11-02T09:00:00Z").
		Where(Eq("provider", "nba"), Eq("provider_ref", "1629029"), IsNull("resolved_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE identity_issues SET resolved_player_id = $1, resolved_at = $2 WHERE provider = $3 AND provider_ref = $4 AND resolved_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "p-1" || args[3] != "1629029" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		GameID  string `db:"game_id"`
		Check   string `db:"check_name"`
		skipped string
		Ignored string `db:"-"`
	}

	query, args, err := InsertModels("validation_results", []row{
		{GameID: "g1", Check: "points_formula"},
		{GameID: "g1", Check: "shooting_math"},
	}, "ON CONFLICT (game_id, check_name) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO validation_results (game_id, check_name) VALUES ($1, $2), ($3, $4) ON CONFLICT (game_id, check_name) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "shooting_math" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("validation_results", nil, ""); err == nil {
		t.Fatalf("expected error for empty model list")
	}
}
