package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("player_id", "player_name").
		From("players").
		Where(Eq("player_name", "Jayson Tatum"), Eq("team_id", int64(3))).
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT player_id, player_name FROM players WHERE player_name = $1 AND team_id = $2 LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Jayson Tatum" || args[1] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("team_id").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("team_name", "team_abbreviation").
		Values("Boston Celtics", "BOS").
		Suffix("RETURNING team_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (team_name, team_abbreviation) VALUES ($1, $2) RETURNING team_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Boston Celtics" || args[1] != "BOS" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_ValueCountMismatch(t *testing.T) {
	if _, _, err := InsertInto("teams").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

type statRow struct {
	ID         int64   `db:"stat_id,readonly"`
	PlayerID   int64   `db:"player_id"`
	SeasonYear string  `db:"season_year"`
	AvgPoints  float64 `db:"avg_points"`
	internal   string
	Ignored    string `db:"-"`
}

func TestInsertModel(t *testing.T) {
	query, args, err := InsertModel("playoff_stats", statRow{ID: 9, PlayerID: 7, SeasonYear: "2024-25", AvgPoints: 26.9, internal: "x"}, "ON CONFLICT (player_id, season_year) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}

	wantQuery := "INSERT INTO playoff_stats (player_id, season_year, avg_points) VALUES ($1, $2, $3) ON CONFLICT (player_id, season_year) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(7) || args[1] != "2024-25" || args[2] != 26.9 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_Errors(t *testing.T) {
	if _, _, err := InsertModel("playoff_stats", 3, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var nilRow *statRow
	if _, _, err := InsertModel("playoff_stats", nilRow, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
	type keyOnly struct {
		ID int64 `db:"stat_id,readonly"`
	}
	if _, _, err := InsertModel("playoff_stats", keyOnly{}, ""); err == nil {
		t.Fatalf("expected error for model without writable columns")
	}
}
