package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
	qb "github.com/riskibarqy/playoff-stats/internal/platform/querybuilder"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select team: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation teams does not exist")) {
		t.Fatalf("expected unrelated error not to be not found")
	}
}

func TestStatsTable(t *testing.T) {
	cases := map[seasonstats.Context]string{
		seasonstats.ContextRegular: "regular_season_stats",
		seasonstats.ContextPlayoff: "playoff_stats",
	}
	for contextType, want := range cases {
		got, err := statsTable(contextType)
		if err != nil {
			t.Fatalf("statsTable(%s): %v", contextType, err)
		}
		if got != want {
			t.Fatalf("statsTable(%s) = %s, want %s", contextType, got, want)
		}
	}

	if _, err := statsTable("preseason"); err == nil {
		t.Fatalf("expected error for unknown context")
	}
}

func TestSeasonStatsInsertQuery(t *testing.T) {
	record := seasonstats.Record{
		PlayerID: 42,
		Season:   "2024-25",
		Context:  seasonstats.ContextPlayoff,
		Line:     seasonstats.Line{Points: 26.9, Assists: 5.1, Blocks: 0},
	}

	query, args, err := qb.InsertModel("playoff_stats", seasonStatsModelFromRecord(record), "ON CONFLICT (player_id, season_year) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	wantQuery := "INSERT INTO playoff_stats (player_id, season_year, avg_points, avg_assists, avg_offensive_rebounds, avg_defensive_rebounds, avg_steals, avg_blocks) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (player_id, season_year) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 8 || args[0] != int64(42) || args[1] != "2024-25" || args[2] != 26.9 || args[7] != 0.0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestTeamAndPlayerInsertQueries(t *testing.T) {
	query, args, err := qb.InsertModel("teams", teamTableModel{ID: 99, Name: "Boston Celtics", Abbreviation: "BOS", IsPlayoffTeam: true}, "ON CONFLICT (team_abbreviation) DO NOTHING RETURNING team_id")
	if err != nil {
		t.Fatalf("build team insert: %v", err)
	}
	if query != "INSERT INTO teams (team_name, team_abbreviation, is_playoff_team) VALUES ($1, $2, $3) ON CONFLICT (team_abbreviation) DO NOTHING RETURNING team_id" {
		t.Fatalf("unexpected team insert: %s", query)
	}
	if len(args) != 3 || args[2] != true {
		t.Fatalf("unexpected team args: %+v", args)
	}

	query, args, err = qb.InsertModel("players", playerTableModel{Name: "Jayson Tatum", Position: "", TeamID: 3}, "ON CONFLICT (player_name, team_id) DO NOTHING RETURNING player_id")
	if err != nil {
		t.Fatalf("build player insert: %v", err)
	}
	if query != "INSERT INTO players (player_name, position, team_id) VALUES ($1, $2, $3) ON CONFLICT (player_name, team_id) DO NOTHING RETURNING player_id" {
		t.Fatalf("unexpected player insert: %s", query)
	}
	if args[1] != "" {
		t.Fatalf("expected empty position to be stored as empty text, got %#v", args[1])
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
