package bbref

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

const testBaseURL = "https://www.basketball-reference.com"

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("parse fixture %s: %v", name, err)
	}
	return doc
}

func collectRoster(t *testing.T, doc *goquery.Document) ([]usecase.ExternalPlayer, bool) {
	t.Helper()
	seq, found := parseRoster(doc, testBaseURL)
	if !found {
		return nil, false
	}
	var out []usecase.ExternalPlayer
	for p := range seq {
		out = append(out, p)
	}
	return out, true
}

func TestParsePlayoffTeams_StarredTeamsOnly(t *testing.T) {
	t.Parallel()

	teams, found := parsePlayoffTeams(loadFixture(t, "standings_2025.html"), testBaseURL)
	if !found {
		t.Fatalf("expected standings tables to be found")
	}

	want := []usecase.ExternalTeam{
		{Name: "Cleveland Cavaliers", Abbreviation: "CLE", URL: testBaseURL + "/teams/CLE/2025.html"},
		{Name: "Boston Celtics", Abbreviation: "BOS", URL: testBaseURL + "/teams/BOS/2025.html"},
		{Name: "Oklahoma City Thunder", Abbreviation: "OKC", URL: testBaseURL + "/teams/OKC/2025.html"},
	}
	if diff := cmp.Diff(want, teams); diff != "" {
		t.Fatalf("playoff teams mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePlayoffTeams_MissingTables(t *testing.T) {
	t.Parallel()

	teams, found := parsePlayoffTeams(loadFixture(t, "team_no_tables.html"), testBaseURL)
	if found {
		t.Fatalf("expected no standings tables")
	}
	if len(teams) != 0 {
		t.Fatalf("expected no teams, got %d", len(teams))
	}
}

func TestParsePlayoffTeams_DuplicateAbbreviationKeptOnce(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<table id="confs_standings_E"><tbody>
<tr><th data-stat="team_name"><a href="/teams/BOS/2025.html">Boston Celtics</a>*</th></tr>
</tbody></table>
<table id="confs_standings_W"><tbody>
<tr><th data-stat="team_name"><a href="/teams/BOS/2025.html">Boston Celtics</a>*</th></tr>
<tr><th data-stat="team_name"><a href="/teams">Broken Link</a>*</th></tr>
</tbody></table>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}

	teams, found := parsePlayoffTeams(doc, testBaseURL)
	if !found {
		t.Fatalf("expected standings tables to be found")
	}
	if len(teams) != 1 || teams[0].Abbreviation != "BOS" {
		t.Fatalf("expected a single BOS entry, got %+v", teams)
	}
}

func TestAbbreviationFromHref(t *testing.T) {
	t.Parallel()

	cases := []struct {
		href string
		want string
		ok   bool
	}{
		{href: "/teams/BOS/2025.html", want: "BOS", ok: true},
		{href: "/teams/NYK/2025.html", want: "NYK", ok: true},
		{href: "/teams", ok: false},
		{href: "/teams//2025.html", ok: false},
	}
	for _, tc := range cases {
		got, ok := abbreviationFromHref(tc.href)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("abbreviationFromHref(%q) = (%q, %v), want (%q, %v)", tc.href, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseRoster_LinkedPlayersWithPosition(t *testing.T) {
	t.Parallel()

	players, found := collectRoster(t, loadFixture(t, "team_BOS_2025.html"))
	if !found {
		t.Fatalf("expected roster table to be found")
	}

	want := []usecase.ExternalPlayer{
		{Name: "Jayson Tatum", URL: testBaseURL + "/players/t/tatumja01.html", Position: "F"},
		{Name: "Jrue Holiday", URL: testBaseURL + "/players/h/holidjr01.html", Position: "G"},
		{Name: "Jaylen Brown", URL: testBaseURL + "/players/b/brownja02.html", Position: "G"},
	}
	if diff := cmp.Diff(want, players); diff != "" {
		t.Fatalf("roster mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRoster_MissingTable(t *testing.T) {
	t.Parallel()

	seq, found := parseRoster(loadFixture(t, "team_no_tables.html"), testBaseURL)
	if found || seq != nil {
		t.Fatalf("expected missing roster, got found=%v", found)
	}
}

func TestParseRoster_EmptyTableIsFound(t *testing.T) {
	t.Parallel()

	players, found := collectRoster(t, loadFixture(t, "team_empty_roster.html"))
	if !found {
		t.Fatalf("expected empty roster table to count as found")
	}
	if len(players) != 0 {
		t.Fatalf("expected no players, got %d", len(players))
	}
}

func TestParseRoster_SingleUse(t *testing.T) {
	t.Parallel()

	seq, found := parseRoster(loadFixture(t, "team_BOS_2025.html"), testBaseURL)
	if !found {
		t.Fatalf("expected roster table to be found")
	}

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != 3 || second != 0 {
		t.Fatalf("expected 3 players then none, got %d then %d", first, second)
	}
}

func TestParseRoster_StopsWhenConsumerBreaks(t *testing.T) {
	t.Parallel()

	seq, _ := parseRoster(loadFixture(t, "team_BOS_2025.html"), testBaseURL)
	var names []string
	for p := range seq {
		names = append(names, p.Name)
		break
	}
	if len(names) != 1 || names[0] != "Jayson Tatum" {
		t.Fatalf("unexpected names after break: %v", names)
	}
}

func TestParseTeamStats_RegularAndCommentedPlayoffTables(t *testing.T) {
	t.Parallel()

	stats, bad := parseTeamStats(loadFixture(t, "team_BOS_2025.html"))
	if len(bad) != 0 {
		t.Fatalf("expected no bad cells, got %+v", bad)
	}

	wantRegular := map[string]seasonstats.Line{
		"Jayson Tatum": {Points: 26.8, Assists: 6.0, OffensiveRebounds: 0.7, DefensiveRebounds: 8.0, Steals: 1.1, Blocks: 0.5},
		"Jrue Holiday": {Points: 11.1, Assists: 4.3, OffensiveRebounds: 0.9, DefensiveRebounds: 3.4, Steals: 0.9},
		"Traded Guy":   {Points: 2.0},
	}
	if diff := cmp.Diff(wantRegular, stats.Regular); diff != "" {
		t.Fatalf("regular stats mismatch (-want +got):\n%s", diff)
	}

	wantPlayoff := map[string]seasonstats.Line{
		"Jayson Tatum": {Points: 28.1, Assists: 5.4, OffensiveRebounds: 1.0, DefensiveRebounds: 9.8, Steals: 1.6, Blocks: 1.0},
	}
	if diff := cmp.Diff(wantPlayoff, stats.Playoff); diff != "" {
		t.Fatalf("playoff stats mismatch (-want +got):\n%s", diff)
	}
	if stats.Collisions != 0 {
		t.Fatalf("expected no collisions, got %d", stats.Collisions)
	}
}

func TestParseTeamStats_MissingPlayoffTableAndBadCells(t *testing.T) {
	t.Parallel()

	stats, bad := parseTeamStats(loadFixture(t, "team_NYK_2025.html"))

	if stats.Playoff == nil || len(stats.Playoff) != 0 {
		t.Fatalf("expected empty playoff map, got %+v", stats.Playoff)
	}
	if stats.Collisions != 1 {
		t.Fatalf("expected one collision, got %d", stats.Collisions)
	}
	// last row for a repeated name wins
	if got := stats.Regular["Mike Smith"]; got != (seasonstats.Line{Points: 3.5}) {
		t.Fatalf("unexpected line for repeated name: %+v", got)
	}
	if got := stats.Regular["Jalen Brunson"]; got != (seasonstats.Line{Points: 25.9, Assists: 7.3}) {
		t.Fatalf("unexpected line for Jalen Brunson: %+v", got)
	}

	want := []badCell{{Player: "Mike Smith", Stat: "stl_per_g", Text: "n/a"}}
	if diff := cmp.Diff(want, bad); diff != "" {
		t.Fatalf("bad cells mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStatsTable_RejectsNegativeAndNonFinite(t *testing.T) {
	t.Parallel()

	page := `<html><body><table id="per_game_stats"><tbody>
<tr><td data-stat="name_display"><a href="/players/a.html">A</a></td><td data-stat="pts_per_g">-1.5</td><td data-stat="ast_per_g">NaN</td><td data-stat="blk_per_g">+Inf</td><td data-stat="stl_per_g">.4</td></tr>
</tbody></table></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}

	lines, collisions, bad := parseStatsTable(findTable(doc, regularStatsTableID))
	if collisions != 0 {
		t.Fatalf("expected no collisions, got %d", collisions)
	}
	if got := lines["A"]; got != (seasonstats.Line{Steals: 0.4}) {
		t.Fatalf("unexpected line: %+v", got)
	}
	if len(bad) != 3 {
		t.Fatalf("expected 3 bad cells, got %+v", bad)
	}
}

func TestFindTable_PrefersLiveTableOverComment(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<!-- <table id="roster"><tbody><tr><td data-stat="player"><a href="/players/c.html">Commented</a></td><td data-stat="pos">C</td></tr></tbody></table> -->
<table id="roster"><tbody><tr><td data-stat="player"><a href="/players/l.html">Live</a></td><td data-stat="pos">G</td></tr></tbody></table>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}

	players, found := collectRoster(t, doc)
	if !found || len(players) != 1 || players[0].Name != "Live" {
		t.Fatalf("expected live roster table, got found=%v players=%+v", found, players)
	}
}
