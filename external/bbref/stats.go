package bbref

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

const (
	regularStatsTableID = "per_game_stats"
	playoffStatsTableID = "per_game_stats_post"
)

type statColumn struct {
	key string
	set func(*seasonstats.Line, float64)
}

var statColumns = []statColumn{
	{key: "pts_per_g", set: func(l *seasonstats.Line, v float64) { l.Points = v }},
	{key: "ast_per_g", set: func(l *seasonstats.Line, v float64) { l.Assists = v }},
	{key: "orb_per_g", set: func(l *seasonstats.Line, v float64) { l.OffensiveRebounds = v }},
	{key: "drb_per_g", set: func(l *seasonstats.Line, v float64) { l.DefensiveRebounds = v }},
	{key: "stl_per_g", set: func(l *seasonstats.Line, v float64) { l.Steals = v }},
	{key: "blk_per_g", set: func(l *seasonstats.Line, v float64) { l.Blocks = v }},
}

// badCell describes a stat cell whose text is not a number.
type badCell struct {
	Player string
	Stat   string
	Text   string
}

// TeamStats parses the regular-season and playoff per-game tables of a team
// page. A missing table, or a page that cannot be read, gives empty maps.
func (c *Client) TeamStats(ctx context.Context, teamURL string) usecase.ExternalTeamStats {
	doc, ok := c.document(ctx, teamURL, "stats")
	if !ok {
		return usecase.ExternalTeamStats{
			Regular: map[string]seasonstats.Line{},
			Playoff: map[string]seasonstats.Line{},
		}
	}

	out, bad := parseTeamStats(doc)
	for _, cell := range bad {
		c.logger.WarnContext(ctx, "stat cell is not a number, using 0",
			"url", teamURL, "player", cell.Player, "stat", cell.Stat, "text", cell.Text)
	}
	if findTable(doc, regularStatsTableID).Length() == 0 {
		c.logger.WarnContext(ctx, "regular season per-game table not found", "url", teamURL)
	}
	return out
}

func parseTeamStats(doc *goquery.Document) (usecase.ExternalTeamStats, []badCell) {
	regular, regularCollisions, regularBad := parseStatsTable(findTable(doc, regularStatsTableID))
	playoff, playoffCollisions, playoffBad := parseStatsTable(findTable(doc, playoffStatsTableID))

	return usecase.ExternalTeamStats{
		Regular:    regular,
		Playoff:    playoff,
		Collisions: regularCollisions + playoffCollisions,
	}, append(regularBad, playoffBad...)
}

// parseStatsTable maps display names to lines. When a name repeats, the last
// row wins and the repeat is counted.
func parseStatsTable(table *goquery.Selection) (map[string]seasonstats.Line, int, []badCell) {
	out := make(map[string]seasonstats.Line)
	if table.Length() == 0 {
		return out, 0, nil
	}

	var (
		collisions int
		bad        []badCell
	)
	for _, row := range bodyRows(table).EachIter() {
		cell := row.Find(`td[data-stat="name_display"]`).First()
		if cell.Length() == 0 || cell.Find("a").Length() == 0 {
			continue
		}
		name := strings.TrimSpace(cell.Text())

		var line seasonstats.Line
		for _, col := range statColumns {
			text, ok := cellText(row, col.key)
			if !ok || text == "" {
				continue
			}
			value, err := strconv.ParseFloat(text, 64)
			if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
				bad = append(bad, badCell{Player: name, Stat: col.key, Text: text})
				continue
			}
			col.set(&line, value)
		}

		if _, dup := out[name]; dup {
			collisions++
		}
		out[name] = line
	}

	return out, collisions, bad
}
