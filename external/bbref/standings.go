package bbref

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

// playoffMarker trails the team name of every playoff qualifier in the
// conference standings.
const playoffMarker = "*"

var standingsTableIDs = []string{"confs_standings_E", "confs_standings_W"}

func (c *Client) standingsURL(seasonYear int) string {
	return fmt.Sprintf("%s/leagues/%s_%d.html", c.baseURL, c.league, seasonYear)
}

// PlayoffTeams lists the starred teams of both conference tables in document
// order. Any failure yields an empty slice.
func (c *Client) PlayoffTeams(ctx context.Context, seasonYear int) []usecase.ExternalTeam {
	pageURL := c.standingsURL(seasonYear)
	doc, ok := c.document(ctx, pageURL, "standings")
	if !ok {
		return nil
	}

	teams, found := parsePlayoffTeams(doc, c.baseURL)
	if !found {
		c.logger.WarnContext(ctx, "standings tables not found", "url", pageURL)
		return nil
	}
	c.logger.InfoContext(ctx, "playoff teams parsed", "url", pageURL, "count", len(teams))
	return teams
}

func parsePlayoffTeams(doc *goquery.Document, baseURL string) ([]usecase.ExternalTeam, bool) {
	var (
		out   []usecase.ExternalTeam
		seen  = make(map[string]struct{})
		found bool
	)

	for _, id := range standingsTableIDs {
		table := findTable(doc, id)
		if table.Length() == 0 {
			continue
		}
		found = true

		for _, row := range bodyRows(table).EachIter() {
			cell := row.Find(`th[data-stat="team_name"]`).First()
			if cell.Length() == 0 {
				continue
			}
			if !strings.HasSuffix(teamCellText(cell), playoffMarker) {
				continue
			}

			link := cell.Find("a").First()
			href, ok := link.Attr("href")
			if !ok {
				continue
			}
			abbr, ok := abbreviationFromHref(href)
			if !ok {
				continue
			}
			if _, dup := seen[abbr]; dup {
				continue
			}
			seen[abbr] = struct{}{}

			out = append(out, usecase.ExternalTeam{
				Name:         strings.TrimSpace(link.Text()),
				Abbreviation: abbr,
				URL:          baseURL + href,
			})
		}
	}

	return out, found
}

// teamCellText returns the cell text without the seed badge that follows the
// playoff marker on newer pages.
func teamCellText(cell *goquery.Selection) string {
	var b strings.Builder
	for _, part := range cell.Contents().EachIter() {
		if goquery.NodeName(part) == "span" {
			continue
		}
		b.WriteString(part.Text())
	}
	return strings.TrimSpace(b.String())
}

// abbreviationFromHref takes the third path segment: /teams/BOS/2025.html -> BOS.
func abbreviationFromHref(href string) (string, bool) {
	parts := strings.Split(href, "/")
	if len(parts) < 3 {
		return "", false
	}
	abbr := strings.TrimSpace(parts[2])
	return abbr, abbr != ""
}
