package bbref

import (
	"context"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

// Roster returns the team page's roster as a single-use sequence. found is
// false when the page could not be read or has no roster table.
func (c *Client) Roster(ctx context.Context, teamURL string) (iter.Seq[usecase.ExternalPlayer], bool) {
	doc, ok := c.document(ctx, teamURL, "roster")
	if !ok {
		return nil, false
	}

	players, found := parseRoster(doc, c.baseURL)
	if !found {
		c.logger.WarnContext(ctx, "roster table not found", "url", teamURL)
	}
	return players, found
}

func parseRoster(doc *goquery.Document, baseURL string) (iter.Seq[usecase.ExternalPlayer], bool) {
	table := findTable(doc, "roster")
	if table.Length() == 0 {
		return nil, false
	}

	rows := bodyRows(table)
	consumed := false
	return func(yield func(usecase.ExternalPlayer) bool) {
		if consumed {
			return
		}
		consumed = true

		for _, row := range rows.EachIter() {
			cell := row.Find(`td[data-stat="player"]`).First()
			if cell.Length() == 0 {
				continue
			}
			link := cell.Find("a").First()
			href, hasLink := link.Attr("href")
			position := row.Find(`td[data-stat="pos"]`).First()
			if !hasLink || position.Length() == 0 {
				continue
			}

			if !yield(usecase.ExternalPlayer{
				Name:     strings.TrimSpace(link.Text()),
				URL:      baseURL + href,
				Position: strings.TrimSpace(position.Text()),
			}) {
				return
			}
		}
	}, true
}
