package bbref

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// findTable returns the table with the given id, or an empty selection. Some
// secondary tables are shipped inside HTML comments and only revealed by
// client-side script; those are parsed from the comment text.
func findTable(doc *goquery.Document, id string) *goquery.Selection {
	sel := doc.Find("table#" + id).First()
	if sel.Length() > 0 {
		return sel
	}

	marker := `id="` + id + `"`
	for _, root := range doc.Nodes {
		for comment := range commentNodes(root) {
			if !strings.Contains(comment.Data, marker) {
				continue
			}
			fragment, err := goquery.NewDocumentFromReader(strings.NewReader(comment.Data))
			if err != nil {
				continue
			}
			if table := fragment.Find("table#" + id).First(); table.Length() > 0 {
				return table
			}
		}
	}
	return sel
}

// bodyRows yields the rows of the table's first tbody, header repeats
// included.
func bodyRows(table *goquery.Selection) *goquery.Selection {
	return table.ChildrenFiltered("tbody").First().ChildrenFiltered("tr")
}

func commentNodes(root *html.Node) func(yield func(*html.Node) bool) {
	return func(yield func(*html.Node) bool) {
		var walk func(n *html.Node) bool
		walk = func(n *html.Node) bool {
			if n.Type == html.CommentNode && !yield(n) {
				return false
			}
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if !walk(child) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}

func cellText(row *goquery.Selection, stat string) (string, bool) {
	cell := row.Find(`td[data-stat="` + stat + `"]`).First()
	if cell.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(cell.Text()), true
}
