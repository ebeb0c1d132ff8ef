package input

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/cadgauge/takeoff/internal/model"
)

// ReadHTMLFile reads an annotation-schedule HTML export. Many CAD tools can
// dump component schedules as HTML tables; each table row becomes one
// table-cell entity with its cells joined, so a row like
// "KZ1 | 600×600 | C30 | 12根" reaches the matcher as a single fragment.
func ReadHTMLFile(path string) ([]model.TextEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return ParseHTML(string(data))
}

// ParseHTML parses schedule HTML from memory
func ParseHTML(content string) ([]model.TextEntity, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	var entities []model.TextEntity

	var walk func(n *html.Node, table string)
	walk = func(n *html.Node, table string) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "table":
				// A table's id or summary doubles as the layer tag, so
				// rows from different schedules stay distinguishable.
				if name := attrValue(n, "id"); name != "" {
					table = name
				} else if name := attrValue(n, "summary"); name != "" {
					table = name
				}
			case "tr":
				row := rowText(n)
				if row != "" {
					entities = append(entities, model.TextEntity{
						Content:    row,
						Layer:      table,
						SourceKind: model.SourceTableCell,
					})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, table)
		}
	}

	walk(doc, "")
	return entities, nil
}

// rowText joins the visible text of a row's cells with single spaces
func rowText(tr *html.Node) string {
	var parts []string

	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}

	collect(tr)
	return strings.Join(parts, " ")
}

// attrValue returns the value of the named attribute, or ""
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
