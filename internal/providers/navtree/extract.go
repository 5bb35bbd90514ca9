package navtree

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Selector for the host's top-level navigation containers.
const containerSelector = `div[data-header-section="navigation"], div[role="group"], #uif66`

// HasNavigation reports whether the page carries a navigation section at
// all, so callers can distinguish "no menu" from "empty menu".
func HasNavigation(htmlStr string) bool {
	doc, err := htmlquery.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return false
	}
	nodes := htmlquery.Find(doc,
		`//div[@data-header-section='navigation'] | //div[@role='group'] | //*[@id='uif66']`)
	return len(nodes) > 0
}

// Extract walks the host page's navigation containers and returns the
// menu tree: direct menuitem children with their anchors' automation ids
// and labels, recursing into group/list submenus. Top-level items are
// deduplicated by key across containers.
func Extract(htmlStr string) ([]Node, error) {
	doc, err := loadHTML(htmlStr)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	all := []Node{}
	doc.Find(containerSelector).Each(func(_ int, container *goquery.Selection) {
		for _, item := range extractItems(container) {
			key := item.Key()
			if !seen[key] {
				seen[key] = true
				all = append(all, item)
			}
		}
	})
	return all, nil
}

func extractItems(parent *goquery.Selection) []Node {
	items := []Node{}
	parent.ChildrenFiltered(`[role="menuitem"]`).Each(func(_ int, mi *goquery.Selection) {
		link := mi.ChildrenFiltered("a").First()
		if link.Length() == 0 {
			return
		}

		autoID, _ := link.Attr("data-automation-id")
		label, ok := link.Attr("aria-label")
		if !ok || label == "" {
			label = link.Text()
		}
		label = sanitizeLabel(label)
		if autoID == "" && label == "" {
			return
		}

		children := []Node{}
		submenu := mi.ChildrenFiltered(`[role="group"], ul`).First()
		if submenu.Length() > 0 {
			children = extractItems(submenu)
		}

		items = append(items, Node{ID: autoID, Label: label, Children: children})
	})
	return items
}

// Annotate marks every node whose key is in the hidden set, recursively.
func Annotate(nodes []Node, hidden map[string]bool) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Hidden = hidden[n.Key()]
		n.Children = Annotate(n.Children, hidden)
		out[i] = n
	}
	return out
}
