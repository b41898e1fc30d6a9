// Package render turns ranked search results into dropdown list items.
package render

import (
	"strconv"

	"github.com/hyperjump/docsearch/internal/dom"
	"github.com/hyperjump/docsearch/internal/models"
	"golang.org/x/net/html"
)

// ResultIDPrefix prefixes the id of every rendered result item.
const ResultIDPrefix = "result-"

// ResultID returns the element id of the result at index i.
func ResultID(i int) string {
	return ResultIDPrefix + strconv.Itoa(i)
}

// ResultIndex parses an element id produced by ResultID.
func ResultIndex(id string) (int, bool) {
	if len(id) <= len(ResultIDPrefix) || id[:len(ResultIDPrefix)] != ResultIDPrefix {
		return 0, false
	}
	i, err := strconv.Atoi(id[len(ResultIDPrefix):])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Results replaces every child of container with one item per result, in order.
// A nil container is ignored.
func Results(container *html.Node, results []models.SearchResult) {
	if container == nil {
		return
	}
	dom.RemoveChildren(container)
	for i, r := range results {
		container.AppendChild(Item(i, r))
	}
}

// Item builds the list item for result r at index i:
// li#result-i > a[href] > span with the document title.
func Item(i int, r models.SearchResult) *html.Node {
	li := dom.NewElement("li", "class", "dropdown-item", "id", ResultID(i))
	link := dom.NewElement("a", "title", r.Name, "href", r.URL, "class", "dropdown-item-link")
	text := dom.NewElement("span", "class", "dropdown-item-link-text")
	text.AppendChild(dom.NewText(r.Name))
	link.AppendChild(text)
	li.AppendChild(link)
	return li
}

// Fragment builds a detached, shown dropdown list holding results.
func Fragment(results []models.SearchResult) *html.Node {
	ul := dom.NewElement("ul", "id", "search-dropdown-content", "class", "dropdown-content show")
	Results(ul, results)
	return ul
}
