package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element with the given attributes as
// key/value pairs.
func NewElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// NewText creates a detached text node. The text is escaped on render.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Attr returns the value of attribute key on n and whether it is set.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n, replacing any previous value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// ID returns the id attribute of n, or "" when n is nil or has none.
func ID(n *html.Node) string {
	id, _ := Attr(n, "id")
	return id
}

// HasClass reports whether class is in n's class list.
func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to n's class list if absent.
func AddClass(n *html.Node, class string) {
	if n == nil || HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	SetAttr(n, "class", strings.TrimSpace(v+" "+class))
}

// RemoveClass removes every occurrence of class from n's class list.
func RemoveClass(n *html.Node, class string) {
	if n == nil || !HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	kept := make([]string, 0, 4)
	for _, c := range strings.Fields(v) {
		if c != class {
			kept = append(kept, c)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// RemoveChildren detaches all children of n.
func RemoveChildren(n *html.Node) {
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// FirstElementChild returns the first child of n that is an element.
func FirstElementChild(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// ElementChildren returns the element children of n in order.
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether n is ancestor or a descendant of ancestor.
func Contains(ancestor, n *html.Node) bool {
	if ancestor == nil {
		return false
	}
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return sb.String()
}

func focusable(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Input, atom.Textarea, atom.Button, atom.Select:
		return true
	case atom.A:
		_, ok := Attr(n, "href")
		return ok
	}
	return false
}
