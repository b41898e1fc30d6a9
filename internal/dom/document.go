// Package dom is a headless page model: an HTML tree with element lookup,
// CSS class state, focus, and event listeners registered through explicit handles.
package dom

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed page.html
var defaultPage string

type listener struct {
	id     ListenerID
	target *html.Node
	typ    EventType
	fn     Handler
}

// Document is a parsed HTML page with listener registry and focus state.
// It is not safe for concurrent use; callers serialize events per document.
type Document struct {
	root      *html.Node
	listeners []*listener
	nextID    ListenerID
	focused   *html.Node
}

// Parse parses an HTML page from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// NewPage returns a document for the built-in documentation page layout.
func NewPage() *Document {
	d, err := Parse(strings.NewReader(defaultPage))
	if err != nil {
		panic(err)
	}
	return d
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element.
func (d *Document) Body() *html.Node {
	return d.find(func(n *html.Node) bool { return n.DataAtom == atom.Body })
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return d.find(func(n *html.Node) bool { return ID(n) == id })
}

// QuerySelector returns the first element matching the CSS selector, or nil.
// An invalid selector matches nothing.
func (d *Document) QuerySelector(selector string) *html.Node {
	sel := goquery.NewDocumentFromNode(d.root).Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel.Nodes[0]
}

// QuerySelectorAll returns all elements matching the CSS selector.
func (d *Document) QuerySelectorAll(selector string) []*html.Node {
	return goquery.NewDocumentFromNode(d.root).Find(selector).Nodes
}

func (d *Document) find(match func(*html.Node) bool) *html.Node {
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(d.root)
}

// AddClass adds class to n.
func (d *Document) AddClass(n *html.Node, class string) { AddClass(n, class) }

// RemoveClass removes class from n.
func (d *Document) RemoveClass(n *html.Node, class string) { RemoveClass(n, class) }

// HasClass reports whether n has class.
func (d *Document) HasClass(n *html.Node, class string) bool { return HasClass(n, class) }

// Value returns the current value of an input element.
func (d *Document) Value(n *html.Node) string {
	v, _ := Attr(n, "value")
	return v
}

// SetValue replaces the value of an input element.
func (d *Document) SetValue(n *html.Node, value string) {
	if n != nil {
		SetAttr(n, "value", value)
	}
}

// AddEventListener registers fn for events of typ reaching target.
// A nil target registers on the document itself, after every element.
func (d *Document) AddEventListener(target *html.Node, typ EventType, fn Handler) ListenerID {
	d.nextID++
	d.listeners = append(d.listeners, &listener{id: d.nextID, target: target, typ: typ, fn: fn})
	return d.nextID
}

// RemoveEventListener unregisters the listener. It reports false when id is unknown.
func (d *Document) RemoveEventListener(id ListenerID) bool {
	for i, l := range d.listeners {
		if l.id == id {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of registered listeners.
func (d *Document) ListenerCount() int {
	return len(d.listeners)
}

func (d *Document) registered(id ListenerID) bool {
	for _, l := range d.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

// Focus moves input focus to n. Nil is ignored.
func (d *Document) Focus(n *html.Node) {
	if n != nil {
		d.focused = n
	}
}

// Focused returns the focused element, or the body when nothing has focus.
func (d *Document) Focused() *html.Node {
	if d.focused != nil && Contains(d.root, d.focused) {
		return d.focused
	}
	return d.Body()
}

// Dispatch delivers ev to listeners on the target, then each ancestor, then
// the document. Listeners are collected when their node is reached; a
// listener removed before its turn is skipped.
func (d *Document) Dispatch(ev *Event) {
	for n := ev.Target; n != nil; n = n.Parent {
		d.invoke(ev, n)
		if ev.propagationStopped {
			return
		}
	}
	d.invoke(ev, nil)
}

func (d *Document) invoke(ev *Event, node *html.Node) {
	var batch []*listener
	for _, l := range d.listeners {
		if l.target == node && l.typ == ev.Type {
			batch = append(batch, l)
		}
	}
	ev.CurrentTarget = node
	for _, l := range batch {
		if d.registered(l.id) {
			l.fn(ev)
		}
	}
}

// Click focuses n when it is focusable and dispatches a click on it.
func (d *Document) Click(n *html.Node) *Event {
	if focusable(n) {
		d.Focus(n)
	}
	ev := &Event{Type: Click, Target: n}
	d.Dispatch(ev)
	return ev
}

// Press dispatches keydown then keyup for key on the focused element and
// returns the keydown event.
func (d *Document) Press(key Key) *Event {
	down := &Event{Type: KeyDown, Key: key, Target: d.Focused()}
	d.Dispatch(down)
	d.Dispatch(&Event{Type: KeyUp, Key: key, Target: d.Focused()})
	return down
}

// Type enters text one character at a time into the focused element. The
// value of a focused input grows between each keydown and keyup.
func (d *Document) Type(text string) {
	for _, r := range text {
		key := Key(string(r))
		target := d.Focused()
		down := &Event{Type: KeyDown, Key: key, Target: target}
		d.Dispatch(down)
		if !down.defaultPrevented && target != nil && target.DataAtom == atom.Input {
			d.SetValue(target, d.Value(target)+string(r))
		}
		d.Dispatch(&Event{Type: KeyUp, Key: key, Target: target})
	}
}

// Render writes the HTML serialization of n.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// OuterHTML returns the serialization of n.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// HTML returns the serialization of the whole document.
func (d *Document) HTML() string {
	return OuterHTML(d.root)
}
