// Package dropdown drives the search results dropdown: opening and closing it,
// keyboard navigation between result items, and searching as the user types.
package dropdown

import (
	"strings"

	"github.com/hyperjump/docsearch/internal/dom"
	"github.com/hyperjump/docsearch/internal/keyword"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/render"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Element ids and classes the controller relies on.
const (
	SearchBarID       = "search-bar"
	DropdownID        = "search-dropdown"
	DropdownContentID = "search-dropdown-content"
	ShowClass         = "show"

	shownContentSelector = "div[id$='search-dropdown'] > .dropdown-content.show"
)

// Page is the presentation surface the controller manipulates.
// *dom.Document implements it.
type Page interface {
	ElementByID(id string) *html.Node
	QuerySelector(selector string) *html.Node
	AddClass(n *html.Node, class string)
	RemoveClass(n *html.Node, class string)
	Value(n *html.Node) string
	Focus(n *html.Node)
	AddEventListener(target *html.Node, typ dom.EventType, fn dom.Handler) dom.ListenerID
	RemoveEventListener(id dom.ListenerID) bool
}

// State is the dropdown visibility.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Controller owns the dropdown state and the listeners tied to it.
// The outside-click, keydown and keyup document listeners are registered
// exactly while the state is Open.
type Controller struct {
	page   Page
	index  keyword.Searcher
	logger *zap.Logger

	state   State
	trigger dom.ListenerID
	bound   bool
	global  []dom.ListenerID
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a closed, unbound controller for page backed by index.
func New(page Page, index keyword.Searcher, opts ...Option) *Controller {
	c := &Controller{
		page:   page,
		index:  index,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind registers the open trigger on the search box. It reports false when
// the page has no search box. Binding twice is a no-op.
func (c *Controller) Bind() bool {
	if c.bound {
		return true
	}
	bar := c.page.ElementByID(SearchBarID)
	if bar == nil {
		return false
	}
	c.trigger = c.page.AddEventListener(bar, dom.Click, c.onTriggerClick)
	c.bound = true
	return true
}

// Unbind closes the dropdown and removes the open trigger.
func (c *Controller) Unbind() {
	c.Close()
	if c.bound {
		c.page.RemoveEventListener(c.trigger)
		c.bound = false
	}
}

// State returns the current dropdown state.
func (c *Controller) State() State {
	return c.state
}

// ListenerCount returns the number of document listeners the controller holds.
func (c *Controller) ListenerCount() int {
	return len(c.global)
}

func (c *Controller) onTriggerClick(e *dom.Event) {
	e.PreventDefault()
	e.StopPropagation()
	if err := c.Open(); err != nil {
		c.logger.Error("open search dropdown failed", zap.Error(err))
	}
}

// Open builds the search index if needed, shows the dropdown and attaches the
// document listeners. Opening an open dropdown attaches nothing new.
func (c *Controller) Open() error {
	if err := c.index.EnsureBuilt(); err != nil {
		return err
	}
	content := c.page.ElementByID(DropdownContentID)
	if content == nil {
		return nil
	}
	c.page.AddClass(content, ShowClass)
	if c.state == Open {
		return nil
	}
	c.global = append(c.global,
		c.page.AddEventListener(nil, dom.Click, c.onDocumentClick),
		c.page.AddEventListener(nil, dom.KeyDown, c.onKeyDown),
		c.page.AddEventListener(nil, dom.KeyUp, c.onKeyUp),
	)
	c.state = Open
	c.logger.Debug("search dropdown opened")
	return nil
}

// Close hides the dropdown and detaches every document listener.
// Rendered items stay in place, hidden, until the next search.
func (c *Controller) Close() {
	if content := c.page.QuerySelector(shownContentSelector); content != nil {
		c.page.RemoveClass(content, ShowClass)
	}
	for _, id := range c.global {
		c.page.RemoveEventListener(id)
	}
	c.global = nil
	if c.state == Open {
		c.state = Closed
		c.logger.Debug("search dropdown closed")
	}
}

func (c *Controller) onDocumentClick(e *dom.Event) {
	// clicks on the search box or a result link keep the dropdown open
	if dom.Contains(c.page.ElementByID(DropdownID), e.Target) {
		return
	}
	c.Close()
}

func (c *Controller) onKeyDown(e *dom.Event) {
	onBar := isSearchBar(e.Target)
	resultIdx, onResult := resultIndexOf(e.Target)
	if !onBar && !onResult {
		return
	}
	switch e.Key {
	case dom.KeyArrowDown:
		e.PreventDefault()
		e.StopPropagation()
		if onBar {
			c.focusResult(0)
		} else {
			c.focusResult(resultIdx + 1)
		}
	case dom.KeyArrowUp:
		e.PreventDefault()
		e.StopPropagation()
		if onResult && resultIdx > 0 {
			c.focusResult(resultIdx - 1)
		}
	case dom.KeyEscape:
		e.PreventDefault()
		e.StopPropagation()
		c.Close()
	}
}

func (c *Controller) onKeyUp(e *dom.Event) {
	if !isSearchBar(e.Target) {
		return
	}
	switch e.Key {
	case dom.KeyArrowDown, dom.KeyArrowUp, dom.KeyEscape:
		return
	}
	c.Search(c.page.Value(e.Target))
}

// Search queries the index for the search box value and renders the results
// into the shown dropdown. An empty value clears the dropdown without querying.
// On a query error the previous results are left in place.
func (c *Controller) Search(value string) {
	if value == "" {
		c.renderResults(nil)
		return
	}
	results, err := c.index.Query(value)
	if err != nil {
		c.logger.Error("search failed", zap.String("query", value), zap.Error(err))
		return
	}
	c.logger.Debug("search", zap.String("query", value), zap.Int("results", len(results)))
	c.renderResults(results)
}

func (c *Controller) renderResults(results []models.SearchResult) {
	// only a shown dropdown is updated
	render.Results(c.page.QuerySelector(shownContentSelector), results)
}

func (c *Controller) focusResult(i int) {
	li := c.page.ElementByID(render.ResultID(i))
	if li == nil || li.Data != "li" {
		return
	}
	if link := dom.FirstElementChild(li); link != nil {
		c.page.Focus(link)
	}
}

func isSearchBar(n *html.Node) bool {
	return dom.ID(n) == SearchBarID
}

// resultIndexOf returns the index of the result item whose link is n.
func resultIndexOf(n *html.Node) (int, bool) {
	if n == nil || n.Parent == nil {
		return 0, false
	}
	id := dom.ID(n.Parent)
	if !strings.HasPrefix(id, render.ResultIDPrefix) {
		return 0, false
	}
	return render.ResultIndex(id)
}
