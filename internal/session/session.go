package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hyperjump/docsearch/internal/dom"
	"github.com/hyperjump/docsearch/internal/dropdown"
	"github.com/hyperjump/docsearch/internal/keyword"
	"github.com/hyperjump/docsearch/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned for an unknown session id.
	ErrNotFound = errors.New("session not found")
	// ErrTargetNotFound is returned when a click selector matches nothing.
	ErrTargetNotFound = errors.New("target element not found")
	// ErrLimitReached is returned when the manager holds its maximum number of sessions.
	ErrLimitReached = errors.New("session limit reached")
)

// Session is one headless page with a bound dropdown controller.
// Actions on a session are applied one at a time.
type Session struct {
	ID string

	mu   sync.Mutex
	page *dom.Document
	ctrl *dropdown.Controller
}

// Snapshot is the observable state of a session.
type Snapshot struct {
	ID       string                `json:"id"`
	State    string                `json:"state"`
	Focused  string                `json:"focused"`
	Query    string                `json:"query"`
	Results  []models.SearchResult `json:"results"`
	Dropdown string                `json:"dropdown_html"`
}

// New creates a session on the built-in page, sharing index with other sessions.
func New(index keyword.Searcher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	page := dom.NewPage()
	ctrl := dropdown.New(page, index, dropdown.WithLogger(logger.With(zap.String("session", id))))
	ctrl.Bind()
	return &Session{ID: id, page: page, ctrl: ctrl}
}

// Apply performs a single action.
func (s *Session) Apply(a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch a.Type {
	case ActionClick:
		target := s.page.QuerySelector(a.Target)
		if target == nil {
			return fmt.Errorf("%q: %w", a.Target, ErrTargetNotFound)
		}
		s.page.Click(target)
	case ActionKey:
		s.page.Press(normalizeKey(a.Key))
	case ActionText:
		s.page.Type(a.Text)
	}
	return nil
}

// Snapshot captures the current dropdown state, focus and rendered results.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	content := s.page.ElementByID(dropdown.DropdownContentID)
	results := make([]models.SearchResult, 0)
	for _, li := range dom.ElementChildren(content) {
		link := dom.FirstElementChild(li)
		href, _ := dom.Attr(link, "href")
		results = append(results, models.SearchResult{Name: dom.TextContent(link), URL: href})
	}
	return Snapshot{
		ID:       s.ID,
		State:    s.ctrl.State().String(),
		Focused:  describe(s.page),
		Query:    s.page.Value(s.page.ElementByID(dropdown.SearchBarID)),
		Results:  results,
		Dropdown: dom.OuterHTML(content),
	}
}

// Close closes the dropdown and releases the session's listeners.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Unbind()
}

// describe names the focused element as a selector-like string.
func describe(page *dom.Document) string {
	n := page.Focused()
	if n == nil {
		return ""
	}
	if id := dom.ID(n); id != "" {
		return "#" + id
	}
	if parent := dom.ID(n.Parent); parent != "" {
		return "#" + parent + " > " + n.Data
	}
	return n.Data
}
