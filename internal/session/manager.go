package session

import (
	"sync"
	"time"

	"github.com/hyperjump/docsearch/internal/keyword"
	"go.uber.org/zap"
)

// Manager tracks live sessions that share one search index.
// Sessions unused for longer than the idle timeout are dropped the next
// time the manager is touched.
type Manager struct {
	index       keyword.Searcher
	logger      *zap.Logger
	max         int
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithIdleTimeout expires sessions not used for d. Zero or negative keeps
// sessions until they are deleted.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.idleTimeout = d
	}
}

// NewManager returns a manager. A max of zero or less means unlimited.
func NewManager(index keyword.Searcher, max int, logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		index:    index,
		logger:   logger,
		max:      max,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session. Idle sessions are expired first, so the
// limit only counts sessions in use.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	if m.max > 0 && len(m.sessions) >= m.max {
		return nil, ErrLimitReached
	}
	s := New(m.index, m.logger)
	m.sessions[s.ID] = &entry{session: s, lastUsed: m.now()}
	m.logger.Debug("session created", zap.String("session", s.ID))
	return s, nil
}

// Get returns the session with id and marks it used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastUsed = m.now()
	return e.session, nil
}

// Delete closes and forgets the session with id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.session.Close()
	m.logger.Debug("session deleted", zap.String("session", id))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	return len(m.sessions)
}

func (m *Manager) expireLocked() {
	if m.idleTimeout <= 0 {
		return
	}
	cutoff := m.now().Add(-m.idleTimeout)
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			e.session.Close()
			m.logger.Debug("session expired", zap.String("session", id))
		}
	}
}
