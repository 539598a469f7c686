// Package session manages long-lived generation sessions. A session owns a
// naming Scope, so untitled classes keep their numbering across the schemas
// compiled in it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/schemagen/internal/analyzer"
)

// Session holds per-client generation state.
type Session struct {
	ID        string
	Target    string
	Package   string
	CreatedAt time.Time

	mu           sync.Mutex
	scope        *analyzer.Scope
	runs         int
	lastActiveAt time.Time
}

// Info is a point-in-time view of a session.
type Info struct {
	ID           string    `json:"id"`
	Target       string    `json:"target"`
	Package      string    `json:"package,omitempty"`
	Runs         int       `json:"runs"`
	LastClass    int       `json:"last_class"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// NewSession creates a session whose scope starts at DataClass1.
func NewSession(target, pkg string) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		Target:       target,
		Package:      pkg,
		CreatedAt:    now,
		scope:        analyzer.NewScope(),
		lastActiveAt: now,
	}
}

// WithScope runs fn with exclusive use of the session scope. Compilations in
// one session are serialized.
func (s *Session) WithScope(fn func(scope *analyzer.Scope) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastActiveAt = time.Now()
	return fn(s.scope)
}

// Reset restarts the naming sequence at DataClass1.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope.Reset()
	s.lastActiveAt = time.Now()
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:           s.ID,
		Target:       s.Target,
		Package:      s.Package,
		Runs:         s.runs,
		LastClass:    s.scope.Last(),
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.lastActiveAt,
	}
}

// IsExpired returns true if the session has exceeded the given max age.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return time.Since(s.CreatedAt) > maxAge
}

// IsIdle returns true if the session has been idle longer than the timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActiveAt) > timeout
}

// Manager handles session creation, lookup, and cleanup.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
}

// NewManager creates a session manager with the given timeouts.
func NewManager(maxAge, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// Create creates a new session and returns it.
func (m *Manager) Create(target, pkg string) *Session {
	s := NewSession(target, pkg)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get retrieves a session by ID. Returns nil if not found or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if m.stale(s) {
		m.Remove(id)
		return nil
	}
	return s
}

// Remove deletes a session. It reports whether the session existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes all expired and idle sessions and returns their IDs.
// Called periodically by the sweeper.
func (m *Manager) Cleanup() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []string
	for id, s := range m.sessions {
		if m.stale(s) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (m *Manager) stale(s *Session) bool {
	return s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout)
}
