package session

import (
	"sync"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/metrics"
)

// Registry is the set of live sessions. All methods are safe for concurrent
// use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register adds a session. Registering the same session twice is a no-op.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	if _, ok := r.sessions[s.ID]; ok {
		r.mu.Unlock()
		return
	}
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SessionsTotal.Inc()
	metrics.ActiveSessions.Set(float64(n))
}

// Unregister removes a session by ID and returns it, or nil if it was not
// registered. Idempotent.
func (r *Registry) Unregister(id string) *Session {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return s
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ForEachOpen calls fn for every open session. Sessions that are closing or
// closed are skipped. fn must not block: it runs under the registry read
// lock.
func (r *Registry) ForEachOpen(fn func(*Session)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.State() != StateOpen {
			continue
		}
		fn(s)
	}
}
