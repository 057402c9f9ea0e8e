package sync

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live sessions by id so stateless mutation requests can
// be routed through the view that issued them (pending state, relay
// publication from the right port).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Add registers a session and returns its handle id.
func (r *Registry) Add(s *Session) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = s

	return id
}

// Get returns the session for id when it belongs to ownerID. The owner
// check keeps one user from driving another user's view.
func (r *Registry) Get(id, ownerID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok || s.OwnerID() != ownerID {
		return nil, false
	}
	return s, true
}

// Remove forgets a session handle. Idempotent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
