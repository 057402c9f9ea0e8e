package relay

import (
	"sync"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
)

// Hub is an in-process broadcast channel keyed by user id. It is the
// same-origin relay between sibling views of one user: an inserting view
// publishes its new bookmark and every other open view of that user
// receives it immediately, without waiting on the change feed.
type Hub struct {
	mu    sync.RWMutex
	ports map[string]map[int]*Port // user id -> port id -> port
	next  int
}

// Port is one view's attachment to the hub. Messages published through a
// port are delivered to every other port of the same user, never back to
// the publisher.
type Port struct {
	hub       *Hub
	userID    string
	id        int
	onMessage func(domain.Bookmark)
	once      sync.Once
}

// NewHub creates a new relay hub
func NewHub() *Hub {
	return &Hub{
		ports: make(map[string]map[int]*Port),
	}
}

// Open attaches a view to the user's channel. onMessage fires on the
// publisher's goroutine. Close the port on teardown.
func (h *Hub) Open(userID string, onMessage func(domain.Bookmark)) *Port {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	p := &Port{
		hub:       h,
		userID:    userID,
		id:        h.next,
		onMessage: onMessage,
	}

	if h.ports[userID] == nil {
		h.ports[userID] = make(map[int]*Port)
	}
	h.ports[userID][p.id] = p

	return p
}

// Broadcast delivers b to every open port of its owner. Used when the
// insert originated outside any attached view (e.g. a plain API call).
func (h *Hub) Broadcast(b domain.Bookmark) {
	if h == nil {
		return
	}
	h.deliver(b, 0)
}

func (h *Hub) deliver(b domain.Bookmark, exclude int) {
	h.mu.RLock()
	ports := make([]*Port, 0, len(h.ports[b.OwnerID]))
	for id, p := range h.ports[b.OwnerID] {
		if id == exclude {
			continue
		}
		ports = append(ports, p)
	}
	h.mu.RUnlock()

	// Callbacks run outside the lock so a receiver may publish or close
	// without deadlocking.
	for _, p := range ports {
		if p.onMessage != nil {
			p.onMessage(b)
		}
	}
}

// Publish sends b to every sibling port of the same user. Nil-safe so a
// view without a relay degrades to feed-only propagation.
func (p *Port) Publish(b domain.Bookmark) {
	if p == nil {
		return
	}
	p.hub.deliver(b, p.id)
}

// Close detaches the port. Idempotent.
func (p *Port) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		p.hub.mu.Lock()
		defer p.hub.mu.Unlock()
		delete(p.hub.ports[p.userID], p.id)
		if len(p.hub.ports[p.userID]) == 0 {
			delete(p.hub.ports, p.userID)
		}
	})
}

// Count returns the number of open ports for a user
func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.ports[userID])
}
