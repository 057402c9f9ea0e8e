package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
)

// ErrNotVisible is returned when a delete targets an id that is not in
// the session's visible set.
var ErrNotVisible = errors.New("bookmark is not in the visible set")

// Mutator validates and executes this view's create and delete requests
// and tracks per-id pending state for deletes. Successful creates enter
// the reconciler immediately and are relayed to sibling views; deletes
// are never applied optimistically: removal waits for the delete event
// so exactly one code path removes entries.
type Mutator struct {
	s *Session

	mu      sync.Mutex
	pending map[string]bool
}

func newMutator(s *Session) *Mutator {
	return &Mutator{
		s:       s,
		pending: make(map[string]bool),
	}
}

// Create validates the input, persists the bookmark, feeds the stored
// row (carrying the server-assigned id and created_at) into the
// reconciler, and relays it to sibling views. Validation failures are
// field-scoped and never reach the store.
func (m *Mutator) Create(ctx context.Context, title, url string) (domain.Bookmark, error) {
	title, url, verr := domain.ValidateCreate(title, url)
	if verr != nil {
		return domain.Bookmark{}, verr
	}

	b, err := m.s.store.Create(ctx, m.s.ownerID, title, url)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("create bookmark: %w", err)
	}

	m.s.ingestLocal(b)
	m.s.port.Publish(b)

	return b, nil
}

// Delete submits a delete for a visible bookmark. The entry is marked
// pending while the request is in flight and stays visible until the
// propagated delete event removes it. On failure pending is cleared and
// the entry remains.
func (m *Mutator) Delete(ctx context.Context, id string) error {
	if !m.s.rec.Has(id) {
		return ErrNotVisible
	}

	m.mu.Lock()
	if m.pending[id] {
		m.mu.Unlock()
		return nil // already in flight
	}
	m.pending[id] = true
	m.mu.Unlock()
	m.s.emit(Event{Kind: EventList})

	err := m.s.store.Delete(ctx, m.s.ownerID, id)

	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
	m.s.emit(Event{Kind: EventList})

	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// Pending reports whether a delete for id is in flight
func (m *Mutator) Pending(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pending[id]
}

// PendingIDs returns the ids with an in-flight delete, sorted.
func (m *Mutator) PendingIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
