package sync

import (
	"sort"
	"sync"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
)

// Reconciler owns the canonical, deduplicated, newest-first bookmark set
// for one view. Every producer (initial load, local mutation, feed event,
// relay message, poll result) goes through the same narrow ingestion
// methods; nothing mutates the list directly. Each call is atomic with
// respect to the others.
type Reconciler struct {
	mu      sync.Mutex
	ownerID string
	present map[string]bool
	list    []domain.Bookmark // display order: created_at desc, ties by arrival
}

// NewReconciler creates an empty reconciler scoped to one user. Entries
// with any other owner_id are rejected on every ingestion path.
func NewReconciler(ownerID string) *Reconciler {
	return &Reconciler{
		ownerID: ownerID,
		present: make(map[string]bool),
	}
}

// SetInitial replaces the working set with the store's current contents.
// Called once at startup.
func (r *Reconciler) SetInitial(rows []domain.Bookmark) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.present = make(map[string]bool, len(rows))
	r.list = r.list[:0]
	for _, b := range rows {
		if b.OwnerID != r.ownerID || r.present[b.ID] {
			continue
		}
		r.present[b.ID] = true
		r.list = append(r.list, b)
	}
	r.sortLocked()
}

// Insert admits one bookmark. Duplicate ids and foreign owners are
// silently absorbed. Returns whether the set changed, which callers use
// to decide whether an externally-originated insert deserves a notice.
func (r *Reconciler) Insert(b domain.Bookmark) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.OwnerID != r.ownerID || r.present[b.ID] {
		return false
	}

	r.present[b.ID] = true
	r.list = append(r.list, b)
	r.sortLocked()
	return true
}

// Delete removes the entry with the given id. Idempotent.
func (r *Reconciler) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.present[id] {
		return false
	}

	delete(r.present, id)
	for i, b := range r.list {
		if b.ID == id {
			r.list = append(r.list[:i], r.list[i+1:]...)
			break
		}
	}
	return true
}

// Resync merges a polled snapshot by id: known entries are replaced with
// the fetched version (the store is authoritative for content), unknown
// ids are added. Entries absent from the snapshot are never removed;
// deletion is only authoritative via explicit delete events, so a
// snapshot racing a delete cannot resurrect stale rows.
func (r *Reconciler) Resync(rows []domain.Bookmark) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	for _, b := range rows {
		if b.OwnerID != r.ownerID {
			continue
		}
		if !r.present[b.ID] {
			r.present[b.ID] = true
			r.list = append(r.list, b)
			changed = true
			continue
		}
		for i := range r.list {
			if r.list[i].ID == b.ID {
				if !bookmarksEqual(r.list[i], b) {
					r.list[i] = b
					changed = true
				}
				break
			}
		}
	}

	if changed {
		r.sortLocked()
	}
	return changed
}

// Has reports whether an id is currently visible
func (r *Reconciler) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.present[id]
}

// Bookmarks returns a copy of the current ordered list.
func (r *Reconciler) Bookmarks() []domain.Bookmark {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Bookmark, len(r.list))
	copy(out, r.list)
	return out
}

// Len returns the number of visible bookmarks
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.list)
}

// sortLocked recomputes display order with a full stable sort. Lists are
// small (tens to low hundreds) so no incremental ordering is kept.
func (r *Reconciler) sortLocked() {
	sort.SliceStable(r.list, func(i, j int) bool {
		return r.list[i].CreatedAt.After(r.list[j].CreatedAt)
	})
}

func bookmarksEqual(a, b domain.Bookmark) bool {
	return a.ID == b.ID &&
		a.OwnerID == b.OwnerID &&
		a.Title == b.Title &&
		a.URL == b.URL &&
		a.CreatedAt.Equal(b.CreatedAt)
}
