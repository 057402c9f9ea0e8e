package sync

import (
	"testing"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
)

func bm(id, owner string, createdAt time.Time) domain.Bookmark {
	return domain.Bookmark{
		ID:        id,
		OwnerID:   owner,
		Title:     "title-" + id,
		URL:       "https://example.com/" + id,
		CreatedAt: createdAt,
	}
}

func assertSortedDesc(t *testing.T, rows []domain.Bookmark) {
	t.Helper()
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt.After(rows[i-1].CreatedAt) {
			t.Errorf("list not sorted newest-first at index %d: %v after %v",
				i, rows[i].CreatedAt, rows[i-1].CreatedAt)
		}
	}
}

func assertNoDuplicateIDs(t *testing.T, rows []domain.Bookmark) {
	t.Helper()
	seen := make(map[string]bool, len(rows))
	for _, b := range rows {
		if seen[b.ID] {
			t.Errorf("duplicate id %q in visible list", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestSetInitialSortsAndFilters(t *testing.T) {
	r := NewReconciler("user-1")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r.SetInitial([]domain.Bookmark{
		bm("a", "user-1", base.Add(1*time.Hour)),
		bm("b", "user-1", base.Add(3*time.Hour)),
		bm("c", "user-2", base.Add(5*time.Hour)), // foreign owner
		bm("a", "user-1", base.Add(2*time.Hour)), // duplicate id
		bm("d", "user-1", base.Add(2*time.Hour)),
	})

	rows := r.Bookmarks()
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].ID != "b" || rows[1].ID != "d" || rows[2].ID != "a" {
		t.Errorf("order = [%s %s %s], want [b d a]", rows[0].ID, rows[1].ID, rows[2].ID)
	}
	assertSortedDesc(t, rows)
	assertNoDuplicateIDs(t, rows)
}

func TestInsertIsIdempotent(t *testing.T) {
	r := NewReconciler("user-1")
	b := bm("a", "user-1", time.Now())

	if !r.Insert(b) {
		t.Fatal("first Insert() = false, want true")
	}
	if r.Insert(b) {
		t.Error("second Insert() of same id = true, want false")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestInsertRejectsForeignOwner(t *testing.T) {
	r := NewReconciler("user-1")

	if r.Insert(bm("a", "user-2", time.Now())) {
		t.Error("Insert() admitted a foreign owner's bookmark")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	r := NewReconciler("user-1")
	r.SetInitial([]domain.Bookmark{bm("a", "user-1", time.Now())})

	if !r.Delete("a") {
		t.Fatal("Delete() of present id = false, want true")
	}
	if r.Delete("a") {
		t.Error("second Delete() = true, want false")
	}
	if r.Delete("never-existed") {
		t.Error("Delete() of unknown id = true, want false")
	}
}

func TestInsertKeepsOrdering(t *testing.T) {
	r := NewReconciler("user-1")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Arrival order deliberately scrambled relative to created_at.
	r.Insert(bm("mid", "user-1", base.Add(2*time.Hour)))
	r.Insert(bm("new", "user-1", base.Add(9*time.Hour)))
	r.Insert(bm("old", "user-1", base.Add(1*time.Hour)))

	rows := r.Bookmarks()
	if rows[0].ID != "new" || rows[1].ID != "mid" || rows[2].ID != "old" {
		t.Errorf("order = [%s %s %s], want [new mid old]", rows[0].ID, rows[1].ID, rows[2].ID)
	}
	assertSortedDesc(t, rows)
}

func TestEqualTimestampsKeepArrivalOrder(t *testing.T) {
	r := NewReconciler("user-1")
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r.Insert(bm("first", "user-1", at))
	r.Insert(bm("second", "user-1", at))
	r.Insert(bm("third", "user-1", at))

	rows := r.Bookmarks()
	if rows[0].ID != "first" || rows[1].ID != "second" || rows[2].ID != "third" {
		t.Errorf("ties broke arrival order: [%s %s %s]", rows[0].ID, rows[1].ID, rows[2].ID)
	}
}

func TestResyncAddsAndUpdates(t *testing.T) {
	r := NewReconciler("user-1")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.SetInitial([]domain.Bookmark{bm("a", "user-1", base)})

	updated := bm("a", "user-1", base)
	updated.Title = "renamed upstream"

	changed := r.Resync([]domain.Bookmark{
		updated,
		bm("b", "user-1", base.Add(time.Hour)),
		bm("foreign", "user-2", base.Add(2*time.Hour)),
	})

	if !changed {
		t.Fatal("Resync() = false, want true")
	}
	rows := r.Bookmarks()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1].Title != "renamed upstream" {
		t.Errorf("existing entry not replaced by snapshot: title = %q", rows[1].Title)
	}
	assertSortedDesc(t, rows)
	assertNoDuplicateIDs(t, rows)
}

// A snapshot missing a previously-visible id must not remove it: only an
// explicit delete event is authoritative for removal.
func TestResyncNeverRemoves(t *testing.T) {
	r := NewReconciler("user-1")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.SetInitial([]domain.Bookmark{
		bm("kept", "user-1", base),
		bm("missing-from-snapshot", "user-1", base.Add(time.Hour)),
	})

	if r.Resync([]domain.Bookmark{bm("kept", "user-1", base)}) {
		t.Error("Resync() with identical subset reported a change")
	}
	if !r.Has("missing-from-snapshot") {
		t.Error("entry absent from snapshot was removed")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestResyncIsIdempotent(t *testing.T) {
	r := NewReconciler("user-1")
	snapshot := []domain.Bookmark{
		bm("a", "user-1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		bm("b", "user-1", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
	}

	if !r.Resync(snapshot) {
		t.Fatal("first Resync() = false, want true")
	}
	if r.Resync(snapshot) {
		t.Error("second Resync() of same snapshot = true, want false")
	}
}

// Interleave every ingestion path and check the dedup and ordering laws
// hold at each observation point.
func TestIngestionLaws(t *testing.T) {
	r := NewReconciler("user-1")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	steps := []func(){
		func() { r.SetInitial([]domain.Bookmark{bm("a", "user-1", base.Add(4 * time.Hour))}) },
		func() { r.Insert(bm("b", "user-1", base.Add(2*time.Hour))) },
		func() { r.Insert(bm("b", "user-1", base.Add(2*time.Hour))) }, // replay
		func() { r.Resync([]domain.Bookmark{bm("c", "user-1", base.Add(6 * time.Hour))}) },
		func() { r.Delete("a") },
		func() { r.Delete("a") }, // replay
		func() { r.Insert(bm("d", "user-2", base.Add(8*time.Hour))) }, // foreign
		func() { r.Resync([]domain.Bookmark{bm("b", "user-1", base.Add(2 * time.Hour))}) },
	}

	for i, step := range steps {
		step()
		rows := r.Bookmarks()
		assertSortedDesc(t, rows)
		assertNoDuplicateIDs(t, rows)
		for _, b := range rows {
			if b.OwnerID != "user-1" {
				t.Fatalf("step %d admitted foreign owner %q", i, b.OwnerID)
			}
		}
	}

	if r.Has("a") {
		t.Error("deleted id still visible")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (b, c)", r.Len())
	}
}
