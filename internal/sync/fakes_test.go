package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
	"github.com/Nasirkc/smart-bookmark/internal/feed"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory Store with switchable failures. Timestamps
// are assigned monotonically so creation order matches created_at order.
type fakeStore struct {
	mu          sync.Mutex
	rows        map[string]domain.Bookmark
	seq         int
	base        time.Time
	listCalls   int
	createCalls int
	failCreate  bool
	failDelete  bool
	failList    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows: make(map[string]domain.Bookmark),
		base: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) List(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.failList {
		return nil, errStoreDown
	}
	out := make([]domain.Bookmark, 0, len(f.rows))
	for _, b := range f.rows {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, ownerID, title, url string) (domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.failCreate {
		return domain.Bookmark{}, errStoreDown
	}
	f.seq++
	b := domain.Bookmark{
		ID:        fmt.Sprintf("bm-%d", f.seq),
		OwnerID:   ownerID,
		Title:     title,
		URL:       url,
		CreatedAt: f.base.Add(time.Duration(f.seq) * time.Second),
	}
	f.rows[b.ID] = b
	return b, nil
}

func (f *fakeStore) Delete(ctx context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete {
		return errStoreDown
	}
	b, ok := f.rows[id]
	if !ok || b.OwnerID != ownerID {
		return errors.New("not found")
	}
	delete(f.rows, id)
	return nil
}

// put inserts a row behind the store's back, as another device would.
func (f *fakeStore) put(b domain.Bookmark) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[b.ID] = b
}

// drop removes a row without any delete event, to simulate a missed one.
func (f *fakeStore) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
}

func (f *fakeStore) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeStore) creates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

// fakeFeed hands out subscriptions whose events tests fire by hand.
type fakeFeed struct {
	mu           sync.Mutex
	handlers     map[string][]feed.Handlers
	subscribeErr error
	unsubscribes int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{handlers: make(map[string][]feed.Handlers)}
}

func (f *fakeFeed) Subscribe(userID string, h feed.Handlers) (feed.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.handlers[userID] = append(f.handlers[userID], h)
	return &fakeSub{f: f}, nil
}

// Insert events fan out to every subscriber regardless of owner: the
// shared insert channel is unfiltered by design.
func (f *fakeFeed) emitInsert(b domain.Bookmark) {
	f.mu.Lock()
	var all []feed.Handlers
	for _, hs := range f.handlers {
		all = append(all, hs...)
	}
	f.mu.Unlock()

	for _, h := range all {
		if h.Insert != nil {
			h.Insert(b)
		}
	}
}

func (f *fakeFeed) emitDelete(userID, id string) {
	f.mu.Lock()
	hs := append([]feed.Handlers(nil), f.handlers[userID]...)
	f.mu.Unlock()

	for _, h := range hs {
		if h.Delete != nil {
			h.Delete(id)
		}
	}
}

func (f *fakeFeed) emitStatus(userID string, st feed.Status) {
	f.mu.Lock()
	hs := append([]feed.Handlers(nil), f.handlers[userID]...)
	f.mu.Unlock()

	for _, h := range hs {
		if h.Status != nil {
			h.Status(st)
		}
	}
}

type fakeSub struct {
	f    *fakeFeed
	once sync.Once
}

func (s *fakeSub) Unsubscribe() {
	s.once.Do(func() {
		s.f.mu.Lock()
		s.f.unsubscribes++
		s.f.mu.Unlock()
	})
}

// drainEvents empties the session event channel and returns what was
// buffered, bucketed by kind.
func drainEvents(s *Session) map[EventKind][]Event {
	out := make(map[EventKind][]Event)
	for {
		select {
		case ev := <-s.Events():
			out[ev.Kind] = append(out[ev.Kind], ev)
		default:
			return out
		}
	}
}

// eventually polls cond until it holds or the deadline passes.
func eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
