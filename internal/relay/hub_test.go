package relay

import (
	"sync"
	"testing"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
)

func TestPublishReachesSiblingsOnly(t *testing.T) {
	hub := NewHub()

	var got []string
	sender := hub.Open("user-1", func(b domain.Bookmark) {
		t.Errorf("publisher should not receive its own message")
	})
	_ = hub.Open("user-1", func(b domain.Bookmark) {
		got = append(got, b.ID)
	})

	sender.Publish(domain.Bookmark{ID: "bm-1", OwnerID: "user-1"})

	if len(got) != 1 || got[0] != "bm-1" {
		t.Errorf("sibling received %v, want [bm-1]", got)
	}
}

func TestPublishDoesNotCrossUsers(t *testing.T) {
	hub := NewHub()

	sender := hub.Open("user-1", nil)
	_ = hub.Open("user-2", func(b domain.Bookmark) {
		t.Errorf("user-2 should not receive user-1 messages")
	})

	sender.Publish(domain.Bookmark{ID: "bm-1", OwnerID: "user-1"})
}

func TestBroadcastReachesAllPorts(t *testing.T) {
	hub := NewHub()

	var mu sync.Mutex
	received := 0
	for i := 0; i < 3; i++ {
		hub.Open("user-1", func(b domain.Bookmark) {
			mu.Lock()
			received++
			mu.Unlock()
		})
	}

	hub.Broadcast(domain.Bookmark{ID: "bm-1", OwnerID: "user-1"})

	if received != 3 {
		t.Errorf("Broadcast() reached %d ports, want 3", received)
	}
}

func TestCloseDetachesPort(t *testing.T) {
	hub := NewHub()

	sender := hub.Open("user-1", nil)
	closed := hub.Open("user-1", func(b domain.Bookmark) {
		t.Errorf("closed port should not receive messages")
	})

	closed.Close()
	closed.Close() // idempotent

	sender.Publish(domain.Bookmark{ID: "bm-1", OwnerID: "user-1"})

	if hub.Count("user-1") != 1 {
		t.Errorf("Count() = %d, want 1", hub.Count("user-1"))
	}
}

func TestNilPortIsSafe(t *testing.T) {
	var p *Port
	p.Publish(domain.Bookmark{ID: "bm-1", OwnerID: "user-1"})
	p.Close()

	var h *Hub
	h.Broadcast(domain.Bookmark{ID: "bm-1", OwnerID: "user-1"})
}

func TestConcurrentPublish(t *testing.T) {
	hub := NewHub()

	var mu sync.Mutex
	received := 0
	_ = hub.Open("user-1", func(b domain.Bookmark) {
		mu.Lock()
		received++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			port := hub.Open("user-1", nil)
			defer port.Close()
			port.Publish(domain.Bookmark{ID: "bm", OwnerID: "user-1"})
		}()
	}
	wg.Wait()

	if received != 50 {
		t.Errorf("received %d messages, want 50", received)
	}
}
