package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
	"github.com/Nasirkc/smart-bookmark/internal/feed"
	"github.com/Nasirkc/smart-bookmark/internal/logger"
	"github.com/Nasirkc/smart-bookmark/internal/relay"
)

// DefaultPollInterval is the fallback poll cadence when none is configured.
const DefaultPollInterval = 5 * time.Second

// Store is the persistent bookmark store a session consumes.
type Store interface {
	List(ctx context.Context, ownerID string) ([]domain.Bookmark, error)
	Create(ctx context.Context, ownerID, title, url string) (domain.Bookmark, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Feed opens change-feed subscriptions.
type Feed interface {
	Subscribe(userID string, h feed.Handlers) (feed.Subscription, error)
}

// Options configures a Session.
type Options struct {
	OwnerID      string
	Store        Store
	Feed         Feed       // nil = no push channel, session runs degraded
	Relay        *relay.Hub // nil = feed-only propagation
	Logger       logger.Logger
	PollInterval time.Duration // defaults to DefaultPollInterval
}

// Session is one view of one user's bookmarks. It owns a Reconciler and
// wires all four producers into it: the initial load, the change feed,
// the cross-tab relay, and fallback polling. Local mutations enter
// through the session's Mutator. Consumers observe the list via
// Bookmarks and react to Events.
type Session struct {
	ownerID string
	store   Store
	logger  logger.Logger

	rec  *Reconciler
	mut  *Mutator
	sub  feed.Subscription
	port *relay.Port
	poll *poller

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	health Health

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession loads the user's current bookmarks and attaches the feed
// and relay. The passed context bounds the initial load only; teardown
// happens through Close, which releases every acquired resource.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.OwnerID == "" {
		return nil, fmt.Errorf("session requires an owner id")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session requires a store")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("session requires a logger")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	sctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ownerID: opts.OwnerID,
		store:   opts.Store,
		logger:  opts.Logger,
		rec:     NewReconciler(opts.OwnerID),
		ctx:     sctx,
		cancel:  cancel,
		health:  HealthUnknown,
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}
	s.poll = newPoller(opts.PollInterval, s.pollOnce, opts.Logger)
	s.mut = newMutator(s)

	rows, err := opts.Store.List(ctx, opts.OwnerID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("initial bookmark load: %w", err)
	}
	s.rec.SetInitial(rows)

	if opts.Feed != nil {
		sub, err := opts.Feed.Subscribe(opts.OwnerID, feed.Handlers{
			Insert: s.ingestExternal,
			Delete: s.ingestDelete,
			Status: s.handleStatus,
		})
		if err != nil {
			s.logger.Warn("feed subscription failed, falling back to polling",
				logger.String("user_id", opts.OwnerID),
				logger.Error(err))
			s.setHealth(HealthDegraded)
		} else {
			s.sub = sub
		}
	} else {
		s.setHealth(HealthDegraded)
	}

	if opts.Relay != nil {
		s.port = opts.Relay.Open(opts.OwnerID, s.ingestExternal)
	}

	return s, nil
}

// OwnerID returns the authenticated user this session belongs to
func (s *Session) OwnerID() string { return s.ownerID }

// Mutator returns the session's mutation orchestrator
func (s *Session) Mutator() *Mutator { return s.mut }

// Bookmarks returns the current ordered, deduplicated list.
func (s *Session) Bookmarks() []domain.Bookmark { return s.rec.Bookmarks() }

// Health returns the current connection health
func (s *Session) Health() Health {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.health
}

// Events delivers session notifications. The channel is never closed;
// select against Done for teardown.
func (s *Session) Events() <-chan Event { return s.events }

// Done is closed when the session is torn down
func (s *Session) Done() <-chan struct{} { return s.done }

// Resync forces a full refetch and merge. Exposed as the manual recovery
// action when the feed is degraded.
func (s *Session) Resync(ctx context.Context) error {
	rows, err := s.store.List(ctx, s.ownerID)
	if err != nil {
		return fmt.Errorf("resync: %w", err)
	}
	if s.rec.Resync(rows) {
		s.emit(Event{Kind: EventList})
	}
	return nil
}

// Close tears the session down: feed subscription, relay port, and any
// active polling are all released. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.sub != nil {
			s.sub.Unsubscribe()
		}
		s.port.Close()
		s.poll.stop()
		close(s.done)
	})
}

// ingestExternal handles inserts arriving from the feed or the relay.
// The id-already-known check keeps a local insert's echo from producing
// a second notice.
func (s *Session) ingestExternal(b domain.Bookmark) {
	if s.rec.Insert(b) {
		s.emit(Event{Kind: EventList})
		s.emit(Event{Kind: EventNotice, Bookmark: b})
	}
}

// ingestLocal handles the result of this view's own create.
func (s *Session) ingestLocal(b domain.Bookmark) {
	if s.rec.Insert(b) {
		s.emit(Event{Kind: EventList})
	}
}

func (s *Session) ingestDelete(id string) {
	if s.rec.Delete(id) {
		s.emit(Event{Kind: EventList})
	}
}

func (s *Session) handleStatus(st feed.Status) {
	s.logger.Debug("feed status transition",
		logger.String("user_id", s.ownerID),
		logger.String("status", string(st)))
	s.setHealth(healthForStatus(st))
}

func (s *Session) setHealth(h Health) {
	s.mu.Lock()
	if s.health == h {
		s.mu.Unlock()
		return
	}
	s.health = h
	s.mu.Unlock()

	s.emit(Event{Kind: EventHealth, Health: h})

	switch h {
	case HealthDegraded:
		s.poll.start(s.ctx)
	case HealthConnected:
		s.poll.stop()
	}
}

func (s *Session) pollOnce(ctx context.Context) {
	rows, err := s.store.List(ctx, s.ownerID)
	if err != nil {
		s.logger.Warn("fallback poll failed",
			logger.String("user_id", s.ownerID),
			logger.Error(err))
		return
	}
	if s.rec.Resync(rows) {
		s.emit(Event{Kind: EventList})
	}
}

// emit never blocks a producer. A slow consumer loses the signal, not
// the state: list events are re-derived from the snapshot on receive.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
