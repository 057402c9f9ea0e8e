package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
	"github.com/Nasirkc/smart-bookmark/internal/logger"
	redisstore "github.com/Nasirkc/smart-bookmark/internal/store/redis"
)

// Handlers receives change-feed callbacks. Nil members are skipped.
//
// Insert events arrive for every user and must be filtered by owner_id
// downstream; delete events only arrive on the subscribing user's channel.
type Handlers struct {
	Insert func(domain.Bookmark)
	Delete func(id string)
	Status func(Status)
}

// Subscription is one logical feed subscription. Unsubscribe is
// idempotent and must be called on teardown to release the connection.
type Subscription interface {
	Unsubscribe()
}

// Listener opens change-feed subscriptions backed by Redis pub/sub.
type Listener struct {
	client     *redis.Client
	logger     logger.Logger
	retryDelay time.Duration
}

// NewListener creates a new feed listener
func NewListener(client *redis.Client, log logger.Logger) *Listener {
	return &Listener{
		client:     client,
		logger:     log,
		retryDelay: time.Second,
	}
}

// receiver is the subset of redis.PubSub the receive loop consumes.
type receiver interface {
	Receive(ctx context.Context) (interface{}, error)
}

// Subscribe opens one subscription for userID covering the shared insert
// channel and the user's delete channel on a single connection. Callbacks
// fire on the subscription's own goroutine.
func (l *Listener) Subscribe(userID string, h Handlers) (Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())

	insertCh := redisstore.InsertChannel()
	deleteCh := redisstore.DeleteChannel(userID)

	ps := l.client.Subscribe(ctx, insertCh, deleteCh)

	sub := &subscription{
		ps:     ps,
		cancel: cancel,
	}

	go l.receive(ctx, ps, deleteCh, h)

	l.logger.Debug("feed subscription opened",
		logger.String("user_id", userID))

	return sub, nil
}

func (l *Listener) receive(ctx context.Context, ps receiver, deleteCh string, h Handlers) {
	// Both channels registered on one connection; announce subscribed
	// once the second confirmation lands.
	const wantChannels = 2

	for {
		msg, err := ps.Receive(ctx)
		if err != nil {
			st := classifyError(ctx, err)
			emitStatus(h, st)
			if st == StatusClosed {
				return
			}
			// The next Receive re-dials and re-subscribes, which lands
			// back on the *redis.Subscription branch below and re-emits
			// subscribed. Back off so a dead Redis is not hammered.
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.retryDelay):
			}
			continue
		}

		switch m := msg.(type) {
		case *redis.Subscription:
			if m.Kind == "subscribe" && m.Count >= wantChannels {
				emitStatus(h, StatusSubscribed)
			}

		case *redis.Message:
			if m.Channel == deleteCh {
				if h.Delete != nil {
					h.Delete(m.Payload)
				}
				continue
			}
			var b domain.Bookmark
			if err := json.Unmarshal([]byte(m.Payload), &b); err != nil {
				l.logger.Warn("dropping malformed insert event",
					logger.Error(err))
				continue
			}
			if h.Insert != nil {
				h.Insert(b)
			}
		}
	}
}

func classifyError(ctx context.Context, err error) Status {
	var netErr net.Error
	switch {
	case ctx.Err() != nil, errors.Is(err, redis.ErrClosed):
		return StatusClosed
	case errors.As(err, &netErr) && netErr.Timeout():
		return StatusTimedOut
	default:
		return StatusChannelError
	}
}

func emitStatus(h Handlers, st Status) {
	if h.Status != nil {
		h.Status(st)
	}
}

type subscription struct {
	ps     *redis.PubSub
	cancel context.CancelFunc
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		_ = s.ps.Close()
	})
}
