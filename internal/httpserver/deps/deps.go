package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nasirkc/smart-bookmark/internal/logger"
	"github.com/Nasirkc/smart-bookmark/internal/relay"
	"github.com/Nasirkc/smart-bookmark/internal/sync"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	AuthSecret string // HMAC key for bearer tokens

	Store        sync.Store     // persistent bookmark store
	Feed         sync.Feed      // change feed listener (nil => sessions run degraded)
	Relay        *relay.Hub     // in-process cross-view relay
	Sessions     *sync.Registry // live sessions, keyed by handle id
	RedisClient  *redis.Client  // for readiness and status checks
	PollInterval time.Duration  // fallback poll cadence for sessions

	RateLimitBurst  int // bucket capacity per user on mutation endpoints
	RateLimitRefill int // tokens refilled per user per minute
}
