package sync

import "github.com/Nasirkc/smart-bookmark/internal/feed"

// Health is the per-view connection state derived from feed status
// transitions. It drives fallback polling: degraded starts it, connected
// stops it.
type Health string

const (
	HealthUnknown   Health = "unknown"
	HealthConnected Health = "connected"
	HealthDegraded  Health = "degraded"
)

func healthForStatus(st feed.Status) Health {
	if st == feed.StatusSubscribed {
		return HealthConnected
	}
	return HealthDegraded
}
