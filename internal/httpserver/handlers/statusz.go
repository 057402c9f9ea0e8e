package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/httpserver/deps"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	LiveSessions *int   `json:"live_sessions,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Impact       string `json:"impact,omitempty"`
	Error        string `json:"error,omitempty"`
}

type statuszResponse struct {
	SyncMode   string                     `json:"sync_mode"`
	Components map[string]componentStatus `json:"components"`
}

// Statusz reports per-component health: Redis reachability, the change
// feed's viability, and how many live sessions are attached.
func Statusz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		redisStatus := checkRedis(d)

		sessionCount := 0
		if d.Sessions != nil {
			sessionCount = d.Sessions.Len()
		}

		components := map[string]componentStatus{
			"redis": redisStatus,
			"feed": {
				OK:     d.Feed != nil && redisStatus.OK,
				Mode:   feedMode(d, redisStatus),
				Impact: feedImpact(d, redisStatus),
			},
			"sessions": {
				OK:           true,
				LiveSessions: &sessionCount,
			},
		}

		response := statuszResponse{
			SyncMode:   determineSyncMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineSyncMode(components map[string]componentStatus) string {
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "critical" // no store = nothing works
	}
	if feed, exists := components["feed"]; exists && !feed.OK {
		return "polling" // store up, push channel down
	}
	return "realtime"
}

func feedMode(d deps.Deps, redisStatus componentStatus) string {
	if d.Feed == nil || !redisStatus.OK {
		return "polling-fallback"
	}
	return "push"
}

func feedImpact(d deps.Deps, redisStatus componentStatus) string {
	if d.Feed == nil || !redisStatus.OK {
		return "updates delayed up to one poll interval"
	}
	return "realtime updates"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:    false,
			Error: "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:    false,
			Error: "timeout",
		}
	}

	return componentStatus{OK: true}
}
