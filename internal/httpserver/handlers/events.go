package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/auth"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver/deps"
	"github.com/Nasirkc/smart-bookmark/internal/logger"
	"github.com/Nasirkc/smart-bookmark/internal/sync"
)

const heartbeatInterval = 25 * time.Second

type sessionPayload struct {
	SessionID string `json:"session_id"`
}

type healthPayload struct {
	Health string `json:"health"`
}

// Events streams a user's bookmark state over SSE. Each connection owns
// one session: the initial snapshot is sent first, then list, health,
// and notice events as they happen. The session id event lets the
// client route its mutations through this view.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.CurrentUser(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
			return
		}

		s, err := sync.NewSession(r.Context(), sync.Options{
			OwnerID:      userID,
			Store:        d.Store,
			Feed:         d.Feed,
			Relay:        d.Relay,
			Logger:       d.Logger,
			PollInterval: d.PollInterval,
		})
		if err != nil {
			d.Logger.Error("session open failed",
				logger.String("user_id", userID),
				logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "store_error", "could not open a session")
			return
		}

		handle := d.Sessions.Add(s)
		defer func() {
			d.Sessions.Remove(handle)
			s.Close()
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		if err := writeSSE(w, flusher, "session", sessionPayload{SessionID: handle}); err != nil {
			return
		}
		if err := writeSSE(w, flusher, "list", toList(s.Bookmarks(), s.Mutator().Pending)); err != nil {
			return
		}
		if err := writeSSE(w, flusher, "health", healthPayload{Health: string(s.Health())}); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-s.Done():
				return
			case ev := <-s.Events():
				if err := writeEvent(w, flusher, s, ev); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, s *sync.Session, ev sync.Event) error {
	switch ev.Kind {
	case sync.EventList:
		// Re-read the snapshot on receive; the event is only a signal.
		return writeSSE(w, flusher, "list", toList(s.Bookmarks(), s.Mutator().Pending))
	case sync.EventHealth:
		return writeSSE(w, flusher, "health", healthPayload{Health: string(ev.Health)})
	case sync.EventNotice:
		return writeSSE(w, flusher, "notice", toView(ev.Bookmark))
	}
	return nil
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
