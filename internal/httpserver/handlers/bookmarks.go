package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nasirkc/smart-bookmark/internal/auth"
	"github.com/Nasirkc/smart-bookmark/internal/domain"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver/deps"
	"github.com/Nasirkc/smart-bookmark/internal/logger"
	storeredis "github.com/Nasirkc/smart-bookmark/internal/store/redis"
	"github.com/Nasirkc/smart-bookmark/internal/sync"
)

type createRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// session resolves the caller's live session from the request header,
// enforcing that the handle belongs to the authenticated user.
func session(d deps.Deps, r *http.Request, userID string) *sync.Session {
	id := r.Header.Get(SessionHeader)
	if id == "" || d.Sessions == nil {
		return nil
	}
	s, ok := d.Sessions.Get(id, userID)
	if !ok {
		return nil
	}
	return s
}

// ListBookmarks returns the user's bookmarks, newest first. When the
// request names a live session its reconciled snapshot is served,
// pending flags included; otherwise the store is read directly.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.CurrentUser(r.Context())

		if s := session(d, r, userID); s != nil {
			writeJSON(w, http.StatusOK, toList(s.Bookmarks(), s.Mutator().Pending))
			return
		}

		rows, err := d.Store.List(r.Context(), userID)
		if err != nil {
			d.Logger.Error("bookmark list failed",
				logger.String("user_id", userID),
				logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "store_error", "could not load bookmarks")
			return
		}
		writeJSON(w, http.StatusOK, toList(rows, nil))
	}
}

// CreateBookmark validates and persists a new bookmark. Validation
// failures report per-field messages and never reach the store.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.CurrentUser(r.Context())

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be JSON")
			return
		}

		if s := session(d, r, userID); s != nil {
			b, err := s.Mutator().Create(r.Context(), req.Title, req.URL)
			if err != nil {
				writeCreateError(w, d, userID, err)
				return
			}
			writeJSON(w, http.StatusCreated, toView(b))
			return
		}

		// No live session: validate, persist, and fan out through the
		// relay so any open views of this user still converge.
		title, url, verr := domain.ValidateCreate(req.Title, req.URL)
		if verr != nil {
			writeValidation(w, verr)
			return
		}
		b, err := d.Store.Create(r.Context(), userID, title, url)
		if err != nil {
			writeCreateError(w, d, userID, err)
			return
		}
		if d.Relay != nil {
			d.Relay.Broadcast(b)
		}
		writeJSON(w, http.StatusCreated, toView(b))
	}
}

func writeCreateError(w http.ResponseWriter, d deps.Deps, userID string, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeValidation(w, verr)
		return
	}
	d.Logger.Error("bookmark create failed",
		logger.String("user_id", userID),
		logger.Error(err))
	writeError(w, http.StatusServiceUnavailable, "store_error", "could not save bookmark")
}

// DeleteBookmark removes one of the user's bookmarks. The row only
// leaves the visible set once the deletion is confirmed, so a failed
// delete leaves the list intact.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.CurrentUser(r.Context())
		id := chi.URLParam(r, "id")

		var err error
		if s := session(d, r, userID); s != nil {
			err = s.Mutator().Delete(r.Context(), id)
		} else {
			err = d.Store.Delete(r.Context(), userID, id)
		}

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, sync.ErrNotVisible), errors.Is(err, storeredis.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "bookmark not found")
		default:
			d.Logger.Error("bookmark delete failed",
				logger.String("user_id", userID),
				logger.String("bookmark_id", id),
				logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "store_error", "could not delete bookmark")
		}
	}
}

// ResyncBookmarks forces a full refetch on the caller's session. It is
// the manual recovery path when the change feed is degraded.
func ResyncBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.CurrentUser(r.Context())

		s := session(d, r, userID)
		if s == nil {
			writeError(w, http.StatusBadRequest, "no_session", "resync requires a live session id")
			return
		}
		if err := s.Resync(r.Context()); err != nil {
			d.Logger.Error("manual resync failed",
				logger.String("user_id", userID),
				logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "store_error", "could not resync bookmarks")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
