package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
)

// SessionHeader carries the issuing view's session handle on mutation
// requests so pending state and relay publication happen on the right
// session.
const SessionHeader = "X-Session-ID"

type bookmarkView struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	DisplayURL string    `json:"display_url"`
	FaviconURL string    `json:"favicon_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Pending    bool      `json:"pending,omitempty"`
}

type listResponse struct {
	Bookmarks []bookmarkView `json:"bookmarks"`
	Count     int            `json:"count"`
}

func toView(b domain.Bookmark) bookmarkView {
	return bookmarkView{
		ID:         b.ID,
		Title:      b.Title,
		URL:        b.URL,
		DisplayURL: domain.DisplayURL(b.URL),
		FaviconURL: domain.FaviconURL(b.URL),
		CreatedAt:  b.CreatedAt,
	}
}

func toList(rows []domain.Bookmark, pending func(id string) bool) listResponse {
	views := make([]bookmarkView, 0, len(rows))
	for _, b := range rows {
		v := toView(b)
		if pending != nil {
			v.Pending = pending(b.ID)
		}
		views = append(views, v)
	}
	return listResponse{Bookmarks: views, Count: len(views)}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func writeValidation(w http.ResponseWriter, verr *domain.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorBody{
		Code:   "validation_error",
		Fields: verr.Fields,
	}})
}
