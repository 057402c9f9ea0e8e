package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/logger"
)

type contextKey struct{}

var userKey contextKey

// CurrentUser returns the authenticated user id stored by RequireUser.
func CurrentUser(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey).(string)
	return id, ok && id != ""
}

// WithUser returns a context carrying a user id. Exposed for handler tests.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// RequireUser gates a route on a valid bearer token and stores the
// resolved user id in the request context. Unauthenticated requests get
// a 401 with a login hint instead of a redirect; the client owns
// navigation.
func RequireUser(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, aerr := ParseBearer(r.Header.Get("Authorization"), secret, time.Now())
			if aerr != nil {
				log.Debug("rejected request",
					logger.String("path", r.URL.Path),
					logger.String("reason", aerr.Message))
				writeError(w, aerr)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID)))
		})
	}
}

func writeError(w http.ResponseWriter, aerr *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(aerr.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    aerr.Code,
			"message": aerr.Message,
		},
		"login": "/login",
	})
}
