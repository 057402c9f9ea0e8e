package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Nasirkc/smart-bookmark/internal/auth"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver/deps"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver/handlers"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	rateLimit := mw.RateLimit(mw.RateLimitConfig{
		Burst:               d.RateLimitBurst,
		RefillPerUserPerMin: d.RateLimitRefill,
	})

	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(auth.RequireUser(d.AuthSecret, d.Logger))

		r.Get("/", handlers.ListBookmarks(d))
		r.Get("/events", handlers.Events(d))

		r.With(rateLimit).Post("/", handlers.CreateBookmark(d))
		r.With(rateLimit).Delete("/{id}", handlers.DeleteBookmark(d))
		r.With(rateLimit).Post("/resync", handlers.ResyncBookmarks(d))
	})
}
