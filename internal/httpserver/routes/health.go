package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Nasirkc/smart-bookmark/internal/httpserver/deps"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver/handlers"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/statusz", handlers.Statusz(d))
}
