package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public, no auth required.
	r.Get("/healthz", g.handleHealth())
	if g.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(g.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		if g.config.Auth.IsConfigured() {
			r.Use(authMiddleware(g.config.Auth, g.logger))
		}
		r.Use(middleware.RequestSize(g.config.MaxBodyBytes))

		r.Get("/status", g.handleStatus())
		r.Post("/messages", g.handleChat())
		r.Post("/memory", g.handleRemember())
		r.Delete("/memory", g.handleClear())
		r.Get("/context", g.handleContext())
		r.Get("/ws", g.handleWebsocket())
	})

	return r
}
