// Package internal is the operator-facing admin API. It sits beside the bot
// on the same record store and exposes read-only queries, a manual sweep
// trigger and an Excel export, all behind JWT auth.
package internal

import (
	"net/http"

	"lease-recert-bot/internal/auth"
	"lease-recert-bot/internal/config"
	"lease-recert-bot/internal/store"
	"lease-recert-bot/internal/sweeper"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	Store      *store.Store
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Sweeper    *sweeper.Sweeper
}

func NewServer(st *store.Store, sw *sweeper.Sweeper, metrics *Metrics, cfg *config.Config) *Server {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)

	s := &Server{
		Store:      st,
		Router:     chi.NewRouter(),
		JWTManager: jwtManager,
		Metrics:    metrics,
		Sweeper:    sw,
	}

	// Middleware must be registered before any route.
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
	}

	// Public routes, no auth.
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	if cfg.EnableMetrics {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.JWTManager))
		s.mountProtectedRoutes(r)
	})

	return s
}

// mountProtectedRoutes mounts the routes that require a valid token. Reads
// need any token; the sweep trigger and the export need the admin role.
func (s *Server) mountProtectedRoutes(r chi.Router) {
	r.Get("/leases", s.listLeases)
	r.Get("/vendors", s.listVendors)
	r.Get("/vendors/{id}", s.getVendor)

	r.Post("/sweeps/run", auth.MustRole("admin")(http.HandlerFunc(s.runSweep)).ServeHTTP)
	r.Get("/exports/leases.xlsx", auth.MustRole("admin")(http.HandlerFunc(s.exportLeases)).ServeHTTP)
}
