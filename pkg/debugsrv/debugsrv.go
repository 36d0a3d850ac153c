// Package debugsrv exposes a minimal HTTP surface for inspecting a running
// gobtree instance: a Prometheus scrape endpoint and a small JSON
// diagnostics page. It carries none of the teacher's REST API (no
// key/value routes, no relationships, no swagger) since a B-tree package
// has no public read/write surface to expose over HTTP — only its
// operational health.
package debugsrv

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsProvider supplies the fields rendered at /debug/stats. A *BTree
// doesn't implement this directly (it has no notion of "degree" as a
// runtime stat beyond its own Degree() method); callers compose one from
// whatever their deployment wants surfaced.
type StatsProvider interface {
	DebugStats() map[string]any
}

// Config controls how the debug server binds and what it reports.
type Config struct {
	Addr  string
	Stats StatsProvider
}

// Server is a small chi router wrapping /metrics and /debug/stats.
type Server struct {
	router chi.Router
	config Config
}

// New builds a debug server. It registers routes but does not listen.
func New(config Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/debug/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		stats := map[string]any{}
		if config.Stats != nil {
			stats = config.Stats.DebugStats()
		}
		_ = json.NewEncoder(w).Encode(stats)
	})

	return &Server{router: r, config: config}
}

// ListenAndServe starts the debug server, blocking until it exits.
func (s *Server) ListenAndServe() error {
	addr := s.config.Addr
	if addr == "" {
		addr = ":6060"
	}
	fmt.Printf("debug server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the underlying router for embedding into a larger mux.
func (s *Server) Handler() http.Handler { return s.router }
