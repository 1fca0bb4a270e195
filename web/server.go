// ABOUTME: HTTP server with chi router exposing networks, analyses, and simulations as a JSON API.
// ABOUTME: Configures all routes and owns the stores, metrics, and in-flight analysis registry.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/statemap-research/basin/render"
	"github.com/statemap-research/basin/store"
)

// Default session store sizing for interactive simulations.
const (
	DefaultMaxSessions = 100
	DefaultSessionTTL  = 30 * time.Minute
)

// Rendered SVGs are immutable for a given DOT input, so a generous TTL
// just bounds memory.
const renderCacheTTL = 10 * time.Minute

// analysisRun tracks an in-flight analysis so it can be cancelled.
type analysisRun struct {
	cancel func()
}

// Server routes the basin HTTP API. Networks and analyses persist in the
// SQLite store; simulations are ephemeral in-memory sessions.
type Server struct {
	router   chi.Router
	store    *store.Store
	sessions *SessionStore
	metrics  *Metrics

	// renderDOT turns DOT text into SVG. Tests swap in a fake so the
	// suite runs without graphviz installed.
	renderDOT render.Func

	mu   sync.RWMutex
	runs map[string]*analysisRun
}

// NewServer creates a Server with all routes configured.
func NewServer(st *store.Store) *Server {
	s := &Server{
		store:     st,
		sessions:  NewSessionStore(DefaultMaxSessions, DefaultSessionTTL),
		metrics:   NewMetrics(),
		renderDOT: render.NewCache(render.DOT, renderCacheTTL).DOT,
		runs:      make(map[string]*analysisRun),
	}

	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/networks", func(r chi.Router) {
			r.Get("/", s.handleListNetworks)
			r.Post("/", s.handleCreateNetwork)
			r.Post("/import", s.handleImportNetwork)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetNetwork)
				r.Put("/", s.handleUpdateNetwork)
				r.Delete("/", s.handleDeleteNetwork)
				r.Get("/export", s.handleExportNetwork)
				r.Get("/wiring.dot", s.handleWiringDOT)
				r.Get("/wiring.svg", s.handleWiringSVG)
				r.Get("/notes", s.handleGetNotes)
				r.Put("/notes", s.handleUpdateNotes)
				r.Get("/notes/html", s.handleNotesHTML)
				r.Get("/analyses", s.handleListAnalyses)
				r.Post("/analyses", s.handleStartAnalysis)
			})
		})

		r.Route("/analyses/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetAnalysis)
			r.Post("/cancel", s.handleCancelAnalysis)
			r.Get("/stategraph.dot", s.handleStateGraphDOT)
			r.Get("/stategraph.svg", s.handleStateGraphSVG)
		})

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/", s.handleCreateSimulation)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSimulation)
				r.Delete("/", s.handleDeleteSimulation)
				r.Post("/step", s.handleSimulationStep)
				r.Post("/reset", s.handleSimulationReset)
				r.Post("/toggle", s.handleSimulationToggle)
			})
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the
// chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// StartSessionCleanup launches the background sweep of idle simulation
// sessions and returns a stop function.
func (s *Server) StartSessionCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.sessions.Cleanup()
				s.metrics.SetSimulationSessions(s.sessions.Len())
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store failures onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// readJSON decodes the request body into v, rejecting unknown fields so
// typos in request payloads fail loudly.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
