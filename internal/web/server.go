// Package web provides the HTTP server for the stocklot matching service.
//
// The web layer is the caller of the matching engine: it holds the two
// uploaded tables (stocklot and client needs), passes them into the engine
// on each request, and delivers the produced files. The engine itself stays
// stateless.
package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roxaf/stockmatch/internal/audit"
	"github.com/roxaf/stockmatch/internal/config"
	"github.com/roxaf/stockmatch/internal/match"
	"github.com/roxaf/stockmatch/internal/table"
	mw "github.com/roxaf/stockmatch/internal/web/middleware"
)

// Server is the HTTP server for the matching application.
type Server struct {
	engine   *match.Engine
	recorder *audit.Recorder
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server

	// Current uploads. A new upload replaces the reference; in-flight
	// requests keep working on the table they already read.
	mu       sync.RWMutex
	stocklot *table.Table
	needs    *table.Table
}

// NewServer creates a Server. The recorder may be nil when no database is
// configured.
func NewServer(engine *match.Engine, recorder *audit.Recorder, cfg *config.Config) *Server {
	s := &Server{
		engine:   engine,
		recorder: recorder,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Table uploads and session state
		r.Post("/upload/{kind}", s.handleUpload)
		r.Get("/status", s.handleStatus)
		r.Post("/reset", s.handleReset)

		// Match operations
		r.Post("/match/manual", s.handleMatchManual)
		r.Post("/match/priority", s.handleMatchPriority)
		r.Get("/preview", s.handlePreview)

		// Run history (empty when no database is configured)
		r.Get("/history", s.handleHistory)
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests and blocks until the server
// stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// tables returns the currently held uploads. Either may be nil.
func (s *Server) tables() (stocklot, needs *table.Table) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stocklot, s.needs
}

// setTable replaces one of the held uploads.
func (s *Server) setTable(kind string, t *table.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == kindStocklot {
		s.stocklot = t
	} else {
		s.needs = t
	}
}

// resetTables drops both uploads.
func (s *Server) resetTables() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocklot = nil
	s.needs = nil
}
