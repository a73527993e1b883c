// Package gateway is a development stand-in for the real ingestion gateway.
// It speaks the same wire contract the client targets: JSON REST with bearer
// access tokens, an http-only refresh cookie, and a text/event-stream
// job-progress feed. Useful for running the watch CLI locally and for
// integration tests.
package gateway

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docgate/docgate-go/internal/config"
	"github.com/docgate/docgate-go/internal/models"
)

// Server holds the dependencies for the mock gateway.
type Server struct {
	cfg      *config.Config
	hub      *Hub
	tokens   *TokenIssuer
	pipeline *Pipeline

	adminEmail string
	adminHash  string
}

// NewServer creates a mock gateway with a single admin account.
// The password is bcrypt-hashed; use auth.HashPassword for the hash.
func NewServer(cfg *config.Config, adminEmail, adminHash string) *Server {
	hub := NewHub()
	go hub.Run()

	s := &Server{
		cfg:        cfg,
		hub:        hub,
		tokens:     NewTokenIssuer(cfg),
		adminEmail: adminEmail,
		adminHash:  adminHash,
	}
	s.pipeline = NewPipeline(hub)
	return s
}

// Hub exposes the event hub, mainly for tests that publish events directly.
func (s *Server) Hub() *Hub { return s.hub }

// Pipeline exposes the fake pipeline runner.
func (s *Server) Pipeline() *Pipeline { return s.pipeline }

// Router sets up and returns the gateway's router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/refresh", s.handleRefresh)
	r.Post("/api/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		// No chi timeout middleware here: the stream stays open until
		// either side closes it.
		r.Get("/api/jobs/stream", s.handleJobStream)
		r.Get("/api/documents", s.handleListDocuments)
	})

	return r
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.pipeline.Documents()
	if docs == nil {
		docs = []models.Document{}
	}
	RespondWithJSON(w, http.StatusOK, docs)
}

// ListenAndServe runs the gateway until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("Mock gateway listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
