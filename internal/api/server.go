// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

Two surfaces share the router: the JSON API under /api/v1, and the
server-rendered pages guarded by the session gate.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lehoangduc/academix/internal/auth"
	"github.com/lehoangduc/academix/internal/catalog"
	"github.com/lehoangduc/academix/internal/media"
	"github.com/lehoangduc/academix/internal/platform/config"
	"github.com/lehoangduc/academix/internal/platform/constants"
	"github.com/lehoangduc/academix/internal/platform/middleware"
	"github.com/lehoangduc/academix/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle and enrollment routes.
	Auth *auth.Handler

	// Catalog handles the course and article surfaces.
	Catalog *catalog.Handler

	// Media handles presigned upload issuance.
	Media *media.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, gate *middleware.SessionGate, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix. Bearer and
	// cookie credentials are resolved by Authenticate; the session gate has no
	// jurisdiction here.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Authenticate(verifier))

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/media", requireInstructor(h.Media.Routes()))
		api.Mount("/instructor", requireInstructor(h.Catalog.AuthoringRoutes()))
		api.Mount("/", h.Catalog.PublicRoutes())
	})

	// # Page Surface
	// Server-rendered pages pass through the session gate, which verifies,
	// refreshes, or denies before any page handler runs.
	r.Group(func(pages chi.Router) {
		pages.Use(gate.Handler)
		registerPages(pages)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// requireInstructor stacks the authenticated-session and role checks used by
// the authoring and media surfaces.
func requireInstructor(next http.Handler) http.Handler {
	return middleware.RequireAuth(middleware.RequireRole(sec.RoleInstructor)(next))
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
