// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/core/archivo"
	"github.com/taibuivan/comunidad/internal/core/blog"
	"github.com/taibuivan/comunidad/internal/core/contact"
	"github.com/taibuivan/comunidad/internal/core/delegation"
	"github.com/taibuivan/comunidad/internal/core/event"
	"github.com/taibuivan/comunidad/internal/platform/config"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/metrics"
	"github.com/taibuivan/comunidad/internal/platform/middleware"
	"github.com/taibuivan/comunidad/internal/users/account"
	"github.com/taibuivan/comunidad/internal/users/auth"
	"github.com/taibuivan/comunidad/internal/users/roles"
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
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when Postgres and Redis respond.
	Readiness http.HandlerFunc

	Auth        *auth.Handler
	Account     *account.Handler
	Roles       *roles.Handler
	Blog        *blog.Handler
	Events      *event.Handler
	Files       *archivo.Handler
	Delegations *delegation.Handler
	Contact     *contact.Handler
}

// Dependencies carries the cross-cutting collaborators of the router.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Verifier middleware.TokenVerifier
	Guard    *access.Guard

	// Metrics may be nil, in which case /metrics is not mounted.
	Metrics *metrics.Metrics
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, deps Dependencies, h Handlers) *Server {
	r := NewRouter(context, deps, h)

	return &Server{
		router: r,
		log:    deps.Logger,
		httpServer: &http.Server{
			Addr:              ":" + deps.Config.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree. It is exported for end-to-end tests.
func NewRouter(context context.Context, deps Dependencies, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.SecureHeaders(deps.Config.IsProduction()))
	r.Use(deps.Metrics.Middleware)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.CORS(deps.Config))
	r.Use(middleware.Authenticate(deps.Verifier))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if deps.Metrics != nil && deps.Config.MetricsEnabled {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/me", h.Account.Routes())

		// Public site
		api.Mount("/blog", h.Blog.Routes())
		api.Mount("/events", h.Events.Routes())
		api.Mount("/files", h.Files.Routes())
		api.Mount("/delegations", h.Delegations.Routes())
		api.Mount("/contact", h.Contact.Routes())

		// Admin panel. Each sub-router applies its own action rule behind
		// the coarse panel gate.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(deps.Guard.Require(access.ActionAdminPanel))

			admin.Mount("/roles", h.Roles.Routes())
			admin.Mount("/users", h.Roles.UserRoutes())
			admin.Mount("/categories", h.Blog.CategoryRoutes())
			admin.Mount("/posts", h.Blog.PostRoutes())
			admin.Mount("/events", h.Events.AdminRoutes())
			admin.Mount("/files", h.Files.AdminRoutes())
			admin.Mount("/delegations", h.Delegations.AdminRoutes())
			admin.Mount("/contact", h.Contact.AdminRoutes())
		})
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
