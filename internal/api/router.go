package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(s.metricsMiddleware)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.With(s.rateLimit(routeDefault)).Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	if s.cfg.Docs.Enabled {
		r.Get("/apispec.json", s.handleAPISpec)
		r.Handle("/apidocs", http.RedirectHandler("/apidocs/", http.StatusMovedPermanently))
		r.Get("/apidocs/", s.handleAPIDocs)
	}

	r.Get(s.websocketPath(), s.handleWebSocket)

	r.Route("/todos", func(r chi.Router) {
		r.With(s.rateLimit(routeList)).Get("/", s.handleListTodos)
		r.With(s.rateLimit(routeCreate), s.authMiddleware).Post("/", s.handleCreateTodo)

		r.With(s.rateLimit(routeRead)).Get("/{id:[0-9]+}", s.handleGetTodo)
		r.With(s.rateLimit(routeUpdate), s.authMiddleware).Put("/{id:[0-9]+}", s.handleUpdateTodo)
		r.With(s.rateLimit(routeDelete), s.authMiddleware).Delete("/{id:[0-9]+}", s.handleDeleteTodo)
	})

	return r
}

// websocketPath returns the configured change-feed path.
func (s *Server) websocketPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}
