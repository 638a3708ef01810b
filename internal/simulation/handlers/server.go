// Package handlers provides the HTTP server and route handlers for the
// simulation API, bridging the transport layer and business logic.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ecosim/bizworld/internal/simulation/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server holds the HTTP server serving the simulation API.
type Server struct {
	httpServer   *http.Server
	logger       *zap.Logger
	httpEndpoint string
}

// NewServer constructs a Server listening on the given port.
func NewServer(httpPort int, logger *zap.Logger) *Server {
	return &Server{
		httpServer:   &http.Server{},
		logger:       logger,
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterRoutes wires the simulation handlers into a chi router. All
// /api routes sit behind the JWT session middleware.
func (s *Server) RegisterRoutes(h *SimulationHandler, jwtSecret string) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))
		r.Post("/setup/create-full-simulation", h.CreateFullSimulation)
		r.Route("/simulations", func(r chi.Router) {
			r.Post("/", h.CreateSimulation)
			r.Get("/", h.ListSimulations)
			r.Get("/{simulationID}", h.GetSimulation)
		})
	})

	s.httpServer.Handler = r
	s.httpServer.Addr = s.httpEndpoint
}

// Start runs the HTTP server, returning on the first serve error.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
