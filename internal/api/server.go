// Package api provides the status endpoint HTTP server.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Version is reported in response headers and the status banner
const Version = "1.0.0"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host         string
	Port         string
	CacheControl string
	StatsPath    string
}

// Server represents the status HTTP server. It exposes a single read-only
// plaintext snapshot of aggregate counts; all queryable data access lives
// in a separate API service.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	config     *ServerConfig
}

// NewServer creates a new status server instance.
func NewServer(config *ServerConfig) *Server {
	s := &Server{
		router: mux.NewRouter(),
		config: config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(HeadersMiddleware(s.config.CacheControl))

	s.router.HandleFunc("/", s.handleStatus).Methods(http.MethodGet)
}

// Start begins listening for requests
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying router, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}
