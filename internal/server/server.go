// Package server exposes the citation library over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/storage"
)

// Store is the read side of the citation cache.
type Store interface {
	GetByID(id string) (*citation.Citation, error)
	List(f storage.ListFilter) ([]citation.Citation, error)
	Search(query string, limit int) ([]citation.Citation, error)
	ListCollections() ([]citation.Collection, error)
}

// DOIResolver looks up citation metadata for a DOI.
type DOIResolver interface {
	LookupDOI(ctx context.Context, doi string) (citation.Citation, error)
}

// Server is the HTTP server for the citation API.
type Server struct {
	store    Store
	resolver DOIResolver
	logger   *slog.Logger
	addr     string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithResolver enables POST /api/doi.
func WithResolver(r DOIResolver) Option {
	return func(s *Server) {
		s.resolver = r
	}
}

// New creates a server reading from store.
func New(store Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: slog.Default(),
		addr:   "127.0.0.1:8080",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/styles", s.handleStyles)
	mux.HandleFunc("GET /api/formats", s.handleFormats)
	mux.HandleFunc("GET /api/citations", s.handleListCitations)
	mux.HandleFunc("GET /api/citations/export", s.handleExport)
	mux.HandleFunc("GET /api/citations/{id}", s.handleGetCitation)
	mux.HandleFunc("GET /api/citations/{id}/format", s.handleFormatCitation)
	mux.HandleFunc("GET /api/collections", s.handleListCollections)
	mux.HandleFunc("POST /api/doi", s.handleDOI)

	return s.recoverMiddleware(s.loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	s.logger.Info("citation server starting", "addr", ln.Addr().String())

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("citation server stopped")
	return nil
}
