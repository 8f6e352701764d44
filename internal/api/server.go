// Package api serves the case catalog over REST.
//
// Endpoints:
//
//	GET /api/v1.0/year        -> {"availableYears": ["2016", ...]}
//	GET /api/v1.0/year/{year} -> [{"case": {...}}, ...]
//
// The rendered dashboard output directory, when configured, is served under
// /dashboard/.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"forcemap/internal/store"
)

// Server hosts the REST API over a case store.
type Server struct {
	store   *store.Store
	logger  *zap.Logger
	router  *mux.Router
	httpSrv *http.Server

	ln    net.Listener
	ready chan struct{}
}

// New builds a server listening on addr. dashboardDir may be empty to skip
// serving rendered dashboard files.
func New(addr string, st *store.Store, dashboardDir string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:  st,
		logger: logger.Named("api"),
		ready:  make(chan struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1.0/year", s.handleYears).Methods("GET")
	r.HandleFunc("/api/v1.0/year/{year}", s.handleCasesByYear).Methods("GET")
	if dashboardDir != "" {
		r.PathPrefix("/dashboard/").Handler(
			http.StripPrefix("/dashboard/", http.FileServer(http.Dir(dashboardDir))))
	}
	s.router = r

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Ready is closed once the listener is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listen address. Valid only after Ready.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	close(s.ready)
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
