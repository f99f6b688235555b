// Package server exposes the publication pipeline's trigger surface over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rekrytera/jobad-publisher/internal/publish"
	"github.com/rekrytera/jobad-publisher/internal/taxonomy"
)

// Config holds server configuration
type Config struct {
	Port int
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	publisher  *publish.Publisher
	refresher  *taxonomy.Refresher
	jobs       publish.JobStore
	logger     *zap.Logger
}

// New creates a new server instance
func New(cfg Config, publisher *publish.Publisher, refresher *taxonomy.Refresher, jobs publish.JobStore, logger *zap.Logger) *Server {
	s := &Server{
		publisher: publisher,
		refresher: refresher,
		jobs:      jobs,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs/{id}/resolve", s.handleResolve)
	mux.HandleFunc("POST /jobs/{id}/validate", s.handleValidate)
	mux.HandleFunc("POST /jobs/{id}/publish", s.handlePublish)
	mux.HandleFunc("GET /jobs/{id}/sync", s.handleSyncStatus)
	mux.HandleFunc("POST /taxonomy/refresh", s.handleTaxonomyRefresh)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // taxonomy refresh pages through seven vocabularies
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
