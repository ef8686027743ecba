// Package server provides the spectator HTTP server for handpong.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/handpong/internal/feed"
	"github.com/ayusman/handpong/internal/server/api"
	"github.com/ayusman/handpong/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store *store.Store
	Feed  *feed.Feed
	// FrameInterval is how often streaming endpoints poll the feed.
	FrameInterval time.Duration
}

// DefaultFrameInterval polls the feed at roughly 15 FPS.
const DefaultFrameInterval = 66 * time.Millisecond

// Server represents the spectator HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		matches := api.NewMatchHandler(s.config.Store)
		s.mux.Handle("/api/matches", matches)
		s.mux.Handle("/api/matches/", matches)
	}

	if s.config.Feed != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Feed, s.config.FrameInterval))
		s.mux.Handle("/api/state", NewStateHandler(s.config.Feed, s.config.FrameInterval))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Feed != nil {
		snapshot, _, _ := s.config.Feed.Latest()
		response["phase"] = snapshot.Phase
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
