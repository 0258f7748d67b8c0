package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ytget/ytmp3/internal/download"
	"github.com/ytget/ytmp3/internal/model"
	"github.com/ytget/ytmp3/internal/status"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 30 * time.Second

// NewRouter wires the job and websocket endpoints
func NewRouter(runner JobRunner, hub *status.Hub, defaultDir string) http.Handler {
	r := chi.NewRouter()
	r.Post("/jobs/single", StartJobHandler(runner, model.KindSingle, defaultDir))
	r.Post("/jobs/playlist", StartJobHandler(runner, model.KindPlaylist, defaultDir))
	r.Get("/jobs", ListJobsHandler(runner))
	r.Get("/ws", hub.WsHandler)
	return r
}

// Server exposes a Runner over HTTP and streams its events to websocket
// clients
type Server struct {
	runner *download.Runner
	hub    *status.Hub
	http   *http.Server
	logger *slog.Logger
}

// New creates a server listening on addr
func New(addr string, runner *download.Runner, defaultDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	hub := status.NewHub(logger)
	return &Server{
		runner: runner,
		hub:    hub,
		http:   &http.Server{Addr: addr, Handler: NewRouter(runner, hub, defaultDir)},
		logger: logger,
	}
}

// Serve runs until ctx is done, then shuts down and waits for running jobs
func (s *Server) Serve(ctx context.Context) error {
	go s.hub.Run(ctx)
	go s.pump(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server forced to shutdown", "error", err)
	}
	s.runner.Wait()
	s.logger.Info("server exited")
	return nil
}

// pump is the interface loop: the only place adapters are called
func (s *Server) pump(ctx context.Context) {
	adapter := status.Fanout{s.hub, status.NewLog(s.logger)}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.runner.Events():
			download.Dispatch(ev, adapter)
		}
	}
}
